package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// TreebankExtensions are the file extensions of bracketed treebank files.
var TreebankExtensions = []string{".mrg", ".tree", ".ptb", ".penn"}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

// New returns a scanner for rootDir. Without extensions it picks up
// treebank files.
func New(rootDir string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = TreebankExtensions
	}
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the root directory and returns the target files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var (
		files []FileInfo
		mutex sync.Mutex
		wg    sync.WaitGroup
	)

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if s.isTargetFile(path) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fileInfo := FileInfo{
					Path: path,
					Size: info.Size(),
				}
				mutex.Lock()
				files = append(files, fileInfo)
				mutex.Unlock()
			}()
		}
		return nil
	})

	wg.Wait()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	return hasExtension(path, s.extensions)
}

// IsTreebank reports whether path has one of the treebank extensions.
func IsTreebank(path string) bool {
	return hasExtension(path, TreebankExtensions)
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, targetExt := range extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
