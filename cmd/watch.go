package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tregex/search"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-run patterns whenever treebank files change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		config, err := loadConfig(cfgFile, adhocPatterns)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		engine, err := search.NewFromConfig(config, logger, cacheDir)
		if err != nil {
			logger.Fatal("Failed to initialize search engine", zap.Error(err))
		}

		if err := engine.StartWatching(args...); err != nil {
			logger.Fatal("Failed to start watching", zap.Error(err))
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		if err := engine.StopWatching(); err != nil {
			logger.Error("Error stopping watcher", zap.Error(err))
		}
	},
}

func init() {
	watchCmd.Flags().StringArrayVarP(&adhocPatterns, "pattern", "p", nil, "Pattern to search for (repeatable)")
}
