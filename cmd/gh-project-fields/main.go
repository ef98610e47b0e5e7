package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var verboseLevel int

var rootCmd = &cobra.Command{
	Use:          "gh-project-fields",
	Short:        "Set custom field values on GitHub Projects (v2) items",
	Version:      version,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on verbose level
		level := slog.LevelInfo
		if verboseLevel > 0 {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verboseLevel, "verbose", "v", "Verbosity level (-v for debug logs, -vv for debug logs and HTTP traffic)")
	rootCmd.AddCommand(updateCmd, listFieldsCmd)
}
