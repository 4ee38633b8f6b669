package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagAddr     string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tasktree",
	Short:         "Hierarchical task list with completion propagation",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./tasktree.yaml or ~/.config/tasktree/tasktree.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log.level (debug|info|warn|error)")

	rootCmd.AddCommand(serveCmd)
}
