// Package cmd contains the CLI commands for the editrainer application.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// verbose holds the global --verbose flag state.
var verbose bool

// configPath and specsDir are shared by every subcommand.
var (
	configPath string
	specsDir   string
)

func init() {
	rootCmd = BuildCommandTree(nil)
}

// GetVerbose returns the current verbose flag state.
func GetVerbose() bool {
	return verbose
}

// NewRootCmd creates a new root command instance.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editrainer",
		Short: "Generate EDI 834 training transactions with injected errors",
		Long: "editrainer generates realistic EDI 834 benefit enrollment transactions.\n" +
			"At most one error is injected per transaction, and the error can be revealed\n" +
			"interactively as a sequence of hints.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: editrainer.yaml in . or $HOME/.config/editrainer)")
	cmd.PersistentFlags().StringVar(&specsDir, "specs-dir", "", "Directory of override specification documents")

	return cmd
}

// Execute runs the root command and returns any error.
// Deprecated: Use ExecuteContext instead for proper signal handling.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
