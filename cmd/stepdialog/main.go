// Stepdialog is a three-step registration form for the terminal.
//
// The form collects a name, then an address, phone number and terms
// agreement, then shows a confirmation summary before submitting. Submission
// is simulated by default and can be pointed at an HTTP or WebSocket
// receiver through the config file.
//
// Usage:
//
//	stepdialog [command] [flags]
//
// Running without arguments opens the full-screen form.
// See 'stepdialog --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stepdialog",
	Short: "Three-step registration form",
	Long: `A three-step registration form for the terminal.

Step 1 asks for your name, step 2 for your address, phone number and
agreement to the terms, and step 3 shows everything for confirmation
before it is submitted.

If no command is specified, the full-screen form opens automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runForm,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionFull bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !versionFull {
			fmt.Fprintf(cmd.OutOrStdout(), "stepdialog %s\n", version.Full())
			return nil
		}
		return printYAML(cmd.OutOrStdout(), version.Get())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "Include Go version and platform (YAML)")
}
