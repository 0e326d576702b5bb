// Package cli implements the reqctl command suite: a thin cobra adaptor
// over internal/service that never touches the graph directly.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reqgraph/reqctl/internal/service"
)

// Exit codes per the CLI boundary contract: 0 success, 2 drift/validation
// issues found, 130 user cancellation.
const (
	ExitOK         = 0
	ExitDriftFound = 2
	ExitCancelled  = 130
)

var rootDir string

var rootCmd = &cobra.Command{
	Use:   "reqctl",
	Short: "Manage a graph of markdown requirements",
	Long:  `reqctl tracks human-readable requirements linked into a parent/child dependency graph, stored as markdown files in a directory.`,
}

// Execute runs the command tree under a context cancelled on SIGINT/SIGTERM,
// matching the teacher's signal-driven shutdown (adapted from a goroutine
// watching os.Signal to context cancellation, since there is no long-running
// mount to unmount here). A command still running when the signal fires
// exits 130 rather than whatever error cancellation produced.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && ctx.Err() == context.Canceled {
		exitWithCode(ExitCancelled)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "requirements root directory")
}

func openState(cmd *cobra.Command) (*service.State, error) {
	return service.Open(cmd.Context(), rootDir)
}

func exitWithCode(code int) {
	os.Exit(code)
}

func printErr(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "reqctl: "+format+"\n", args...)
}
