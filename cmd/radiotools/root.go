package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/radionets-project/radiotools/internal/logging"
)

// log is the process-wide logger, configured by --log-level before any
// subcommand runs.
var log = logging.Discard()

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "radiotools",
		Short: "Radio astronomy observation planning tools",
		Long: `radiotools plans radio astronomy observations: when a source is
observable from a site or an interferometer array, which observation
slot suits a requested duration best, and what the array geometry
looks like on the ground.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New(logging.ParseLevel(logLevel))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newVisCmd())
	root.AddCommand(newLayoutCmd())
	root.AddCommand(newArraysCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command under a signal-cancelled context.
func Execute() {
	ctx, cancel := signalContext()
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
