package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/loopback/internal/app"
	"github.com/five82/loopback/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "loopback: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "loopback",
		Short: "TCP loopback server with a scrolling LCD log",
		Long: `loopback echoes every chunk received on its TCP port back to the sender and
appends it to a scrolling log drawn on an LCD panel, or on a terminal front
panel when no hardware is configured.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stderr = cmd.ErrOrStderr()
			return app.Run(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/loopback/config.toml)")
	root.Flags().StringVar(&opts.PrefsPath, "prefs", "", "front panel preferences file (default ~/.config/loopback/prefs.toml)")
	root.Flags().BoolVar(&opts.Headless, "headless", false, "serve without the terminal front panel and log to stderr")
	root.Flags().StringVar(&opts.LogLevel, "log-level", "", "override [log].level (debug, info, warn, error)")

	root.AddCommand(newNetInfoCmd(&opts))
	return root
}

func newNetInfoCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "netinfo",
		Short: "Print the configured network identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			for _, line := range app.NetInfoLines(cfg.Network) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
