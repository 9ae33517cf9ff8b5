package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/portfolio/internal/app"
	"github.com/okian/portfolio/internal/config"
)

// Build info - injected via ldflags
var (
	Version   = service.ServerVersion
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Running it without a subcommand serves the site.
func newRootCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio web server",
		Long:          `Serves the portfolio site and its JSON API (contact form, server info, projects, health).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Root context with cancel on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var opts []config.LoadOption
			if configPath != "" {
				opts = append(opts, config.WithFile(configPath))
			}
			if cmd.Flags().Changed("port") {
				opts = append(opts, config.WithPort(port))
			}
			return run(ctx, cmd.OutOrStdout(), opts...)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (overrides "+config.FileEnvVar+")")
	root.Flags().IntVarP(&port, "port", "p", 0, "TCP port to listen on (overrides PORT)")

	root.AddCommand(newVersionCmd())
	root.SetContext(context.Background())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s %s (commit %s, built %s, %s)\n",
		service.ServerName, Version, Commit, BuildTime, runtime.Version())
}
