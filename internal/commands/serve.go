package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/fleetbooks/fleetbooks/internal/server"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTables(cmd.Context(), func(ctx context.Context, tables *store.Tables) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			})
		},
	}
}

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the back office HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withTables(ctx, func(ctx context.Context, tables *store.Tables) error {
				if addr != "" {
					a.cfg.Server.Addr = addr
				}
				srv := server.New(tables, a.cfg, a.logger, prometheus.NewRegistry())
				return srv.ListenAndServe(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}
