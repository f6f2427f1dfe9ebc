package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetbooks/fleetbooks/internal/gitops"
	"github.com/fleetbooks/fleetbooks/internal/snapshot"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

func newSnapshotCommand(a *app) *cobra.Command {
	var dir, message string
	var noCommit bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export the chart and posted journal as CSV files and commit them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTables(cmd.Context(), func(ctx context.Context, tables *store.Tables) error {
				if dir == "" {
					dir = a.dir()
				}
				commit := a.cfg.Git.AutoCommit && !noCommit
				if commit && !gitops.IsRepo(dir) {
					if err := gitops.Init(ctx, dir); err != nil {
						return fmt.Errorf("git init: %w", err)
					}
				}
				res, err := snapshot.Write(ctx, tables, dir, snapshot.Options{
					Commit:  commit,
					Message: message,
					Author:  a.author(),
				}, a.logger)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Wrote %d files, %d journal lines\n", len(res.Files), res.Lines)
				if res.Commit != "" {
					fmt.Fprintf(out, "Committed %s\n", res.Commit)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (default: the project directory)")
	cmd.Flags().StringVarP(&message, "message", "m", "snapshot: Update books", "commit message")
	cmd.Flags().BoolVar(&noCommit, "no-commit", false, "write the files without committing")

	return cmd
}
