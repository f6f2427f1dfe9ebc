package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

func newAccountsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountsImportCommand(a),
		newAccountsExportCommand(a),
		newAccountsTreeCommand(a),
	)
	return cmd
}

func newAccountsImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace the chart of accounts with the contents of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening chart: %w", err)
			}
			defer f.Close()

			chart, err := accounts.ReadAccounts(f)
			if err != nil {
				return err
			}
			if errs := accounts.Validate(chart); len(errs) > 0 {
				msgs := make([]string, len(errs))
				for i, e := range errs {
					msgs[i] = e.Error()
				}
				return fmt.Errorf("invalid chart of accounts:\n  %s", strings.Join(msgs, "\n  "))
			}

			return a.withTables(cmd.Context(), func(ctx context.Context, tables *store.Tables) error {
				err := tables.Tx(ctx, func(tx *store.Tables) error {
					if err := books.CheckCodesInUse(ctx, tx, accounts.NewService(chart)); err != nil {
						return err
					}
					if err := tx.ReplaceAccounts(ctx, chart); err != nil {
						return err
					}
					return tx.Record(ctx, "chart_of_accounts", "import", "", cliRequestID, fmt.Sprintf("%d accounts from %s", len(chart), args[0]))
				})
				if err != nil {
					return err
				}
				a.logger.Info("imported chart of accounts", zap.String("file", args[0]), zap.Int("accounts", len(chart)))
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", len(chart))
				return nil
			})
		},
	}
}

func newAccountsExportCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart of accounts as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTables(cmd.Context(), func(ctx context.Context, tables *store.Tables) error {
				chart, err := books.Chart(ctx, tables)
				if err != nil {
					return err
				}
				if out != "" {
					return chart.SaveFile(out)
				}
				return accounts.WriteAccounts(cmd.OutOrStdout(), chart.All())
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")

	return cmd
}

func newAccountsTreeCommand(a *app) *cobra.Command {
	var depth int
	var asOf string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the account hierarchy with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseDate(asOf)
			if err != nil {
				return err
			}
			return a.withTables(cmd.Context(), func(ctx context.Context, tables *store.Tables) error {
				l, err := books.LoadLedger(ctx, tables, journal.Filter{To: to})
				if err != nil {
					return err
				}
				printTree(cmd.OutOrStdout(), ledger.BuildTree(l.Chart, l.Lines, depth), a.cfg.Business.Language)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "deepest level to show (0 for all)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "balances as of this date (YYYY-MM-DD)")

	return cmd
}

func printTree(w io.Writer, nodes []*ledger.Node, lang string) {
	ledger.Walk(nodes, func(n *ledger.Node) {
		name := n.Account.Name
		if lang == locale.Arabic && n.Account.NameAr != "" {
			name = n.Account.NameAr
		}
		label := strings.Repeat("  ", n.Depth-1) + n.Account.Code + "  " + name
		fmt.Fprintf(w, "%-60s %14s\n", label, n.Balance.StringFixed(2))
	})
}
