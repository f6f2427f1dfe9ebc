package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/importer"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

func newJournalImportBankCommand(a *app) *cobra.Command {
	var format string
	var post bool

	cmd := &cobra.Command{
		Use:   "import-bank [statement.csv...]",
		Short: "Create entries from bank statements",
		Long: "Create one entry per bank statement line, booked against bank.account and the\n" +
			"counter account chosen by bank.rules. Without arguments every CSV in import/ is\n" +
			"read and moved to import/processed/ once booked. Lines whose reference is\n" +
			"already in the journal are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q (have %s)", format, strings.Join(importer.DefaultRegistry().Formats(), ", "))
			}

			files := args
			scanned := len(args) == 0
			if scanned {
				found, err := importer.Scan(a.dir())
				if err != nil {
					return err
				}
				for _, f := range found {
					files = append(files, f.Path)
				}
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import")
					return nil
				}
			}

			var txns []importer.Transaction
			for _, path := range files {
				got, err := parseStatementFile(parser, path)
				if err != nil {
					return err
				}
				txns = append(txns, got...)
			}

			err := a.withJournal(cmd.Context(), func(ctx context.Context, tx *store.Tables, svc *journal.Service) error {
				out := cmd.OutOrStdout()
				created, skipped := 0, 0
				for _, e := range a.cfg.Bank.Entries(txns) {
					n, err := tx.JournalEntries.Count(ctx, map[string]any{"reference": e.Reference})
					if err != nil {
						return err
					}
					if n > 0 {
						skipped++
						continue
					}
					entry, err := createEntry(ctx, tx, svc, e, post)
					if err != nil {
						return fmt.Errorf("statement line %s: %w", e.Reference, err)
					}
					fmt.Fprintf(out, "%s  %s  %s\n", entry.Number, entry.Status, e.Reference)
					created++
				}
				a.logger.Info("bank statements imported", zap.Int("files", len(files)), zap.Int("created", created), zap.Int("skipped", skipped))
				fmt.Fprintf(out, "Created %d entries, skipped %d already imported\n", created, skipped)
				return nil
			})
			if err != nil {
				return err
			}

			if scanned {
				for _, path := range files {
					if err := importer.MarkProcessed(a.dir(), filepath.Base(path)); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "statement", "statement layout")
	cmd.Flags().BoolVar(&post, "post", false, "post the entries after creating them")

	return cmd
}

func parseStatementFile(p importer.Parser, path string) ([]importer.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	txns, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txns, nil
}
