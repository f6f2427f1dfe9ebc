package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetbooks/fleetbooks/internal/books"
	"github.com/fleetbooks/fleetbooks/internal/export"
	"github.com/fleetbooks/fleetbooks/internal/journal"
	"github.com/fleetbooks/fleetbooks/internal/locale"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func newJournalCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record, post and void journal entries",
	}
	cmd.AddCommand(
		newJournalImportCommand(a),
		newJournalImportBankCommand(a),
		newJournalStatusCommand(a, "post", "Post a draft entry into the books", (*journal.Service).Post),
		newJournalStatusCommand(a, "void", "Void an entry", (*journal.Service).Void),
		newJournalListCommand(a),
	)
	return cmd
}

// cliRequestID marks activity recorded from the command line.
const cliRequestID = "cli"

const journalTable = "journal_entries"

// withJournal runs fn in a transaction with a journal service over the
// stored chart.
func (a *app) withJournal(ctx context.Context, fn func(ctx context.Context, tx *store.Tables, svc *journal.Service) error) error {
	return a.withTables(ctx, func(ctx context.Context, tables *store.Tables) error {
		return tables.Tx(ctx, func(tx *store.Tables) error {
			chart, err := books.Chart(ctx, tx)
			if err != nil {
				return err
			}
			return fn(ctx, tx, journal.NewService(tx, chart, a.logger))
		})
	})
}

func newJournalImportCommand(a *app) *cobra.Command {
	var post bool

	cmd := &cobra.Command{
		Use:   "import <journal.csv>",
		Short: "Create one entry per entry number found in a journal CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer f.Close()

			lines, err := journal.ReadLines(f)
			if err != nil {
				return err
			}
			entries := journal.GroupEntries(lines)
			if len(entries) == 0 {
				return fmt.Errorf("%s has no journal lines", args[0])
			}

			return a.withJournal(cmd.Context(), func(ctx context.Context, tx *store.Tables, svc *journal.Service) error {
				out := cmd.OutOrStdout()
				for _, e := range entries {
					created, err := createEntry(ctx, tx, svc, e, post)
					if err != nil {
						return fmt.Errorf("entry %s: %w", e.Reference, err)
					}
					fmt.Fprintf(out, "%s  %s  %s\n", created.Number, created.Status, e.Reference)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&post, "post", false, "post the entries after creating them")

	return cmd
}

// createEntry drafts e and, when post is set, posts it. Both steps are
// recorded in the activity log.
func createEntry(ctx context.Context, tx *store.Tables, svc *journal.Service, e model.JournalEntry, post bool) (*model.JournalEntry, error) {
	created, err := svc.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	if err := tx.Record(ctx, journalTable, "create", created.ID, cliRequestID, created.Number); err != nil {
		return nil, err
	}
	if !post {
		return created, nil
	}
	posted, err := svc.Post(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Record(ctx, journalTable, "post", posted.ID, cliRequestID, posted.Number); err != nil {
		return nil, err
	}
	return posted, nil
}

func newJournalStatusCommand(a *app, use, short string, fn func(*journal.Service, context.Context, string) (*model.JournalEntry, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <number>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withJournal(cmd.Context(), func(ctx context.Context, tx *store.Tables, svc *journal.Service) error {
				e, err := svc.GetByNumber(ctx, args[0])
				if err != nil {
					return err
				}
				if e, err = fn(svc, ctx, e.ID); err != nil {
					return err
				}
				if err := tx.Record(ctx, journalTable, use, e.ID, cliRequestID, e.Number); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.Number, e.Status)
				return nil
			})
		},
	}
}

func newJournalListCommand(a *app) *cobra.Command {
	var from, to, status, account string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := journal.Filter{Status: model.EntryStatus(status), AccountCode: account}
			var err error
			if f.From, err = parseDate(from); err != nil {
				return err
			}
			if f.To, err = parseDate(to); err != nil {
				return err
			}
			switch f.Status {
			case "", model.StatusDraft, model.StatusPosted, model.StatusVoided:
			default:
				return fmt.Errorf("unknown status %q", status)
			}

			return a.withJournal(cmd.Context(), func(ctx context.Context, _ *store.Tables, svc *journal.Service) error {
				entries, err := svc.List(ctx, f)
				if err != nil {
					return err
				}
				return export.WriteText(cmd.OutOrStdout(), entriesTable(entries))
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "draft, posted or voided")
	cmd.Flags().StringVar(&account, "account", "", "only entries touching this account or its sub-accounts")

	return cmd
}

func entriesTable(entries []model.JournalEntry) export.Table {
	t := export.Table{
		Title: "Journal entries",
		Lang:  locale.English,
		Columns: []export.Column{
			{Title: "Number"},
			{Title: "Date"},
			{Title: "Status"},
			{Title: "Description", Span: 3},
			{Title: "Amount", Numeric: true},
		},
	}
	for _, e := range entries {
		debit, _ := e.Totals()
		t.Rows = append(t.Rows, []string{
			e.Number,
			e.Date.Format(dateLayout),
			string(e.Status),
			e.Description,
			debit.StringFixed(2),
		})
	}
	return t
}
