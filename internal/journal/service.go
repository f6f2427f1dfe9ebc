package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetbooks/fleetbooks/internal/accounts"
	"github.com/fleetbooks/fleetbooks/internal/id"
	"github.com/fleetbooks/fleetbooks/internal/ledger"
	"github.com/fleetbooks/fleetbooks/internal/model"
	"github.com/fleetbooks/fleetbooks/internal/store"
)

var (
	// ErrInvalidEntry is matched by every validation failure.
	ErrInvalidEntry = errors.New("invalid journal entry")
	// ErrUnbalanced is matched when an entry's debits and credits differ.
	ErrUnbalanced = errors.New("journal entry does not balance")
	// ErrNotDraft is returned when changing an entry that is no longer a draft.
	ErrNotDraft = errors.New("journal entry is not a draft")
	// ErrVoided is returned when voiding an entry twice.
	ErrVoided = errors.New("journal entry already voided")
)

// Filter narrows List and Lines. Zero values match everything.
type Filter struct {
	From        time.Time
	To          time.Time
	Status      model.EntryStatus
	AccountCode string
}

func (f Filter) period() ledger.Period { return ledger.Period{From: f.From, To: f.To} }

// Service provides business logic for journal entries.
type Service struct {
	tables *store.Tables
	chart  Chart
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a journal Service over the stored entries, checking
// accounts against chart.
func NewService(tables *store.Tables, chart Chart, logger *zap.Logger) *Service {
	return &Service{tables: tables, chart: chart, logger: logger, now: time.Now}
}

// createAttempts bounds retries when a concurrent writer takes the
// same entry number.
const createAttempts = 3

// Create validates entry and saves it as a draft with the next entry
// number of its month.
func (s *Service) Create(ctx context.Context, entry model.JournalEntry) (*model.JournalEntry, error) {
	entry.Status = model.StatusDraft
	entry.PostedAt = nil
	for i := range entry.Lines {
		entry.Lines[i].LineNo = i + 1
	}

	if verrs := ValidateEntry(entry, s.chart); len(verrs) > 0 {
		return nil, &EntryError{Errors: verrs}
	}

	var err error
	for attempt := 1; attempt <= createAttempts; attempt++ {
		err = s.tables.Tx(ctx, func(tx *store.Tables) error {
			entry.ID = ""
			for i := range entry.Lines {
				entry.Lines[i].ID = ""
				entry.Lines[i].EntryID = ""
			}

			year, month := entry.Date.Year(), int(entry.Date.Month())
			prefix := fmt.Sprintf("%s-%04d-%02d-", id.PrefixJournal, year, month)

			var numbers []string
			if err := tx.DB().WithContext(ctx).Model(&model.JournalEntry{}).
				Where("number LIKE ?", prefix+"%").
				Pluck("number", &numbers).Error; err != nil {
				return fmt.Errorf("reading entry numbers: %w", err)
			}
			entry.Number = id.FormatEntryNo(year, month, id.NextSeq(numbers, id.PrefixJournal, year, month))

			return tx.JournalEntries.Insert(ctx, &entry)
		})
		if !errors.Is(err, store.ErrConflict) {
			break
		}
		s.logger.Warn("entry number taken, retrying", zap.String("number", entry.Number), zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("journal entry created", zap.String("number", entry.Number), zap.Int("lines", len(entry.Lines)))
	return &entry, nil
}

// Get returns an entry with its lines in order.
func (s *Service) Get(ctx context.Context, entryID string) (*model.JournalEntry, error) {
	e, err := s.tables.JournalEntries.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}
	sortLines(e)
	return e, nil
}

// GetByNumber returns the entry with the given entry number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*model.JournalEntry, error) {
	rows, err := s.tables.JournalEntries.List(ctx, store.Query{Where: map[string]any{"number": number}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("journal entry %s: %w", number, store.ErrNotFound)
	}
	sortLines(&rows[0])
	return &rows[0], nil
}

// Post moves a draft into the books. The entry is validated again since
// the chart may have changed since it was drafted.
func (s *Service) Post(ctx context.Context, entryID string) (*model.JournalEntry, error) {
	var posted *model.JournalEntry
	err := s.tables.Tx(ctx, func(tx *store.Tables) error {
		e, err := tx.JournalEntries.Get(ctx, entryID)
		if err != nil {
			return err
		}
		if e.Status != model.StatusDraft {
			return fmt.Errorf("posting %s (%s): %w", e.Number, e.Status, ErrNotDraft)
		}
		if verrs := ValidateEntry(*e, s.chart); len(verrs) > 0 {
			return &EntryError{Errors: verrs}
		}

		at := s.now().UTC()
		e.Status = model.StatusPosted
		e.PostedAt = &at
		if err := tx.JournalEntries.Update(ctx, e.ID, e); err != nil {
			return err
		}
		posted = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortLines(posted)
	s.logger.Info("journal entry posted", zap.String("number", posted.Number))
	return posted, nil
}

// Void takes a draft or posted entry out of the books. The entry and its
// lines are kept for the audit trail.
func (s *Service) Void(ctx context.Context, entryID string) (*model.JournalEntry, error) {
	var voided *model.JournalEntry
	err := s.tables.Tx(ctx, func(tx *store.Tables) error {
		e, err := tx.JournalEntries.Get(ctx, entryID)
		if err != nil {
			return err
		}
		if e.Status == model.StatusVoided {
			return fmt.Errorf("voiding %s: %w", e.Number, ErrVoided)
		}
		e.Status = model.StatusVoided
		if err := tx.JournalEntries.Update(ctx, e.ID, e); err != nil {
			return err
		}
		voided = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortLines(voided)
	s.logger.Info("journal entry voided", zap.String("number", voided.Number))
	return voided, nil
}

// Delete removes a draft entry.
func (s *Service) Delete(ctx context.Context, entryID string) error {
	return s.tables.Tx(ctx, func(tx *store.Tables) error {
		e, err := tx.JournalEntries.Get(ctx, entryID)
		if err != nil {
			return err
		}
		if e.Status != model.StatusDraft {
			return fmt.Errorf("deleting %s (%s): %w", e.Number, e.Status, ErrNotDraft)
		}
		return tx.JournalEntries.Delete(ctx, entryID)
	})
}

// List returns entries matching f ordered by date then number. An
// account filter matches entries with a line on that account or any of
// its sub-accounts.
func (s *Service) List(ctx context.Context, f Filter) ([]model.JournalEntry, error) {
	q := s.tables.DB().WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_no") })

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AccountCode != "" {
		q = q.Where("id IN (?)", s.tables.DB().Model(&model.JournalLine{}).
			Select("entry_id").
			Where("account_code = ? OR account_code LIKE ?", f.AccountCode, f.AccountCode+accounts.Separator+"%"))
	}

	var entries []model.JournalEntry
	if err := q.Order("date").Order("number").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}

	period := f.period()
	out := entries[:0]
	for _, e := range entries {
		if period.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Lines returns the lines of posted entries matching f, ordered by date,
// entry number and line number. Status in f is ignored.
func (s *Service) Lines(ctx context.Context, f Filter) ([]ledger.Line, error) {
	return PostedLines(ctx, s.tables, f)
}

// PostedLines reads the lines of posted entries matching f without
// needing a chart. Status in f is ignored.
func PostedLines(ctx context.Context, tables *store.Tables, f Filter) ([]ledger.Line, error) {
	var lines []ledger.Line
	err := tables.DB().WithContext(ctx).Raw(`
		SELECT l.entry_id, e.number AS entry_no, e.date, l.account_code, l.description, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.status = ?
		ORDER BY e.date, e.number, l.line_no`, model.StatusPosted).
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("reading posted lines: %w", err)
	}

	period := f.period()
	return ledger.Filter(lines, func(l ledger.Line) bool {
		if !period.Contains(l.Date) {
			return false
		}
		return f.AccountCode == "" || accounts.InSubtree(l.AccountCode, f.AccountCode)
	}), nil
}

func sortLines(e *model.JournalEntry) {
	sort.SliceStable(e.Lines, func(i, j int) bool { return e.Lines[i].LineNo < e.Lines[j].LineNo })
}
