package journal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// ValidationError describes a single invariant violation. Line is the
// 1-based line number, or 0 when the violation concerns the whole entry.
type ValidationError struct {
	Invariant   int
	Line        int
	Description string
}

func (e ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invariant %d: %s", e.Invariant, e.Description)
	}
	return fmt.Sprintf("invariant %d [line %d]: %s", e.Invariant, e.Line, e.Description)
}

// EntryError collects the violations that kept an entry from being saved.
type EntryError struct {
	Errors []ValidationError
}

func (e *EntryError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is reports ErrInvalidEntry for every EntryError and ErrUnbalanced when
// debits and credits differ.
func (e *EntryError) Is(target error) bool {
	switch target {
	case ErrInvalidEntry:
		return true
	case ErrUnbalanced:
		for _, ve := range e.Errors {
			if ve.Invariant == 1 {
				return true
			}
		}
	}
	return false
}

// Chart answers the account questions validation needs.
type Chart interface {
	Exists(code string) bool
	IsLeaf(code string) bool
}

// ValidateEntry enforces the posting invariants on a single entry:
//
//  1. debits equal credits
//  2. every line carries exactly one positive amount
//  3. every account exists and has no children
//  4. at least two lines
//  5. amounts have no more than 2 decimal places
//  6. the entry is dated
func ValidateEntry(entry model.JournalEntry, chart Chart) []ValidationError {
	var errs []ValidationError

	debit, credit := entry.Totals()
	if !debit.Equal(credit) {
		errs = append(errs, ValidationError{
			Invariant:   1,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2)),
		})
	}

	for i, l := range entry.Lines {
		n := i + 1

		hasDebit := !l.Debit.IsZero()
		hasCredit := !l.Credit.IsZero()
		switch {
		case hasDebit == hasCredit:
			errs = append(errs, ValidationError{Invariant: 2, Line: n, Description: "line must have exactly one of debit or credit"})
		case l.Debit.IsNegative() || l.Credit.IsNegative():
			errs = append(errs, ValidationError{Invariant: 2, Line: n, Description: "amount must be positive"})
		}

		switch {
		case !chart.Exists(l.AccountCode):
			errs = append(errs, ValidationError{Invariant: 3, Line: n, Description: fmt.Sprintf("unknown account %q", l.AccountCode)})
		case !chart.IsLeaf(l.AccountCode):
			errs = append(errs, ValidationError{Invariant: 3, Line: n, Description: fmt.Sprintf("account %s has sub-accounts and cannot be posted to", l.AccountCode)})
		}

		if !twoPlaces(l.Debit) {
			errs = append(errs, ValidationError{Invariant: 5, Line: n, Description: fmt.Sprintf("debit %s has more than 2 decimal places", l.Debit)})
		}
		if !twoPlaces(l.Credit) {
			errs = append(errs, ValidationError{Invariant: 5, Line: n, Description: fmt.Sprintf("credit %s has more than 2 decimal places", l.Credit)})
		}
	}

	if len(entry.Lines) < 2 {
		errs = append(errs, ValidationError{Invariant: 4, Description: fmt.Sprintf("entry needs at least 2 lines, has %d", len(entry.Lines))})
	}

	if entry.Date.IsZero() {
		errs = append(errs, ValidationError{Invariant: 6, Description: "entry has no date"})
	}

	return errs
}

func twoPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
