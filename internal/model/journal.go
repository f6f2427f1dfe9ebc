package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusDraft  EntryStatus = "draft"
	StatusPosted EntryStatus = "posted"
	StatusVoided EntryStatus = "voided"
)

// JournalEntry is a dated set of debit/credit lines. Only posted entries
// count towards balances.
type JournalEntry struct {
	Base
	Number      string        `gorm:"uniqueIndex;size:32;not null" json:"number"`
	Date        time.Time     `gorm:"index;not null" json:"date" validate:"required"`
	Description string        `json:"description" validate:"max=500"`
	Reference   string        `gorm:"size:100" json:"reference" validate:"max=100"`
	Status      EntryStatus   `gorm:"size:16;not null;index" json:"status"`
	PostedAt    *time.Time    `json:"posted_at,omitempty"`
	Lines       []JournalLine `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"lines" validate:"dive"`
}

// TableName implements gorm's tabler.
func (JournalEntry) TableName() string { return "journal_entries" }

// JournalLine is one side of a journal entry against a single account.
type JournalLine struct {
	Base
	EntryID     string          `gorm:"size:36;index;not null" json:"entry_id"`
	LineNo      int             `gorm:"not null" json:"line_no"`
	AccountCode string          `gorm:"size:64;index;not null" json:"account_code" validate:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"debit"`
	Credit      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"credit"`
}

// TableName implements gorm's tabler.
func (JournalLine) TableName() string { return "journal_entry_lines" }

// Totals returns the summed debits and credits of the entry's lines.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}
