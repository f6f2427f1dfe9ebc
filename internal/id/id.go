package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Document number prefixes.
const (
	PrefixJournal  = "JE"
	PrefixLoad     = "LD"
	PrefixPurchase = "PO"
)

// FormatNumber returns a document number like "JE-2025-01-001".
func FormatNumber(prefix string, year, month, seq int) string {
	return fmt.Sprintf("%s-%04d-%02d-%03d", prefix, year, month, seq)
}

// FormatEntryNo returns a journal entry number like "JE-2025-01-001".
func FormatEntryNo(year, month, seq int) string {
	return FormatNumber(PrefixJournal, year, month, seq)
}

// ParseNumber parses "JE-2025-01-001" into prefix, year, month, seq.
func ParseNumber(number string) (prefix string, year, month, seq int, err error) {
	parts := strings.SplitN(number, "-", 4)
	if len(parts) != 4 || parts[0] == "" {
		return "", 0, 0, 0, fmt.Errorf("invalid document number format: %q", number)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid year in document number %q: %w", number, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid month in document number %q: %w", number, err)
	}
	if month < 1 || month > 12 {
		return "", 0, 0, 0, fmt.Errorf("month %d out of range in document number %q", month, number)
	}

	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid sequence in document number %q: %w", number, err)
	}

	return parts[0], year, month, seq, nil
}

// NextSeq returns one more than the highest sequence among numbers that
// share prefix, year and month. Malformed numbers are ignored.
func NextSeq(numbers []string, prefix string, year, month int) int {
	maxSeq := 0
	for _, n := range numbers {
		p, y, m, seq, err := ParseNumber(n)
		if err != nil || p != prefix || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
