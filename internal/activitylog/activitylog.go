// Package activitylog reads and writes the activity log as CSV.
package activitylog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Header is the CSV header for activity-log.csv.
const Header = "at,table,action,row_id,request_id,details"

const (
	numFields    = 6
	colAt        = 0
	colTarget    = 1
	colAction    = 2
	colRowID     = 3
	colRequestID = 4
	colDetails   = 5
)

// MarshalEntry converts an Activity to a CSV row.
func MarshalEntry(a model.Activity) []string {
	row := make([]string, numFields)
	row[colAt] = a.At.UTC().Format(time.RFC3339)
	row[colTarget] = a.Target
	row[colAction] = a.Action
	row[colRowID] = a.RowID
	row[colRequestID] = a.RequestID
	row[colDetails] = a.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Activity.
func UnmarshalEntry(record []string) (model.Activity, error) {
	if len(record) != numFields {
		return model.Activity{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	at, err := time.Parse(time.RFC3339, record[colAt])
	if err != nil {
		return model.Activity{}, fmt.Errorf("parsing timestamp %q: %w", record[colAt], err)
	}

	return model.Activity{
		At:        at,
		Target:    record[colTarget],
		Action:    record[colAction],
		RowID:     record[colRowID],
		RequestID: record[colRequestID],
		Details:   record[colDetails],
	}, nil
}

// Write writes the header and entries.
func Write(w io.Writer, entries []model.Activity) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries of an activity-log.csv reader.
func Read(r io.Reader) ([]model.Activity, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.Activity
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
