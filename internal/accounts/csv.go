package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

const (
	numFields = 6
	colCode   = 0
	colName   = 1
	colNameAr = 2
	colType   = 3
	colDesc   = 4
	colActive = 5
)

// Header is the CSV header for chart-of-accounts.csv.
var Header = []string{"code", "name", "name_ar", "type", "description", "active"}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colNameAr] = acct.NameAr
	row[colType] = string(acct.Type)
	row[colDesc] = acct.Description
	row[colActive] = strconv.FormatBool(acct.Active)
	return row
}

// UnmarshalAccount converts a CSV row to an Account. An empty active
// column means active.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if !ValidCode(record[colCode]) {
		return model.Account{}, fmt.Errorf("invalid account code %q", record[colCode])
	}

	typ := model.AccountType(record[colType])
	if !typ.Valid() {
		return model.Account{}, fmt.Errorf("invalid account type %q", record[colType])
	}

	active := true
	if record[colActive] != "" {
		var err error
		active, err = strconv.ParseBool(record[colActive])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing active %q: %w", record[colActive], err)
		}
	}

	return model.Account{
		Code:        record[colCode],
		Name:        record[colName],
		NameAr:      record[colNameAr],
		Type:        typ,
		Description: record[colDesc],
		Active:      active,
	}, nil
}
