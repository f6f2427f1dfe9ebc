package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&model.Account{},
		&model.JournalEntry{},
		&model.JournalLine{},
		&model.Company{},
		&model.Vehicle{},
		&model.Driver{},
		&model.Load{},
		&model.Employee{},
		&model.PayrollRun{},
		&model.Payslip{},
		&model.SparePart{},
		&model.Supplier{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderLine{},
		&model.StockMovement{},
		&model.Activity{},
	}
}

// Migrate creates or alters every table to match the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Tables exposes each named table of the books.
type Tables struct {
	db *gorm.DB

	Accounts       *Table[model.Account, *model.Account]
	JournalEntries *Table[model.JournalEntry, *model.JournalEntry]
	JournalLines   *Table[model.JournalLine, *model.JournalLine]
	Companies      *Table[model.Company, *model.Company]
	Vehicles       *Table[model.Vehicle, *model.Vehicle]
	Drivers        *Table[model.Driver, *model.Driver]
	Loads          *Table[model.Load, *model.Load]
	Employees      *Table[model.Employee, *model.Employee]
	PayrollRuns    *Table[model.PayrollRun, *model.PayrollRun]
	SpareParts     *Table[model.SparePart, *model.SparePart]
	Suppliers      *Table[model.Supplier, *model.Supplier]
	PurchaseOrders *Table[model.PurchaseOrder, *model.PurchaseOrder]
	StockMovements *Table[model.StockMovement, *model.StockMovement]
	Activity       *Table[model.Activity, *model.Activity]
}

// NewTables binds every table to db.
func NewTables(db *gorm.DB) *Tables {
	return &Tables{
		db:             db,
		Accounts:       NewTable[model.Account](db),
		JournalEntries: NewTable[model.JournalEntry](db),
		JournalLines:   NewTable[model.JournalLine](db),
		Companies:      NewTable[model.Company](db),
		Vehicles:       NewTable[model.Vehicle](db),
		Drivers:        NewTable[model.Driver](db),
		Loads:          NewTable[model.Load](db),
		Employees:      NewTable[model.Employee](db),
		PayrollRuns:    NewTable[model.PayrollRun](db),
		SpareParts:     NewTable[model.SparePart](db),
		Suppliers:      NewTable[model.Supplier](db),
		PurchaseOrders: NewTable[model.PurchaseOrder](db),
		StockMovements: NewTable[model.StockMovement](db),
		Activity:       NewTable[model.Activity](db),
	}
}

// DB returns the underlying handle.
func (t *Tables) DB() *gorm.DB { return t.db }

// Tx runs fn against tables bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (t *Tables) Tx(ctx context.Context, fn func(tx *Tables) error) error {
	return t.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(t.withDB(db))
	})
}

func (t *Tables) withDB(db *gorm.DB) *Tables {
	return &Tables{
		db:             db,
		Accounts:       t.Accounts.WithDB(db),
		JournalEntries: t.JournalEntries.WithDB(db),
		JournalLines:   t.JournalLines.WithDB(db),
		Companies:      t.Companies.WithDB(db),
		Vehicles:       t.Vehicles.WithDB(db),
		Drivers:        t.Drivers.WithDB(db),
		Loads:          t.Loads.WithDB(db),
		Employees:      t.Employees.WithDB(db),
		PayrollRuns:    t.PayrollRuns.WithDB(db),
		SpareParts:     t.SpareParts.WithDB(db),
		Suppliers:      t.Suppliers.WithDB(db),
		PurchaseOrders: t.PurchaseOrders.WithDB(db),
		StockMovements: t.StockMovements.WithDB(db),
		Activity:       t.Activity.WithDB(db),
	}
}

// Record appends an entry to the activity log.
func (t *Tables) Record(ctx context.Context, table, action, rowID, requestID, details string) error {
	return t.Activity.Insert(ctx, &model.Activity{
		At:        time.Now().UTC(),
		Target:    table,
		Action:    action,
		RowID:     rowID,
		RequestID: requestID,
		Details:   details,
	})
}

// ReplaceAccounts swaps the stored chart of accounts for accounts.
func (t *Tables) ReplaceAccounts(ctx context.Context, accounts []model.Account) error {
	return t.Tx(ctx, func(tx *Tables) error {
		if err := tx.db.WithContext(ctx).Where("1 = 1").Delete(&model.Account{}).Error; err != nil {
			return fmt.Errorf("clearing chart of accounts: %w", err)
		}
		for i := range accounts {
			a := accounts[i]
			a.ID = ""
			if err := tx.Accounts.Insert(ctx, &a); err != nil {
				return err
			}
		}
		return nil
	})
}
