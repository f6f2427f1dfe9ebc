package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/fleetbooks/fleetbooks/internal/model"
)

// ErrNotFound is returned when no row has the requested id.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would duplicate a unique value.
var ErrConflict = errors.New("conflict")

// ErrBadColumn is returned when a query names a column the table lacks.
var ErrBadColumn = errors.New("unknown column")

// Query narrows a List call. Where holds equality filters keyed by column
// name; Order is a column name, prefixed with "-" for descending.
type Query struct {
	Where  map[string]any
	Order  string
	Limit  int
	Offset int
}

var schemaCache sync.Map

// Table gives generic CRUD access to one named table.
type Table[T any, PT interface {
	*T
	model.Row
}] struct {
	db     *gorm.DB
	schema *schema.Schema
}

// NewTable returns the table for T. It panics if T is not a gorm model,
// which is a programming error.
func NewTable[T any, PT interface {
	*T
	model.Row
}](db *gorm.DB) *Table[T, PT] {
	s, err := schema.Parse(new(T), &schemaCache, db.NamingStrategy)
	if err != nil {
		panic(fmt.Sprintf("parsing schema of %T: %v", *new(T), err))
	}
	return &Table[T, PT]{db: db, schema: s}
}

// Name returns the table name.
func (t *Table[T, PT]) Name() string { return t.schema.Table }

// WithDB returns a copy of the table bound to db, usually a transaction.
func (t *Table[T, PT]) WithDB(db *gorm.DB) *Table[T, PT] {
	return &Table[T, PT]{db: db, schema: t.schema}
}

// Column resolves a field or column name to its database column.
func (t *Table[T, PT]) Column(name string) (string, error) {
	f := t.schema.LookUpField(name)
	if f == nil || f.DBName == "" {
		return "", fmt.Errorf("%w %q in %s", ErrBadColumn, name, t.schema.Table)
	}
	return f.DBName, nil
}

// List returns the rows matching q, with their associations loaded.
func (t *Table[T, PT]) List(ctx context.Context, q Query) ([]T, error) {
	tx := t.db.WithContext(ctx).Preload(clause.Associations)

	for name, v := range q.Where {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}

	if q.Order != "" {
		desc := strings.HasPrefix(q.Order, "-")
		col, err := t.Column(strings.TrimPrefix(q.Order, "-"))
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
	} else {
		tx = tx.Order("created_at")
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.schema.Table, err)
	}
	return rows, nil
}

// Get returns the row with the given id.
func (t *Table[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var row T
	err := t.db.WithContext(ctx).Preload(clause.Associations).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %s: %w", t.schema.Table, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", t.schema.Table, id, err)
	}
	return &row, nil
}

// Insert creates row together with its has-many children. An id is
// assigned when row has none.
func (t *Table[T, PT]) Insert(ctx context.Context, row PT) error {
	if err := t.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("inserting into %s: %w", t.schema.Table, conflict(err))
	}
	return nil
}

// Update overwrites every column of the row with the given id. Children
// are left untouched.
func (t *Table[T, PT]) Update(ctx context.Context, id string, row PT) error {
	row.SetID(id)
	res := t.db.WithContext(ctx).Model(row).
		Select("*").
		Omit("created_at", clause.Associations).
		Updates(row)
	if res.Error != nil {
		return fmt.Errorf("updating %s %s: %w", t.schema.Table, id, conflict(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", t.schema.Table, id, ErrNotFound)
	}
	return nil
}

// conflict maps the driver's unique violation, translated by gorm, to
// ErrConflict.
func conflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// Delete removes the row with the given id and its has-many children.
func (t *Table[T, PT]) Delete(ctx context.Context, id string) error {
	row, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	res := t.db.WithContext(ctx).Select(clause.Associations).Delete(PT(row))
	if res.Error != nil {
		return fmt.Errorf("deleting %s %s: %w", t.schema.Table, id, res.Error)
	}
	return nil
}

// Count returns the number of rows matching the equality filters.
func (t *Table[T, PT]) Count(ctx context.Context, where map[string]any) (int64, error) {
	tx := t.db.WithContext(ctx).Model(new(T))
	for name, v := range where {
		col, err := t.Column(name)
		if err != nil {
			return 0, err
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting %s: %w", t.schema.Table, err)
	}
	return n, nil
}
