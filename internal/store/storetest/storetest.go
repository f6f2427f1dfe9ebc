// Package storetest opens throwaway databases for tests.
package storetest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetbooks/fleetbooks/internal/store"
)

// Open returns migrated tables over a private in-memory sqlite database
// that is closed when the test ends.
func Open(t testing.TB) *store.Tables {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := store.Open(store.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })
	require.NoError(t, store.Migrate(db))
	return store.NewTables(db)
}
