// Package testdb opens fully migrated throwaway stores for tests.
package testdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/store"
)

// New returns a migrated store in t.TempDir(), closed on cleanup.
func New(t testing.TB, opts ...migrations.Option) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "park.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Migrate(ctx, db, opts...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
