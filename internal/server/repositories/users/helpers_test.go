package users

import (
	"testing"

	"github.com/dmitrijs2005/parkdesk/internal/cryptox"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
)

func migrationsWithDeveloper(t *testing.T) []migrations.Option {
	t.Helper()
	hash, err := cryptox.HashPassword([]byte("dev"))
	if err != nil {
		t.Fatal(err)
	}
	return []migrations.Option{migrations.WithDeveloperHash(hash)}
}
