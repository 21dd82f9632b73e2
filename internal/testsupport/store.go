package testsupport

import (
	"context"
	"testing"

	"recovr/internal/catalog"
	"recovr/internal/config"
	"recovr/internal/storage"
	"recovr/internal/users"
)

// MustOpenDB opens the registry database for tests and registers cleanup.
func MustOpenDB(t testing.TB, cfg *config.Config) *storage.DB {
	t.Helper()

	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewUser creates a user record for tests.
func NewUser(t testing.TB, db *storage.DB, username string) *users.User {
	t.Helper()

	user, err := users.NewDirectory(db).Create(context.Background(), username, username+"@example.com")
	if err != nil {
		t.Fatalf("users.Create: %v", err)
	}
	return user
}

// NewItem inserts a catalog item for tests.
func NewItem(t testing.TB, db *storage.DB, item *catalog.Item) *catalog.Item {
	t.Helper()

	stored, err := catalog.NewStore(db).Insert(context.Background(), item)
	if err != nil {
		t.Fatalf("catalog.Insert: %v", err)
	}
	return stored
}
