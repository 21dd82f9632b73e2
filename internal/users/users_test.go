package users_test

import (
	"context"
	"testing"

	"recovr/internal/testsupport"
	"recovr/internal/users"
)

func TestCreateAndFind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	directory := users.NewDirectory(db)
	ctx := context.Background()

	created, err := directory.Create(ctx, "ana", "ana@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("created = %+v", created)
	}

	byID, err := directory.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if byID == nil || byID.Username != "ana" || byID.Email != "ana@example.com" {
		t.Fatalf("byID = %+v", byID)
	}

	byName, err := directory.FindByUsername(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if byName == nil || byName.ID != created.ID {
		t.Fatalf("byName = %+v", byName)
	}
}

func TestFindUnknownReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	directory := users.NewDirectory(db)
	ctx := context.Background()

	if user, err := directory.FindByID(ctx, 42); err != nil || user != nil {
		t.Fatalf("FindByID unknown = %+v, %v", user, err)
	}
	if user, err := directory.FindByUsername(ctx, "nobody"); err != nil || user != nil {
		t.Fatalf("FindByUsername unknown = %+v, %v", user, err)
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	directory := users.NewDirectory(db)
	ctx := context.Background()

	if _, err := directory.Create(ctx, "bo", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := directory.Create(ctx, "bo", ""); err == nil {
		t.Fatal("duplicate username accepted")
	}
}
