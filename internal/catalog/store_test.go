package catalog_test

import (
	"context"
	"testing"
	"time"

	"recovr/internal/catalog"
	"recovr/internal/testsupport"
)

func TestInsertAndGetByID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	store := catalog.NewStore(db)
	ctx := context.Background()

	user := testsupport.NewUser(t, db, "reporter")
	item, err := store.Insert(ctx, &catalog.Item{
		Name:        "Black Wallet",
		Description: "leather, two cards inside",
		Status:      catalog.StatusLost,
		Category:    catalog.CategoryAccessories,
		Location:    "Central Station",
		ImageURL:    "wallet.jpg",
		ReportedBy:  &user.ID,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("id not assigned")
	}
	if item.ReportedAt.IsZero() {
		t.Error("reported_at not defaulted")
	}

	loaded, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded == nil || loaded.Name != "Black Wallet" || loaded.Category != catalog.CategoryAccessories {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.ReportedBy == nil || *loaded.ReportedBy != user.ID {
		t.Errorf("reported_by = %v", loaded.ReportedBy)
	}

	missing, err := store.GetByID(ctx, 9999)
	if err != nil {
		t.Fatalf("GetByID missing: %v", err)
	}
	if missing != nil {
		t.Error("unknown id should return nil")
	}
}

func TestItemsWithImagesFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	store := catalog.NewStore(db)
	ctx := context.Background()

	old := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	testsupport.NewItem(t, db, &catalog.Item{Name: "lost with image", Status: catalog.StatusLost, Category: catalog.CategoryBags, ImageURL: "a.jpg", ReportedAt: recent})
	testsupport.NewItem(t, db, &catalog.Item{Name: "lost without image", Status: catalog.StatusLost, ReportedAt: recent})
	testsupport.NewItem(t, db, &catalog.Item{Name: "found with image", Status: catalog.StatusFound, Category: catalog.CategoryKeys, ImageURL: "b.jpg", ReportedAt: recent})
	testsupport.NewItem(t, db, &catalog.Item{Name: "old lost with image", Status: catalog.StatusLost, Category: catalog.CategoryBags, ImageURL: "c.jpg", ReportedAt: old})

	all, err := store.ItemsWithImages(ctx, catalog.Filter{})
	if err != nil {
		t.Fatalf("ItemsWithImages: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all items with images = %d, want 3", len(all))
	}

	lost, err := store.ItemsWithImages(ctx, catalog.Filter{Status: catalog.StatusLost})
	if err != nil {
		t.Fatal(err)
	}
	if len(lost) != 2 {
		t.Fatalf("lost with images = %d, want 2", len(lost))
	}

	bags, err := store.ItemsWithImages(ctx, catalog.Filter{Category: catalog.CategoryBags})
	if err != nil {
		t.Fatal(err)
	}
	if len(bags) != 2 {
		t.Fatalf("bags with images = %d, want 2", len(bags))
	}

	windowed, err := store.ItemsWithImages(ctx, catalog.Filter{
		Status:   catalog.StatusLost,
		DateFrom: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(windowed) != 1 || windowed[0].Name != "lost with image" {
		t.Fatalf("windowed = %+v", windowed)
	}
}

func TestUpdateStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	store := catalog.NewStore(db)
	ctx := context.Background()

	item := testsupport.NewItem(t, db, &catalog.Item{Name: "phone", Status: catalog.StatusFound})
	if err := store.UpdateStatus(ctx, item.ID, catalog.StatusClaimed); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	loaded, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Status != catalog.StatusClaimed {
		t.Errorf("status = %s, want CLAIMED", loaded.Status)
	}

	if err := store.UpdateStatus(ctx, 9999, catalog.StatusClaimed); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	store := catalog.NewStore(db)

	testsupport.NewItem(t, db, &catalog.Item{Name: "a", Status: catalog.StatusLost})
	testsupport.NewItem(t, db, &catalog.Item{Name: "b", Status: catalog.StatusLost})
	testsupport.NewItem(t, db, &catalog.Item{Name: "c", Status: catalog.StatusFound})

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[catalog.StatusLost] != 2 || stats[catalog.StatusFound] != 1 || stats[catalog.StatusClaimed] != 0 {
		t.Fatalf("stats = %v", stats)
	}
}

func TestParseStatusAndCategory(t *testing.T) {
	if status, ok := catalog.ParseStatus("  lost "); !ok || status != catalog.StatusLost {
		t.Errorf("ParseStatus(lost) = %q, %v", status, ok)
	}
	if _, ok := catalog.ParseStatus("misplaced"); ok {
		t.Error("unknown status accepted")
	}
	if category, ok := catalog.ParseCategory("keys"); !ok || category != catalog.CategoryKeys {
		t.Errorf("ParseCategory(keys) = %q, %v", category, ok)
	}
	if _, ok := catalog.ParseCategory("gadgets"); ok {
		t.Error("unknown category accepted")
	}
}
