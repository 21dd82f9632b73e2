package matching

import (
	"testing"

	"recovr/internal/catalog"
)

func rankItem(id int64, name string) *catalog.Item {
	return &catalog.Item{ID: id, Name: name, Status: catalog.StatusLost, ImageURL: name + ".jpg"}
}

func TestRankJoinsByFullPathInItemMode(t *testing.T) {
	candidates := []Candidate{
		{Item: rankItem(1, "wallet"), Path: "/uploads/wallet.jpg"},
		{Item: rankItem(2, "keys"), Path: "/uploads/keys.jpg"},
	}
	results := []RawResult{
		{ImagePath: "/uploads/keys.jpg", MatchCount: 60},
		{ImagePath: "/elsewhere/wallet.jpg", MatchCount: 80},
	}

	matches := Rank(results, candidates, ModeReportedItem, 10)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ItemID != 2 {
		t.Errorf("matched item = %d, want 2", matches[0].ItemID)
	}
	if matches[0].Confidence != 95.0 {
		t.Errorf("confidence = %.1f, want 95.0", matches[0].Confidence)
	}
}

func TestRankJoinsByFileNameInSearchMode(t *testing.T) {
	candidates := []Candidate{
		{Item: rankItem(1, "wallet"), Path: "/uploads/wallet.jpg"},
	}
	results := []RawResult{
		{ImagePath: "/scratch/run-7/wallet.jpg", MatchCount: 25},
	}

	matches := Rank(results, candidates, ModeSearch, 1)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ItemID != 1 {
		t.Errorf("matched item = %d, want 1", matches[0].ItemID)
	}
}

func TestRankFiltersBelowMinCount(t *testing.T) {
	candidates := []Candidate{
		{Item: rankItem(1, "a"), Path: "/u/a.jpg"},
		{Item: rankItem(2, "b"), Path: "/u/b.jpg"},
		{Item: rankItem(3, "c"), Path: "/u/c.jpg"},
	}
	results := []RawResult{
		{ImagePath: "/u/a.jpg", MatchCount: 9},
		{ImagePath: "/u/b.jpg", MatchCount: 10},
		{ImagePath: "/u/c.jpg", MatchCount: 11},
	}

	matches := Rank(results, candidates, ModeReportedItem, 10)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	for _, match := range matches {
		if match.MatchCount < 10 {
			t.Errorf("match count %d below minimum", match.MatchCount)
		}
	}
}

func TestRankOrdersDescendingAndStable(t *testing.T) {
	candidates := []Candidate{
		{Item: rankItem(1, "a"), Path: "/u/a.jpg"},
		{Item: rankItem(2, "b"), Path: "/u/b.jpg"},
		{Item: rankItem(3, "c"), Path: "/u/c.jpg"},
		{Item: rankItem(4, "d"), Path: "/u/d.jpg"},
	}
	results := []RawResult{
		{ImagePath: "/u/a.jpg", MatchCount: 30},
		{ImagePath: "/u/b.jpg", MatchCount: 55},
		{ImagePath: "/u/c.jpg", MatchCount: 30},
		{ImagePath: "/u/d.jpg", MatchCount: 12},
	}

	matches := Rank(results, candidates, ModeReportedItem, 1)
	wantOrder := []int64{2, 1, 3, 4}
	if len(matches) != len(wantOrder) {
		t.Fatalf("expected %d matches, got %d", len(wantOrder), len(matches))
	}
	for i, want := range wantOrder {
		if matches[i].ItemID != want {
			t.Errorf("position %d: item %d, want %d", i, matches[i].ItemID, want)
		}
	}
}

func TestRankDropsUnjoinableResults(t *testing.T) {
	candidates := []Candidate{
		{Item: rankItem(1, "a"), Path: "/u/a.jpg"},
	}
	results := []RawResult{
		{ImagePath: "/u/unknown.jpg", MatchCount: 99},
	}

	if matches := Rank(results, candidates, ModeReportedItem, 1); len(matches) != 0 {
		t.Fatalf("expected no matches for unjoinable result, got %d", len(matches))
	}
}
