package main

import (
	"strings"
	"testing"
	"time"

	"recovr/internal/api"
)

func TestDisplayCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ELECTRONICS", want: "Electronics"},
		{in: "MISCELLANEOUS", want: "Miscellaneous"},
		{in: "", want: "-"},
	}
	for _, tt := range tests {
		if got := displayCategory(tt.in); got != tt.want {
			t.Errorf("displayCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a very long description indeed", 10); got != "a very ..." {
		t.Errorf("truncate = %q", got)
	}
}

func TestBuildSearchParams(t *testing.T) {
	params, err := buildSearchParams(0.5, "bags", "Central Station", 2.5, "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("buildSearchParams: %v", err)
	}
	if params.Threshold != 0.5 || params.Category != "bags" || params.Radius != 2.5 {
		t.Errorf("params = %+v", params)
	}
	wantFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !params.DateFrom.Equal(wantFrom) {
		t.Errorf("DateFrom = %v", params.DateFrom)
	}
	if !params.DateTo.After(time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("DateTo should cover the whole end day, got %v", params.DateTo)
	}

	if _, err := buildSearchParams(0, "", "", 0, "08/01/2026", ""); err == nil {
		t.Error("expected error for malformed --from date")
	}
	if _, err := buildSearchParams(0, "", "", 0, "", "not-a-date"); err == nil {
		t.Error("expected error for malformed --to date")
	}
}

func TestRenderMatchTable(t *testing.T) {
	out := renderMatchTable([]api.MatchView{
		{ItemID: 3, Name: "Black Wallet", Description: "leather", MatchCount: 55, Confidence: 95.0},
	})
	for _, want := range []string{"Black Wallet", "55", "95.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
