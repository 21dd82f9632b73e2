package matching_test

import (
	"context"
	"path/filepath"
	"testing"

	"recovr/internal/catalog"
	"recovr/internal/logging"
	"recovr/internal/matching"
	"recovr/internal/notify"
	"recovr/internal/testsupport"
	"recovr/internal/users"
)

// Runs the whole search path against a real subprocess: stub matcher script,
// real executor, real stores.
func TestSearchImageEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedMatcher(
		"Processing 2 candidate images\n"+
			"wallet.jpg: 42 matches (confidence: 85.0%)\n"+
			"keys.jpg: 2 matches (confidence: 20.0%)"))
	db := testsupport.MustOpenDB(t, cfg)
	logger := logging.NewNop()

	uploadDir := testsupport.UploadDir(cfg)
	testsupport.WriteImage(t, filepath.Join(uploadDir, "wallet.jpg"))
	testsupport.WriteImage(t, filepath.Join(uploadDir, "keys.jpg"))

	owner := testsupport.NewUser(t, db, "owner")
	wallet := testsupport.NewItem(t, db, &catalog.Item{
		Name:       "Found Wallet",
		Status:     catalog.StatusFound,
		ImageURL:   "wallet.jpg",
		ReportedBy: &owner.ID,
	})
	testsupport.NewItem(t, db, &catalog.Item{
		Name:     "Found Keys",
		Status:   catalog.StatusFound,
		ImageURL: "keys.jpg",
	})

	oracle, err := matching.NewScriptOracle(cfg, logger)
	if err != nil {
		t.Fatalf("NewScriptOracle: %v", err)
	}
	resolver := matching.NewUploadResolver(cfg, logger)
	dispatcher := matching.NewDispatcher(users.NewDirectory(db), notify.NewService(db), cfg.Notifications.Enabled, logger)
	pipeline := matching.NewPipeline(cfg, catalog.NewStore(db), oracle, resolver, dispatcher, logger)

	reference := filepath.Join(cfg.Paths.TempDir, "query.jpg")
	testsupport.WriteImage(t, reference)

	outcome, err := pipeline.SearchImage(context.Background(), reference, matching.SearchOptions{Threshold: 0.4})
	if err != nil {
		t.Fatalf("SearchImage: %v", err)
	}
	if outcome.Candidates != 2 {
		t.Errorf("candidates = %d, want 2", outcome.Candidates)
	}
	// Direct searches rank with the floor of 1, so both results survive,
	// strongest first.
	if len(outcome.Matches) != 2 {
		t.Fatalf("matches = %+v, want wallet and keys", outcome.Matches)
	}
	match := outcome.Matches[0]
	if match.ItemID != wallet.ID || match.MatchCount != 42 || match.Confidence != 85.0 {
		t.Errorf("match = %+v", match)
	}
	if outcome.Matches[1].MatchCount != 2 || outcome.Matches[1].Confidence != 20.0 {
		t.Errorf("weak match = %+v, want strength 2 at confidence 20.0", outcome.Matches[1])
	}
}
