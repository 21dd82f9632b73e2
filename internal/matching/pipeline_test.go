package matching

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"recovr/internal/catalog"
	"recovr/internal/config"
	"recovr/internal/logging"
	"recovr/internal/notify"
	"recovr/internal/services"
	"recovr/internal/users"
)

type fakeCatalog struct {
	items map[int64]*catalog.Item
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (*catalog.Item, error) {
	return f.items[id], nil
}

func (f *fakeCatalog) ItemsWithImages(_ context.Context, filter catalog.Filter) ([]*catalog.Item, error) {
	var out []*catalog.Item
	for id := int64(1); id <= int64(len(f.items))+10; id++ {
		item, ok := f.items[id]
		if !ok || !item.HasImage() {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

type fakeOracle struct {
	results []RawResult
	err     error
	calls   int
	lastRef string
}

func (f *fakeOracle) Match(_ context.Context, referencePath string, candidatePaths []string) ([]RawResult, error) {
	f.calls++
	f.lastRef = referencePath
	if len(candidatePaths) == 0 {
		return nil, nil
	}
	return f.results, f.err
}

type fakeResolver struct {
	paths map[string]string
}

func (f *fakeResolver) Resolve(imageURL string) (string, bool) {
	path, ok := f.paths[imageURL]
	return path, ok
}

type fakeDirectory struct {
	users map[int64]*users.User
	err   error
}

func (f *fakeDirectory) FindByID(_ context.Context, id int64) (*users.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

type createdNotification struct {
	userID  string
	message string
	related int64
}

type fakeNotifier struct {
	created    []createdNotification
	failUserID int64
}

func (f *fakeNotifier) Create(_ context.Context, userID int64, _, message, typ string, relatedItemID *int64) (*notify.Notification, error) {
	if f.failUserID != 0 && userID == f.failUserID {
		return nil, errors.New("insert failed")
	}
	if typ != notify.TypeMatchFound {
		return nil, fmt.Errorf("unexpected type %q", typ)
	}
	var related int64
	if relatedItemID != nil {
		related = *relatedItemID
	}
	f.created = append(f.created, createdNotification{
		userID:  fmt.Sprint(userID),
		message: message,
		related: related,
	})
	return &notify.Notification{UserID: userID, Message: message, Type: typ}, nil
}

func ownerID(id int64) *int64 { return &id }

func pipelineFixture(t *testing.T) (*Pipeline, *fakeOracle, *fakeNotifier) {
	t.Helper()

	cat := &fakeCatalog{items: map[int64]*catalog.Item{
		1: {ID: 1, Name: "Black Wallet", Status: catalog.StatusLost, ImageURL: "/img/wallet.jpg", ReportedBy: ownerID(11)},
		2: {ID: 2, Name: "Blue Backpack", Status: catalog.StatusLost, ImageURL: "/img/backpack.jpg", ReportedBy: ownerID(12)},
		3: {ID: 3, Name: "Lost Keys", Status: catalog.StatusLost},
		4: {ID: 4, Name: "Found Wallet", Status: catalog.StatusFound, ImageURL: "/img/found.jpg", ReportedBy: ownerID(13)},
		5: {ID: 5, Name: "Claimed Phone", Status: catalog.StatusClaimed, ImageURL: "/img/phone.jpg"},
	}}
	resolver := &fakeResolver{paths: map[string]string{
		"/img/wallet.jpg":   "/disk/wallet.jpg",
		"/img/backpack.jpg": "/disk/backpack.jpg",
		"/img/found.jpg":    "/disk/found.jpg",
		"/img/phone.jpg":    "/disk/phone.jpg",
	}}
	oracle := &fakeOracle{results: []RawResult{
		{ImagePath: "/disk/wallet.jpg", MatchCount: 55},
		{ImagePath: "/disk/backpack.jpg", MatchCount: 3},
	}}
	directory := &fakeDirectory{users: map[int64]*users.User{
		11: {ID: 11, Username: "ana"},
		12: {ID: 12, Username: "bo"},
	}}
	notifier := &fakeNotifier{}

	cfg := config.Default()
	dispatcher := NewDispatcher(directory, notifier, true, logging.NewNop())
	pipeline := NewPipeline(&cfg, cat, oracle, resolver, dispatcher, logging.NewNop())
	return pipeline, oracle, notifier
}

func TestProcessItemNotifiesOwnersOfStrongMatches(t *testing.T) {
	pipeline, oracle, notifier := pipelineFixture(t)

	outcome, err := pipeline.ProcessItem(context.Background(), 4)
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if outcome.Skipped {
		t.Fatalf("unexpected skip: %s", outcome.Reason)
	}
	if oracle.calls != 1 {
		t.Errorf("oracle calls = %d, want 1", oracle.calls)
	}
	if oracle.lastRef != "/disk/found.jpg" {
		t.Errorf("reference path = %q", oracle.lastRef)
	}
	if outcome.Candidates != 2 {
		t.Errorf("candidates = %d, want 2 (lost items with resolvable images)", outcome.Candidates)
	}
	if len(outcome.Matches) != 1 {
		t.Fatalf("matches = %d, want 1 (backpack below count floor)", len(outcome.Matches))
	}
	if outcome.Matches[0].ItemID != 1 {
		t.Errorf("matched item = %d, want 1", outcome.Matches[0].ItemID)
	}
	if outcome.NotificationsSent != 1 {
		t.Errorf("notifications sent = %d, want 1", outcome.NotificationsSent)
	}

	if len(notifier.created) != 1 {
		t.Fatalf("created notifications = %d, want 1", len(notifier.created))
	}
	got := notifier.created[0]
	wantMessage := "A found item 'Found Wallet' might match your lost item 'Black Wallet'. Match confidence: 95.0%. Check the details to verify."
	if got.message != wantMessage {
		t.Errorf("message = %q, want %q", got.message, wantMessage)
	}
	if got.userID != "11" {
		t.Errorf("notified user = %s, want 11", got.userID)
	}
	if got.related != 4 {
		t.Errorf("related item = %d, want 4", got.related)
	}
}

func TestProcessItemSkipsNonFoundStatus(t *testing.T) {
	pipeline, oracle, _ := pipelineFixture(t)

	outcome, err := pipeline.ProcessItem(context.Background(), 1)
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if !outcome.Skipped {
		t.Fatal("expected lost item to be skipped")
	}
	if oracle.calls != 0 {
		t.Errorf("oracle calls = %d, want 0", oracle.calls)
	}
}

func TestProcessItemUnknownItem(t *testing.T) {
	pipeline, _, _ := pipelineFixture(t)

	if _, err := pipeline.ProcessItem(context.Background(), 999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestProcessItemRequiresImage(t *testing.T) {
	pipeline, _, _ := pipelineFixture(t)
	pipeline.catalog.(*fakeCatalog).items[6] = &catalog.Item{ID: 6, Name: "Imageless", Status: catalog.StatusFound}

	if _, err := pipeline.ProcessItem(context.Background(), 6); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestProcessItemUnresolvableReferenceIsEmptyOutcome(t *testing.T) {
	pipeline, oracle, _ := pipelineFixture(t)
	pipeline.catalog.(*fakeCatalog).items[7] = &catalog.Item{ID: 7, Name: "Ghost", Status: catalog.StatusFound, ImageURL: "/img/ghost.jpg"}

	outcome, err := pipeline.ProcessItem(context.Background(), 7)
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if !outcome.Skipped || len(outcome.Matches) != 0 {
		t.Fatalf("expected skipped empty outcome, got %+v", outcome)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle calls = %d, want 0", oracle.calls)
	}
}

func TestProcessItemNoCandidatesSkipsOracle(t *testing.T) {
	pipeline, oracle, _ := pipelineFixture(t)
	cat := pipeline.catalog.(*fakeCatalog)
	delete(cat.items, 1)
	delete(cat.items, 2)

	outcome, err := pipeline.ProcessItem(context.Background(), 4)
	if err != nil {
		t.Fatalf("ProcessItem: %v", err)
	}
	if outcome.Candidates != 0 || len(outcome.Matches) != 0 {
		t.Fatalf("expected empty outcome, got %+v", outcome)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle calls = %d, want 0", oracle.calls)
	}
}

func TestDispatchIsolatesPerMatchFailures(t *testing.T) {
	directory := &fakeDirectory{users: map[int64]*users.User{
		11: {ID: 11, Username: "ana"},
		12: {ID: 12, Username: "bo"},
	}}
	notifier := &fakeNotifier{failUserID: 11}
	dispatcher := NewDispatcher(directory, notifier, true, logging.NewNop())

	matches := []Match{
		{ItemID: 1, Name: "a", MatchCount: 60, Confidence: 95.0, OwnerID: ownerID(11)},
		{ItemID: 2, Name: "b", MatchCount: 40, Confidence: 85.0, OwnerID: nil},
		{ItemID: 3, Name: "c", MatchCount: 30, Confidence: 85.0, OwnerID: ownerID(99)},
		{ItemID: 4, Name: "d", MatchCount: 20, Confidence: 75.0, OwnerID: ownerID(12)},
	}

	sent := dispatcher.Dispatch(context.Background(), "Found Thing", 8, matches)
	if sent != 1 {
		t.Fatalf("sent = %d, want 1 (insert failure, missing owner, unknown owner all skipped)", sent)
	}
	if len(notifier.created) != 1 || notifier.created[0].userID != "12" {
		t.Fatalf("created = %+v, want single notification for user 12", notifier.created)
	}
}

func TestDispatchDisabledSendsNothing(t *testing.T) {
	notifier := &fakeNotifier{}
	dispatcher := NewDispatcher(&fakeDirectory{}, notifier, false, logging.NewNop())

	sent := dispatcher.Dispatch(context.Background(), "x", 1, []Match{{ItemID: 1, OwnerID: ownerID(11)}})
	if sent != 0 || len(notifier.created) != 0 {
		t.Fatalf("disabled dispatcher sent %d notifications", sent)
	}
}

func TestSearchImageJoinsByFileName(t *testing.T) {
	pipeline, oracle, notifier := pipelineFixture(t)
	oracle.results = []RawResult{
		{ImagePath: "/scratch/wallet.jpg", MatchCount: 8},
		{ImagePath: "/scratch/backpack.jpg", MatchCount: 2},
	}

	reference := filepath.Join(t.TempDir(), "query.jpg")
	if err := os.WriteFile(reference, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := pipeline.SearchImage(context.Background(), reference, SearchOptions{
		Threshold:      0.4,
		ThresholdFloor: true,
		Filter:         catalog.Filter{Status: catalog.StatusLost},
	})
	if err != nil {
		t.Fatalf("SearchImage: %v", err)
	}
	if outcome.ThresholdApplied != 0.4 {
		t.Errorf("threshold = %.2f, want 0.4", outcome.ThresholdApplied)
	}
	// With the threshold floor, 0.4 * 10 = 4: wallet (8) passes, backpack (2)
	// does not.
	if len(outcome.Matches) != 1 || outcome.Matches[0].ItemID != 1 {
		t.Fatalf("matches = %+v, want only wallet", outcome.Matches)
	}
	if len(notifier.created) != 0 {
		t.Error("search must not dispatch notifications")
	}
}

func TestSearchImageKeepsWeakMatchesByDefault(t *testing.T) {
	pipeline, oracle, _ := pipelineFixture(t)
	oracle.results = []RawResult{
		{ImagePath: "/scratch/wallet.jpg", MatchCount: 3},
	}

	reference := filepath.Join(t.TempDir(), "query.jpg")
	if err := os.WriteFile(reference, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := pipeline.SearchImage(context.Background(), reference, SearchOptions{})
	if err != nil {
		t.Fatalf("SearchImage: %v", err)
	}
	// No status filter: lost, found, and claimed items all count.
	if outcome.Candidates != 4 {
		t.Errorf("candidates = %d, want 4 (every status with a resolvable image)", outcome.Candidates)
	}
	// The search floor is 1, not the threshold-derived count, so a weak
	// strength-3 result still surfaces.
	if len(outcome.Matches) != 1 {
		t.Fatalf("matches = %+v, want the weak wallet match", outcome.Matches)
	}
	if outcome.Matches[0].MatchCount != 3 || outcome.Matches[0].Confidence != 20.0 {
		t.Errorf("match = %+v, want strength 3 at confidence 20.0", outcome.Matches[0])
	}
}

func TestSearchImageCapsThreshold(t *testing.T) {
	pipeline, _, _ := pipelineFixture(t)

	reference := filepath.Join(t.TempDir(), "query.jpg")
	if err := os.WriteFile(reference, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := pipeline.SearchImage(context.Background(), reference, SearchOptions{Threshold: 0.95})
	if err != nil {
		t.Fatalf("SearchImage: %v", err)
	}
	if outcome.ThresholdApplied != 0.6 {
		t.Errorf("threshold = %.2f, want capped 0.6", outcome.ThresholdApplied)
	}
}

func TestSearchImageRejectsMissingReference(t *testing.T) {
	pipeline, _, _ := pipelineFixture(t)

	_, err := pipeline.SearchImage(context.Background(), "/nonexistent/query.jpg", SearchOptions{})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestMinCountForThreshold(t *testing.T) {
	pipeline, _, _ := pipelineFixture(t)

	tests := []struct {
		threshold float64
		want      int
	}{
		{threshold: 0.6, want: 6},
		{threshold: 0.4, want: 4},
		{threshold: 0.95, want: 6}, // capped at 0.6
		{threshold: 0.05, want: 1}, // search floor holds
	}
	for _, tt := range tests {
		if got := pipeline.MinCountForThreshold(tt.threshold); got != tt.want {
			t.Errorf("MinCountForThreshold(%.2f) = %d, want %d", tt.threshold, got, tt.want)
		}
	}
}
