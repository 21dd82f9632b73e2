package matching

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"recovr/internal/catalog"
	"recovr/internal/config"
	"recovr/internal/logging"
	"recovr/internal/services"
)

// Catalog is the item access the pipeline needs.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*catalog.Item, error)
	ItemsWithImages(ctx context.Context, filter catalog.Filter) ([]*catalog.Item, error)
}

// Outcome summarizes one reported-item pipeline run.
type Outcome struct {
	ItemID            int64
	Skipped           bool
	Reason            string
	Candidates        int
	Matches           []Match
	NotificationsSent int
}

// SearchOptions tunes an ad-hoc image search.
type SearchOptions struct {
	// Threshold is the similarity threshold in (0, 1]. Zero means use the
	// configured default. Values above the configured cap are capped.
	Threshold float64
	// ThresholdFloor derives the minimum match count from the applied
	// threshold instead of the configured search floor. Deferred search
	// requests opt in; direct searches keep the floor at the search
	// minimum so weak matches still surface.
	ThresholdFloor bool
	Filter         catalog.Filter
}

// SearchOutcome summarizes one ad-hoc search run.
type SearchOutcome struct {
	ThresholdApplied float64
	Candidates       int
	Matches          []Match
}

// Pipeline orchestrates a full matching run: gather candidates, resolve their
// image files, consult the oracle, rank the results, and dispatch
// notifications.
type Pipeline struct {
	catalog    Catalog
	oracle     Oracle
	resolver   PathResolver
	dispatcher *Dispatcher
	matching   config.Matching
	logger     *slog.Logger
}

// NewPipeline wires the pipeline to its collaborators.
func NewPipeline(cfg *config.Config, cat Catalog, oracle Oracle, resolver PathResolver, dispatcher *Dispatcher, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		catalog:    cat,
		oracle:     oracle,
		resolver:   resolver,
		dispatcher: dispatcher,
		matching:   cfg.Matching,
		logger:     logging.WithComponent(logger, "pipeline"),
	}
}

// ProcessItem runs matching for a newly reported found item against every
// lost item carrying an image. Only items in FOUND status trigger a run;
// anything else is a recorded no-op. Owners of surviving matches are notified.
func (p *Pipeline) ProcessItem(ctx context.Context, itemID int64) (*Outcome, error) {
	item, err := p.catalog.GetByID(ctx, itemID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "process", "load item", err)
	}
	if item == nil {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "process", fmt.Sprintf("item %d", itemID), nil)
	}
	if item.Status != catalog.StatusFound {
		p.logger.Info("skipping item outside FOUND status",
			logging.Int64("item_id", itemID),
			logging.String("status", string(item.Status)))
		return &Outcome{ItemID: itemID, Skipped: true, Reason: "item is not in FOUND status"}, nil
	}
	if !item.HasImage() {
		return nil, services.Wrap(services.ErrInvalidInput, "pipeline", "process", "item has no image", nil)
	}

	referencePath, ok := p.resolver.Resolve(item.ImageURL)
	if !ok {
		p.logger.Warn("reference image not on disk, recording empty result",
			logging.Int64("item_id", itemID),
			logging.String("image_url", item.ImageURL))
		return &Outcome{ItemID: itemID, Skipped: true, Reason: "reference image not on disk"}, nil
	}

	lostItems, err := p.catalog.ItemsWithImages(ctx, catalog.Filter{Status: catalog.StatusLost})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "process", "load lost items", err)
	}
	candidates := p.resolveCandidates(lostItems, itemID)
	if len(candidates) == 0 {
		p.logger.Info("no lost-item candidates with images", logging.Int64("item_id", itemID))
		return &Outcome{ItemID: itemID}, nil
	}

	raw, err := p.oracle.Match(ctx, referencePath, candidatePaths(candidates))
	if err != nil {
		return nil, err
	}

	matches := Rank(raw, candidates, ModeReportedItem, p.matching.MinMatchCountItem)
	sent := p.dispatcher.Dispatch(ctx, item.Name, item.ID, matches)

	p.logger.Info("item matching completed",
		logging.Int64("item_id", itemID),
		logging.Int("candidates", len(candidates)),
		logging.Int("matches", len(matches)),
		logging.Int("notifications", sent))
	return &Outcome{
		ItemID:            itemID,
		Candidates:        len(candidates),
		Matches:           matches,
		NotificationsSent: sent,
	}, nil
}

// SearchImage runs matching for an arbitrary on-disk image against the
// filtered catalog. No notifications are dispatched; the results go back to
// the caller.
func (p *Pipeline) SearchImage(ctx context.Context, referencePath string, opts SearchOptions) (*SearchOutcome, error) {
	if referencePath == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "pipeline", "search", "reference image path required", nil)
	}
	if info, err := os.Stat(referencePath); err != nil || info.IsDir() {
		return nil, services.Wrap(services.ErrInvalidInput, "pipeline", "search", "reference image not readable", err)
	}

	threshold := p.effectiveThreshold(opts.Threshold)
	filter := opts.Filter
	now := time.Now().UTC()
	if filter.DateFrom.IsZero() {
		filter.DateFrom = now.AddDate(0, -1, 0)
	}
	if filter.DateTo.IsZero() {
		filter.DateTo = now
	}

	items, err := p.catalog.ItemsWithImages(ctx, filter)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "pipeline", "search", "load catalog items", err)
	}
	candidates := p.resolveCandidates(items, 0)
	outcome := &SearchOutcome{ThresholdApplied: threshold, Candidates: len(candidates)}
	if len(candidates) == 0 {
		p.logger.Info("no catalog candidates for search")
		return outcome, nil
	}

	raw, err := p.oracle.Match(ctx, referencePath, candidatePaths(candidates))
	if err != nil {
		return nil, err
	}

	minCount := p.matching.MinMatchCountSearch
	if opts.ThresholdFloor {
		minCount = p.MinCountForThreshold(threshold)
	}
	outcome.Matches = Rank(raw, candidates, ModeSearch, minCount)
	p.logger.Info("image search completed",
		logging.Float64("threshold", threshold),
		logging.Int("candidates", len(candidates)),
		logging.Int("matches", len(outcome.Matches)))
	return outcome, nil
}

// MinCountForThreshold converts a similarity threshold into the minimum raw
// match count applied when ranking deferred search requests. The configured
// search floor always holds.
func (p *Pipeline) MinCountForThreshold(threshold float64) int {
	effective := threshold
	if p.matching.ThresholdCap > 0 && effective > p.matching.ThresholdCap {
		effective = p.matching.ThresholdCap
	}
	count := int(effective * float64(p.matching.MinMatchCountItem))
	if count < p.matching.MinMatchCountSearch {
		count = p.matching.MinMatchCountSearch
	}
	return count
}

func (p *Pipeline) effectiveThreshold(requested float64) float64 {
	threshold := requested
	if threshold <= 0 {
		threshold = p.matching.DefaultThreshold
	}
	if p.matching.ThresholdCap > 0 && threshold > p.matching.ThresholdCap {
		threshold = p.matching.ThresholdCap
	}
	return threshold
}

// resolveCandidates maps catalog items to resolved on-disk paths, dropping the
// excluded item and anything without a usable file.
func (p *Pipeline) resolveCandidates(items []*catalog.Item, excludeID int64) []Candidate {
	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		if item == nil || item.ID == excludeID {
			continue
		}
		path, ok := p.resolver.Resolve(item.ImageURL)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{Item: item, Path: path})
	}
	return candidates
}

func candidatePaths(candidates []Candidate) []string {
	paths := make([]string, len(candidates))
	for i, candidate := range candidates {
		paths[i] = candidate.Path
	}
	return paths
}
