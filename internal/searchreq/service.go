package searchreq

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"recovr/internal/catalog"
	"recovr/internal/logging"
	"recovr/internal/matching"
	"recovr/internal/services"
)

// Searcher runs an image search against the catalog.
type Searcher interface {
	SearchImage(ctx context.Context, referencePath string, opts matching.SearchOptions) (*matching.SearchOutcome, error)
}

// Service owns the search-request lifecycle: submit pending, compute results
// lazily on first fetch, serve the cached results forever after.
type Service struct {
	store    *Store
	searcher Searcher
	resolver matching.PathResolver
	users    matching.UserDirectory
	logger   *slog.Logger
}

// NewService wires the lifecycle service to its collaborators.
func NewService(store *Store, searcher Searcher, resolver matching.PathResolver, directory matching.UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		searcher: searcher,
		resolver: resolver,
		users:    directory,
		logger:   logging.WithComponent(logger, "searchreq"),
	}
}

// Submit validates and persists a new pending request. No matching happens
// here; computation is deferred to the first Results call.
func (s *Service) Submit(ctx context.Context, request *Request) (*Request, error) {
	if request == nil || request.SearchImageURL == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "searchreq", "submit", "search image required", nil)
	}
	if request.MatchingThreshold != nil {
		value := *request.MatchingThreshold
		if value <= 0 || value > 1 {
			return nil, services.Wrap(services.ErrInvalidInput, "searchreq", "submit",
				fmt.Sprintf("matching threshold %.2f outside (0, 1]", value), nil)
		}
	}
	if request.ExpectedCategory != "" {
		if _, ok := catalog.ParseCategory(string(request.ExpectedCategory)); !ok {
			return nil, services.Wrap(services.ErrInvalidInput, "searchreq", "submit",
				fmt.Sprintf("unknown category %q", request.ExpectedCategory), nil)
		}
	}
	owner, err := s.users.FindByID(ctx, request.UserID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "searchreq", "submit", "resolve owner", err)
	}
	if owner == nil {
		return nil, services.Wrap(services.ErrNotFound, "searchreq", "submit",
			fmt.Sprintf("user %d", request.UserID), nil)
	}

	stored, err := s.store.Submit(ctx, request)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "searchreq", "submit", "store request", err)
	}
	s.logger.Info("search request submitted",
		logging.String("public_id", stored.PublicID),
		logging.Int64("user_id", stored.UserID))
	return stored, nil
}

// Results returns the matches for a request, computing them on first access.
// A computation failure leaves the request pending so a later fetch retries.
// Once completed, the cached matches are served and the oracle is never
// consulted again for this request.
func (s *Service) Results(ctx context.Context, publicID string) (*Request, error) {
	request, err := s.store.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "searchreq", "results", "load request", err)
	}
	if request == nil {
		return nil, services.Wrap(services.ErrNotFound, "searchreq", "results", publicID, nil)
	}
	if !request.Pending() {
		return request, nil
	}

	referencePath, ok := s.resolveImage(request.SearchImageURL)
	if !ok {
		return nil, services.Wrap(services.ErrInvalidInput, "searchreq", "results", "search image not on disk", nil)
	}

	// Both lost and found items are searched; the request's own filters are
	// the only narrowing applied.
	opts := matching.SearchOptions{
		ThresholdFloor: true,
		Filter: catalog.Filter{
			Category: request.ExpectedCategory,
			Location: request.SearchLocation,
		},
	}
	if request.MatchingThreshold != nil {
		opts.Threshold = *request.MatchingThreshold
	}
	if request.SearchRadius != nil {
		opts.Filter.Radius = *request.SearchRadius
	}
	if request.DateFrom != nil {
		opts.Filter.DateFrom = *request.DateFrom
	}
	if request.DateTo != nil {
		opts.Filter.DateTo = *request.DateTo
	}

	outcome, err := s.searcher.SearchImage(ctx, referencePath, opts)
	if err != nil {
		// Stays pending; the next results fetch retries.
		return nil, err
	}

	won, err := s.store.CompletePending(ctx, request.ID, outcome.Matches)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "searchreq", "results", "cache results", err)
	}
	if !won {
		s.logger.Debug("request completed concurrently", logging.String("public_id", publicID))
	}

	completed, err := s.store.GetByID(ctx, request.ID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "searchreq", "results", "reload request", err)
	}
	s.logger.Info("search request completed",
		logging.String("public_id", publicID),
		logging.Int("matches", completed.TotalMatchesFound))
	return completed, nil
}

// resolveImage accepts either an already-absolute on-disk path or an upload
// reference resolvable through the configured upload directories.
func (s *Service) resolveImage(imageURL string) (string, bool) {
	if info, err := os.Stat(imageURL); err == nil && !info.IsDir() {
		return imageURL, true
	}
	if s.resolver == nil {
		return "", false
	}
	return s.resolver.Resolve(imageURL)
}
