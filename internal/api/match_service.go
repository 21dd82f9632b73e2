package api

import (
	"context"
	"io"
	"log/slog"
	"time"

	"recovr/internal/catalog"
	"recovr/internal/config"
	"recovr/internal/logging"
	"recovr/internal/matching"
	"recovr/internal/searchreq"
	"recovr/internal/services"
)

// Pipeline abstracts the matching pipeline operations consumed by the API layer.
type Pipeline interface {
	ProcessItem(ctx context.Context, itemID int64) (*matching.Outcome, error)
	SearchImage(ctx context.Context, referencePath string, opts matching.SearchOptions) (*matching.SearchOutcome, error)
}

// RequestService abstracts the search-request lifecycle.
type RequestService interface {
	Submit(ctx context.Context, request *searchreq.Request) (*searchreq.Request, error)
	Results(ctx context.Context, publicID string) (*searchreq.Request, error)
}

// SearchParams tunes an ad-hoc search or a submitted search request.
type SearchParams struct {
	Threshold float64
	Category  string
	Location  string
	Radius    float64
	DateFrom  time.Time
	DateTo    time.Time
}

// SubmitParams describes a new search request submission.
type SubmitParams struct {
	UserID      int64
	Description string
	SearchParams
}

// MatchService is the application facade over the matching pipeline and the
// search-request lifecycle, returning transport DTOs.
type MatchService struct {
	pipeline  Pipeline
	requests  RequestService
	stager    *Stager
	uploadDir string
	logger    *slog.Logger
}

// NewMatchService wires the facade to its collaborators. Persisted search
// images land in the first configured upload directory.
func NewMatchService(cfg *config.Config, pipeline Pipeline, requests RequestService, logger *slog.Logger) *MatchService {
	uploadDir := ""
	if len(cfg.Paths.UploadDirs) > 0 {
		uploadDir = cfg.Paths.UploadDirs[0]
	}
	return &MatchService{
		pipeline:  pipeline,
		requests:  requests,
		stager:    NewStager(cfg),
		uploadDir: uploadDir,
		logger:    logging.WithComponent(logger, "api"),
	}
}

// ProcessItem runs the reported-item pipeline and converts the outcome.
func (s *MatchService) ProcessItem(ctx context.Context, itemID int64) (*ProcessResult, error) {
	outcome, err := s.pipeline.ProcessItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{
		ItemID:            outcome.ItemID,
		Skipped:           outcome.Skipped,
		Reason:            outcome.Reason,
		Candidates:        outcome.Candidates,
		Matches:           FromMatches(outcome.Matches),
		NotificationsSent: outcome.NotificationsSent,
	}, nil
}

// SearchUpload stages an uploaded image, searches the catalog with it, and
// removes the staged file on every exit path.
func (s *MatchService) SearchUpload(ctx context.Context, image io.Reader, fileName string, params SearchParams) (*SearchResult, error) {
	staged, cleanup, err := s.stager.Stage(image, fileName)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, "api", "search", "stage uploaded image", err)
	}
	defer cleanup()

	opts, err := searchOptions(params)
	if err != nil {
		return nil, err
	}
	outcome, err := s.pipeline.SearchImage(ctx, staged, opts)
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Threshold:  outcome.ThresholdApplied,
		Candidates: outcome.Candidates,
		Matches:    FromMatches(outcome.Matches),
	}, nil
}

// SubmitRequest persists the search image and records a pending request.
// The image outlives this call because computation is deferred.
func (s *MatchService) SubmitRequest(ctx context.Context, image io.Reader, fileName string, params SubmitParams) (*SearchRequestView, error) {
	if _, err := searchOptions(params.SearchParams); err != nil {
		return nil, err
	}

	persisted, err := Persist(image, s.uploadDir, fileName)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidInput, "api", "submit", "persist search image", err)
	}

	request := &searchreq.Request{
		UserID:         params.UserID,
		SearchImageURL: persisted,
		Description:    params.Description,
		SearchLocation: params.Location,
	}
	if params.Category != "" {
		category, _ := catalog.ParseCategory(params.Category)
		request.ExpectedCategory = category
	}
	if params.Threshold > 0 {
		value := params.Threshold
		request.MatchingThreshold = &value
	}
	if params.Radius > 0 {
		value := params.Radius
		request.SearchRadius = &value
	}
	if !params.DateFrom.IsZero() {
		value := params.DateFrom
		request.DateFrom = &value
	}
	if !params.DateTo.IsZero() {
		value := params.DateTo
		request.DateTo = &value
	}

	stored, err := s.requests.Submit(ctx, request)
	if err != nil {
		return nil, err
	}
	view := FromRequest(stored)
	return &view, nil
}

// RequestResults fetches (and on first access computes) a request's matches.
func (s *MatchService) RequestResults(ctx context.Context, publicID string) (*SearchRequestView, error) {
	request, err := s.requests.Results(ctx, publicID)
	if err != nil {
		return nil, err
	}
	view := FromRequest(request)
	return &view, nil
}

func searchOptions(params SearchParams) (matching.SearchOptions, error) {
	// Searches span the whole catalog regardless of item status.
	opts := matching.SearchOptions{
		Threshold: params.Threshold,
		Filter: catalog.Filter{
			Location: params.Location,
			Radius:   params.Radius,
			DateFrom: params.DateFrom,
			DateTo:   params.DateTo,
		},
	}
	if params.Category != "" {
		category, ok := catalog.ParseCategory(params.Category)
		if !ok {
			return matching.SearchOptions{}, services.Wrap(services.ErrInvalidInput, "api", "search",
				"unknown category "+params.Category, nil)
		}
		opts.Filter.Category = category
	}
	return opts, nil
}
