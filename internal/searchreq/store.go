package searchreq

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"recovr/internal/catalog"
	"recovr/internal/matching"
	"recovr/internal/storage"
)

// Store persists search requests in the shared database.
type Store struct {
	db *storage.DB
}

// NewStore wraps the shared database handle.
func NewStore(db *storage.DB) *Store {
	return &Store{db: db}
}

const requestColumns = `id, public_id, user_id, search_image_url, description, expected_category,
matching_threshold, search_location, search_latitude, search_longitude, search_radius,
date_from, date_to, status, matches_json, total_matches_found, created_at, processed_at`

// storedMatch is the cached-JSON form of one match.
type storedMatch struct {
	ItemID      int64   `json:"item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	MatchCount  int     `json:"match_count"`
	Confidence  float64 `json:"confidence"`
	OwnerID     *int64  `json:"owner_id,omitempty"`
}

// Submit stores a new request in pending state. The public identifier and
// timestamps are assigned here; caller-set values for them are ignored.
func (s *Store) Submit(ctx context.Context, request *Request) (*Request, error) {
	if request == nil {
		return nil, errors.New("request is nil")
	}
	if request.SearchImageURL == "" {
		return nil, errors.New("search image url required")
	}

	publicID := uuid.New().String()
	now := time.Now().UTC()

	var threshold any
	if request.MatchingThreshold != nil {
		threshold = *request.MatchingThreshold
	}
	res, err := s.db.Exec(
		ctx,
		`INSERT INTO search_requests (
            public_id, user_id, search_image_url, description, expected_category,
            matching_threshold, search_location, search_latitude, search_longitude, search_radius,
            date_from, date_to, status, total_matches_found, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		publicID,
		request.UserID,
		request.SearchImageURL,
		storage.NullableString(request.Description),
		storage.NullableString(string(request.ExpectedCategory)),
		threshold,
		storage.NullableString(request.SearchLocation),
		nullableFloat(request.SearchLatitude),
		nullableFloat(request.SearchLongitude),
		nullableFloat(request.SearchRadius),
		storage.NullableTime(request.DateFrom),
		storage.NullableTime(request.DateTo),
		StatusPending,
		storage.FormatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert search request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a request by internal identifier, or nil when unknown.
func (s *Store) GetByID(ctx context.Context, id int64) (*Request, error) {
	row := s.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM search_requests WHERE id = ?`, id)
	return s.scanOne(row)
}

// GetByPublicID fetches a request by its public identifier, or nil when unknown.
func (s *Store) GetByPublicID(ctx context.Context, publicID string) (*Request, error) {
	row := s.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM search_requests WHERE public_id = ?`, publicID)
	return s.scanOne(row)
}

// ListForUser returns a user's requests, newest first.
func (s *Store) ListForUser(ctx context.Context, userID int64) ([]*Request, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT `+requestColumns+` FROM search_requests WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list search requests: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// CompletePending transitions a pending request to completed, caching the
// match results. The update is conditional on pending status, so concurrent
// completions race safely: exactly one wins and the reported bool says
// whether this call was it.
func (s *Store) CompletePending(ctx context.Context, id int64, matches []matching.Match) (bool, error) {
	payload, err := marshalMatches(matches)
	if err != nil {
		return false, fmt.Errorf("marshal matches: %w", err)
	}

	res, err := s.db.Exec(
		ctx,
		`UPDATE search_requests
         SET status = ?, matches_json = ?, total_matches_found = ?, processed_at = ?
         WHERE id = ? AND status = ?`,
		StatusCompleted,
		payload,
		len(matches),
		storage.FormatTime(time.Now().UTC()),
		id,
		StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("complete search request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) scanOne(row *sql.Row) (*Request, error) {
	request, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get search request: %w", err)
	}
	return request, nil
}

func marshalMatches(matches []matching.Match) (string, error) {
	stored := make([]storedMatch, len(matches))
	for i, match := range matches {
		stored[i] = storedMatch{
			ItemID:      match.ItemID,
			Name:        match.Name,
			Description: match.Description,
			ImageURL:    match.ImageURL,
			MatchCount:  match.MatchCount,
			Confidence:  match.Confidence,
			OwnerID:     match.OwnerID,
		}
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func unmarshalMatches(payload string) ([]matching.Match, error) {
	if payload == "" {
		return nil, nil
	}
	var stored []storedMatch
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return nil, err
	}
	matches := make([]matching.Match, len(stored))
	for i, record := range stored {
		matches[i] = matching.Match{
			ItemID:      record.ItemID,
			Name:        record.Name,
			Description: record.Description,
			ImageURL:    record.ImageURL,
			MatchCount:  record.MatchCount,
			Confidence:  record.Confidence,
			OwnerID:     record.OwnerID,
		}
	}
	return matches, nil
}

func catalogCategory(value sql.NullString) catalog.Category {
	if !value.Valid {
		return ""
	}
	return catalog.Category(value.String)
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func scanRequest(scanner interface{ Scan(dest ...any) error }) (*Request, error) {
	var (
		id           int64
		publicID     string
		userID       int64
		imageURL     string
		description  sql.NullString
		category     sql.NullString
		threshold    sql.NullFloat64
		location     sql.NullString
		latitude     sql.NullFloat64
		longitude    sql.NullFloat64
		radius       sql.NullFloat64
		dateFromRaw  sql.NullString
		dateToRaw    sql.NullString
		statusStr    string
		matchesJSON  sql.NullString
		totalMatches int
		createdRaw   string
		processedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&publicID,
		&userID,
		&imageURL,
		&description,
		&category,
		&threshold,
		&location,
		&latitude,
		&longitude,
		&radius,
		&dateFromRaw,
		&dateToRaw,
		&statusStr,
		&matchesJSON,
		&totalMatches,
		&createdRaw,
		&processedRaw,
	); err != nil {
		return nil, err
	}

	request := &Request{
		ID:                id,
		PublicID:          publicID,
		UserID:            userID,
		SearchImageURL:    imageURL,
		Description:       description.String,
		ExpectedCategory:  catalogCategory(category),
		SearchLocation:    location.String,
		Status:            Status(statusStr),
		TotalMatchesFound: totalMatches,
	}
	if threshold.Valid {
		value := threshold.Float64
		request.MatchingThreshold = &value
	}
	if latitude.Valid {
		value := latitude.Float64
		request.SearchLatitude = &value
	}
	if longitude.Valid {
		value := longitude.Float64
		request.SearchLongitude = &value
	}
	if radius.Valid {
		value := radius.Float64
		request.SearchRadius = &value
	}
	if dateFromRaw.Valid {
		if parsed, err := storage.ParseTime(dateFromRaw.String); err == nil {
			request.DateFrom = &parsed
		}
	}
	if dateToRaw.Valid {
		if parsed, err := storage.ParseTime(dateToRaw.String); err == nil {
			request.DateTo = &parsed
		}
	}
	if created, err := storage.ParseTime(createdRaw); err == nil {
		request.CreatedAt = created
	}
	if processedRaw.Valid {
		if processed, err := storage.ParseTime(processedRaw.String); err == nil {
			request.ProcessedAt = &processed
		}
	}
	if matchesJSON.Valid {
		matches, err := unmarshalMatches(matchesJSON.String)
		if err != nil {
			return nil, fmt.Errorf("decode cached matches: %w", err)
		}
		request.Matches = matches
	}
	return request, nil
}
