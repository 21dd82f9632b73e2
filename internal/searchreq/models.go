package searchreq

import (
	"time"

	"recovr/internal/catalog"
	"recovr/internal/matching"
)

// Status is the lifecycle state of a search request. Requests are computed
// exactly once; a failed computation leaves the request pending so the next
// results fetch retries.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Request is one stored image-search request.
type Request struct {
	ID               int64
	PublicID         string
	UserID           int64
	SearchImageURL   string
	Description      string
	ExpectedCategory catalog.Category
	// MatchingThreshold is the requested similarity threshold. Nil means use
	// the configured default at processing time.
	MatchingThreshold *float64
	SearchLocation    string
	SearchLatitude    *float64
	SearchLongitude   *float64
	SearchRadius      *float64
	DateFrom          *time.Time
	DateTo            *time.Time
	Status            Status
	Matches           []matching.Match
	TotalMatchesFound int
	CreatedAt         time.Time
	ProcessedAt       *time.Time
}

// Pending reports whether the request still awaits computation.
func (r *Request) Pending() bool {
	return r.Status == StatusPending
}
