package api

import "time"

// ItemView is the transport representation of a catalog item.
type ItemView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Category    string `json:"category,omitempty"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ReportedBy  *int64 `json:"reportedBy,omitempty"`
	ReportedAt  string `json:"reportedAt"`
}

// MatchView is one scored match in a pipeline or search response.
type MatchView struct {
	ItemID      int64   `json:"itemId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	MatchCount  int     `json:"matchCount"`
	Confidence  float64 `json:"confidence"`
}

// ProcessResult summarizes a reported-item pipeline run.
type ProcessResult struct {
	ItemID            int64       `json:"itemId"`
	Skipped           bool        `json:"skipped"`
	Reason            string      `json:"reason,omitempty"`
	Candidates        int         `json:"candidates"`
	Matches           []MatchView `json:"matches"`
	NotificationsSent int         `json:"notificationsSent"`
}

// SearchResult summarizes an ad-hoc image search.
type SearchResult struct {
	Threshold  float64     `json:"threshold"`
	Candidates int         `json:"candidates"`
	Matches    []MatchView `json:"matches"`
}

// SearchRequestView is the transport representation of a search request.
type SearchRequestView struct {
	PublicID          string      `json:"publicId"`
	UserID            int64       `json:"userId"`
	Description       string      `json:"description,omitempty"`
	ExpectedCategory  string      `json:"expectedCategory,omitempty"`
	MatchingThreshold *float64    `json:"matchingThreshold,omitempty"`
	Status            string      `json:"status"`
	Matches           []MatchView `json:"matches,omitempty"`
	TotalMatchesFound int         `json:"totalMatchesFound"`
	CreatedAt         string      `json:"createdAt"`
	ProcessedAt       string      `json:"processedAt,omitempty"`
}

// NotificationView is the transport representation of a notification.
type NotificationView struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Type          string `json:"type"`
	Read          bool   `json:"read"`
	RelatedItemID *int64 `json:"relatedItemId,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
