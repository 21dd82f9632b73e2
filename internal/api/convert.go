package api

import (
	"recovr/internal/catalog"
	"recovr/internal/matching"
	"recovr/internal/notify"
	"recovr/internal/searchreq"
)

// FromItem converts a catalog item into its transport form.
func FromItem(item *catalog.Item) ItemView {
	if item == nil {
		return ItemView{}
	}
	return ItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Status:      string(item.Status),
		Category:    string(item.Category),
		Location:    item.Location,
		ImageURL:    item.ImageURL,
		ReportedBy:  item.ReportedBy,
		ReportedAt:  formatTimestamp(item.ReportedAt),
	}
}

// FromItems converts a slice of catalog items.
func FromItems(items []*catalog.Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, FromItem(item))
	}
	return views
}

// FromMatch converts a pipeline match. Owner identity stays internal.
func FromMatch(match matching.Match) MatchView {
	return MatchView{
		ItemID:      match.ItemID,
		Name:        match.Name,
		Description: match.Description,
		ImageURL:    match.ImageURL,
		MatchCount:  match.MatchCount,
		Confidence:  match.Confidence,
	}
}

// FromMatches converts a slice of pipeline matches, preserving order.
func FromMatches(matches []matching.Match) []MatchView {
	views := make([]MatchView, 0, len(matches))
	for _, match := range matches {
		views = append(views, FromMatch(match))
	}
	return views
}

// FromRequest converts a search request into its transport form.
func FromRequest(request *searchreq.Request) SearchRequestView {
	if request == nil {
		return SearchRequestView{}
	}
	view := SearchRequestView{
		PublicID:          request.PublicID,
		UserID:            request.UserID,
		Description:       request.Description,
		ExpectedCategory:  string(request.ExpectedCategory),
		MatchingThreshold: request.MatchingThreshold,
		Status:            string(request.Status),
		Matches:           FromMatches(request.Matches),
		TotalMatchesFound: request.TotalMatchesFound,
		CreatedAt:         formatTimestamp(request.CreatedAt),
	}
	if request.ProcessedAt != nil {
		view.ProcessedAt = formatTimestamp(*request.ProcessedAt)
	}
	return view
}

// FromNotification converts a notification record.
func FromNotification(notification *notify.Notification) NotificationView {
	if notification == nil {
		return NotificationView{}
	}
	return NotificationView{
		ID:            notification.ID,
		Title:         notification.Title,
		Message:       notification.Message,
		Type:          notification.Type,
		Read:          notification.Read,
		RelatedItemID: notification.RelatedItemID,
		CreatedAt:     formatTimestamp(notification.CreatedAt),
	}
}

// FromNotifications converts a slice of notification records.
func FromNotifications(notifications []*notify.Notification) []NotificationView {
	views := make([]NotificationView, 0, len(notifications))
	for _, notification := range notifications {
		views = append(views, FromNotification(notification))
	}
	return views
}
