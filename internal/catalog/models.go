package catalog

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a registry item.
type Status string

const (
	StatusLost    Status = "LOST"
	StatusFound   Status = "FOUND"
	StatusClaimed Status = "CLAIMED"
)

var allStatuses = []Status{StatusLost, StatusFound, StatusClaimed}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Category groups items for filtered searches.
type Category string

const (
	CategoryElectronics   Category = "ELECTRONICS"
	CategoryClothing      Category = "CLOTHING"
	CategoryBags          Category = "BAGS"
	CategoryDocuments     Category = "DOCUMENTS"
	CategoryKeys          Category = "KEYS"
	CategoryAccessories   Category = "ACCESSORIES"
	CategoryMiscellaneous Category = "MISCELLANEOUS"
)

var allCategories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBags,
	CategoryDocuments,
	CategoryKeys,
	CategoryAccessories,
	CategoryMiscellaneous,
}

var categorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(allCategories))
	for _, category := range allCategories {
		set[category] = struct{}{}
	}
	return set
}()

// Item is a snapshot of one catalog entry. Pipeline runs treat items as
// immutable; mutation happens only through the catalog store.
type Item struct {
	ID          int64
	Name        string
	Description string
	Status      Status
	Category    Category
	Location    string
	ImageURL    string
	ReportedBy  *int64
	ReportedAt  time.Time
}

// HasImage reports whether the item carries an image reference usable for matching.
func (i Item) HasImage() bool {
	return strings.TrimSpace(i.ImageURL) != ""
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// AllCategories returns the ordered list of known categories.
func AllCategories() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := categorySet[normalized]
	return normalized, ok
}
