package matching

import (
	"sort"

	"recovr/internal/catalog"
)

// Mode selects how oracle output is joined back to catalog candidates.
type Mode int

const (
	// ModeReportedItem joins on the full resolved path. Candidate paths were
	// produced by this process, so the oracle echoes them back verbatim.
	ModeReportedItem Mode = iota
	// ModeSearch joins on the trailing file name, tolerating oracles that
	// rewrite directory prefixes.
	ModeSearch
)

// Candidate pairs a catalog item with the resolved filesystem path handed to
// the oracle.
type Candidate struct {
	Item *catalog.Item
	Path string
}

// Match is one scored pipeline result, ordered strongest first.
type Match struct {
	ItemID      int64
	Name        string
	Description string
	ImageURL    string
	MatchCount  int
	Confidence  float64
	OwnerID     *int64
}

// Rank joins raw oracle results back to their catalog items, drops entries
// below minCount, scores the survivors, and orders them by match count
// descending. Ordering is stable: equal counts keep oracle output order.
// Results that do not join to any candidate are dropped.
func Rank(results []RawResult, candidates []Candidate, mode Mode, minCount int) []Match {
	index := make(map[string]Candidate, len(candidates))
	for _, candidate := range candidates {
		key := candidate.Path
		if mode == ModeSearch {
			key = FileName(candidate.Path)
		}
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = candidate
		}
	}

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		if result.MatchCount < minCount {
			continue
		}
		key := result.ImagePath
		if mode == ModeSearch {
			key = FileName(result.ImagePath)
		}
		candidate, ok := index[key]
		if !ok || candidate.Item == nil {
			continue
		}
		item := candidate.Item
		matches = append(matches, Match{
			ItemID:      item.ID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			MatchCount:  result.MatchCount,
			Confidence:  Confidence(result.MatchCount),
			OwnerID:     item.ReportedBy,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchCount > matches[j].MatchCount
	})
	return matches
}
