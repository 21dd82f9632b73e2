package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// displayCategory renders stored uppercase enum values for humans,
// e.g. ELECTRONICS -> Electronics.
func displayCategory(value string) string {
	if value == "" {
		return "-"
	}
	return titleCaser.String(strings.ToLower(value))
}

func displayStatus(value string) string {
	if value == "" {
		return "-"
	}
	return strings.ToUpper(value)
}

func formatConfidence(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func truncate(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
