package matching

import (
	"strconv"
	"strings"
)

// Lines beginning with these prefixes are progress or banner output from the
// matcher script, never results.
var nonResultPrefixes = []string{"Comparing", "Processing", "Result for"}

// parseResultLine parses one line of oracle output of the shape
//
//	<imagePath>: <N> matches (confidence: <pct>%)
//
// Only the path and count are consumed; the script's own confidence figure is
// recomputed independently during ranking. The split happens on the first
// colon only, since image paths may themselves contain colons. Returns false
// for any line that does not carry a result.
func parseResultLine(line string) (RawResult, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return RawResult{}, false
	}
	if !strings.Contains(trimmed, ":") || !strings.Contains(trimmed, "matches") {
		return RawResult{}, false
	}
	for _, prefix := range nonResultPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return RawResult{}, false
		}
	}

	path, remainder, _ := strings.Cut(trimmed, ":")
	path = strings.TrimSpace(path)
	if path == "" {
		return RawResult{}, false
	}

	fields := strings.Fields(remainder)
	if len(fields) < 2 {
		return RawResult{}, false
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return RawResult{}, false
	}

	return RawResult{ImagePath: path, MatchCount: count}, true
}

// looksLikeResultLine reports whether a rejected line appeared to carry a
// result, so the caller can log it rather than silently dropping it.
func looksLikeResultLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, ":") || !strings.Contains(trimmed, "matches") {
		return false
	}
	for _, prefix := range nonResultPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	return true
}
