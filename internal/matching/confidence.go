package matching

// Confidence maps a raw feature-match count to a display percentage in
// [0, 100]. The step function is fixed and shared by both pipeline modes so a
// given count always explains the same percentage.
func Confidence(matchCount int) float64 {
	switch {
	case matchCount >= 100:
		// Very high counts almost always mean identical images.
		return 99.0
	case matchCount >= 50:
		return 95.0
	case matchCount >= 30:
		return 85.0
	case matchCount >= 20:
		return 75.0
	case matchCount >= 15:
		return 65.0
	case matchCount >= 10:
		return 55.0
	case matchCount >= 5:
		return 45.0
	default:
		scaled := float64(matchCount) * 5
		if scaled < 20.0 {
			return 20.0
		}
		return scaled
	}
}
