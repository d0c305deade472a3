package weather

// Classify maps stats to exactly one category. Rules are evaluated in order and
// the first match wins, so a hot and windy day is veryhot.
func Classify(s Stats) Classification {
	switch {
	case s.Temperature > 30:
		return ClassVeryHot
	case s.Temperature < 10:
		return ClassVeryCold
	case s.Rainfall > 10:
		return ClassVeryWet
	case s.Wind > 4:
		return ClassVeryWindy
	default:
		return ClassNormal
	}
}
