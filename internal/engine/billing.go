package engine

import "math"

// Cost computes the charge for a run. Rounding is ceil on purpose: partial
// hours never round the bill down. Displayed minutes use nearest rounding
// instead, see Minutes.
func Cost(seconds int, pricePerHour int) int {
	if seconds <= 0 || pricePerHour <= 0 {
		return 0
	}
	return int(math.Ceil(float64(seconds) / 3600.0 * float64(pricePerHour)))
}

// Minutes converts used seconds to the minute count shown to the operator
// and stored on log entries.
func Minutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(float64(seconds) / 60.0))
}
