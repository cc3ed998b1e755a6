package engine

import (
	"fmt"
	"math"
)

// Display colors shared by cards, toasts and the customer view.
const (
	ColorIdle    = "#065ea8"
	ColorNeutral = "#222"
	ColorWarn    = "#f59e0b"
	ColorDanger  = "#ef4444"
	ColorInfo    = "#0b5ea8"
)

var (
	rgbBlue   = [3]float64{6, 94, 168}   // #065ea8
	rgbPurple = [3]float64{124, 58, 237} // #7c3aed
	rgbRed    = [3]float64{239, 68, 68}  // #ef4444
)

// ProgressColor maps remaining/initial progress to a hex color:
// 1 is blue, 0.5 purple, 0 red, interpolated linearly between the stops.
func ProgressColor(progress float64) string {
	t := math.Max(0, math.Min(1, progress))
	if t > 0.5 {
		return lerpColor(rgbPurple, rgbBlue, (t-0.5)/0.5)
	}
	return lerpColor(rgbRed, rgbPurple, t/0.5)
}

func lerpColor(a, b [3]float64, t float64) string {
	r := int(math.Round(a[0] + (b[0]-a[0])*t))
	g := int(math.Round(a[1] + (b[1]-a[1])*t))
	bl := int(math.Round(a[2] + (b[2]-a[2])*t))
	return fmt.Sprintf("#%02x%02x%02x", r, g, bl)
}

// FormatHMS renders remaining seconds as HH:MM:SS, or MM:SS under an hour.
func FormatHMS(totalSeconds int) string {
	if totalSeconds <= 0 {
		return "00:00:00"
	}
	hh := totalSeconds / 3600
	mm := (totalSeconds % 3600) / 60
	ss := totalSeconds % 60
	if hh > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
	}
	return fmt.Sprintf("%02d:%02d", mm, ss)
}
