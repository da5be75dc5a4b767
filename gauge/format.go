package gauge

import (
	"math"
	"strconv"
	"strings"
)

// FormatFixed renders `value` as a fixed-point decimal with exactly `decimals`
// fractional digits, rounding half away from zero, and left-pads the result with
// spaces to at least `minWidth` characters.
func FormatFixed(value float64, decimals int, minWidth int) string {
	text := strconv.FormatFloat(roundHalfAway(value, decimals), 'f', decimals, 64)
	if pad := minWidth - len(text); pad > 0 {
		text = strings.Repeat(" ", pad) + text
	}
	return text
}

// roundHalfAway rounds to `decimals` fractional digits with ties going away from zero,
// e.g. 9.96 -> 10.0 and -0.05 -> -0.1 at one decimal.
func roundHalfAway(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Copysign(math.Floor(math.Abs(value)*scale+0.5)/scale, value)
}
