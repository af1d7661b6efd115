package handlers

import (
	"math"
	"strconv"
)

// oneDecimal renders v with at most one fractional digit, rounding half away from zero.
func oneDecimal(v float64) string {
	return trimmed(math.Round(v*10) / 10)
}

// whole renders v rounded half away from zero to an integer.
func whole(v float64) string {
	return trimmed(math.Round(v))
}

// plain renders v in its shortest form after discarding conversion noise
// below one millionth.
func plain(v float64) string {
	return trimmed(math.Round(v*1e6) / 1e6)
}

func trimmed(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
