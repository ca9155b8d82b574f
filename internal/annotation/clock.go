package annotation

import (
	"math"
	"strconv"
	"strings"
)

// ParseDuration converts an elapsed-time field into seconds.
//
// Accepted shapes are plain seconds with an optional "s" or "ms" unit and
// colon clocks with two (MM:SS) or three (H:MM:SS) fields. Anything else
// resolves to 0: times only feed plots, never swing computation.
func ParseDuration(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	divisor := 1.0
	switch {
	case strings.HasSuffix(s, "ms"):
		s = strings.TrimSuffix(s, "ms")
		divisor = 1000
	case strings.HasSuffix(s, "s"):
		s = strings.TrimSuffix(s, "s")
	}

	v, ok := nonNegative(s)
	if !ok {
		return 0
	}
	return v / divisor
}

func parseClock(s string) float64 {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	var total float64
	for _, part := range parts {
		v, ok := nonNegative(part)
		if !ok {
			return 0
		}
		total = total*60 + v
	}
	return total
}

func nonNegative(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
