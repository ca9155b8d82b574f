package annotation

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MateScoreCentipawns is the magnitude a mate-in-0 maps to, in centipawns.
const MateScoreCentipawns = 32000

var errNotFinite = errors.New("value is not finite")

// MateScore converts a forced mate in n moves into pawns. The magnitude
// shrinks by one centipawn per move so that nearer mates score higher.
// negative selects the side being mated.
func MateScore(n int, negative bool) float64 {
	if n < 0 {
		n = -n
		negative = !negative
	}
	v := float64(MateScoreCentipawns-n) / 100
	if negative {
		return -v
	}
	return v
}

// parseScore parses a pawn score or a mate token.
// Accepted mate forms are M3, +M3, -M3, #3, #-3 and #+3.
func parseScore(s string) (float64, error) {
	body := s
	negative := false
	if strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
		negative = body[0] == '-'
		body = body[1:]
	}
	if strings.HasPrefix(body, "M") || strings.HasPrefix(body, "#") {
		return parseMate(body[1:], negative)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func parseMate(body string, negative bool) (float64, error) {
	if strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
		if body[0] == '-' {
			negative = !negative
		}
		body = body[1:]
	}
	n, err := strconv.ParseUint(body, 10, 32)
	if err != nil {
		return 0, err
	}
	if n >= MateScoreCentipawns {
		return 0, strconv.ErrRange
	}
	return MateScore(int(n), negative), nil
}

// looksLikeScore reports whether s starts the way a score token does.
// It separates "structurally a score" from free text before strict parsing.
func looksLikeScore(s string) bool {
	s = strings.TrimLeft(s, "+-")
	s = strings.TrimPrefix(s, "M")
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= '0' && c <= '9') || c == '.' || c == '+' || c == '-'
}
