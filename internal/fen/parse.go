// Package fen provides FEN (Forsyth-Edwards Notation) helpers used when
// walking and mirroring games.
package fen

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidFEN indicates the FEN string is malformed.
var ErrInvalidFEN = errors.New("invalid FEN notation")

// Start is the standard starting position.
const Start = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Record is a FEN split into its six fields.
type Record struct {
	Placement string
	Turn      string
	Castling  string
	EnPassant string
	HalfMove  int
	FullMove  int
}

// Parse splits and validates a FEN. The halfmove clock and fullmove number
// may be omitted; they default to 0 and 1.
func Parse(fen string) (Record, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return Record{}, ErrInvalidFEN
	}
	if !isValidPiecePlacement(parts[0]) {
		return Record{}, ErrInvalidFEN
	}
	if parts[1] != "w" && parts[1] != "b" {
		return Record{}, ErrInvalidFEN
	}

	r := Record{
		Placement: parts[0],
		Turn:      parts[1],
		Castling:  parts[2],
		EnPassant: parts[3],
		FullMove:  1,
	}
	if len(parts) > 4 {
		n, err := strconv.Atoi(parts[4])
		if err != nil || n < 0 {
			return Record{}, ErrInvalidFEN
		}
		r.HalfMove = n
	}
	if len(parts) > 5 {
		n, err := strconv.Atoi(parts[5])
		if err != nil || n < 1 {
			return Record{}, ErrInvalidFEN
		}
		r.FullMove = n
	}
	return r, nil
}

// String joins the record back into a six-field FEN.
func (r Record) String() string {
	return strings.Join([]string{
		r.Placement,
		r.Turn,
		r.Castling,
		r.EnPassant,
		strconv.Itoa(r.HalfMove),
		strconv.Itoa(r.FullMove),
	}, " ")
}

// SideToMove returns "w" or "b" from a FEN string.
func SideToMove(fen string) (string, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return "", ErrInvalidFEN
	}
	if parts[1] != "w" && parts[1] != "b" {
		return "", ErrInvalidFEN
	}
	return parts[1], nil
}

// FullMoveNumber returns the fullmove counter of a FEN, 1 when omitted.
func FullMoveNumber(fen string) (int, error) {
	r, err := Parse(fen)
	if err != nil {
		return 0, err
	}
	return r.FullMove, nil
}

// isValidPiecePlacement validates the piece placement part of a FEN.
func isValidPiecePlacement(placement string) bool {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return false
	}

	for _, rank := range ranks {
		squares := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				squares += int(ch - '0')
			case ch == 'P', ch == 'N', ch == 'B', ch == 'R', ch == 'Q', ch == 'K',
				ch == 'p', ch == 'n', ch == 'b', ch == 'r', ch == 'q', ch == 'k':
				squares++
			default:
				return false
			}
		}
		if squares != 8 {
			return false
		}
	}

	return true
}
