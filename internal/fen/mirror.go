package fen

import (
	"strings"
	"unicode"
)

// Mirror returns the color-mirrored position: ranks are reversed, piece
// colors, castling rights and the side to move are swapped, and the en
// passant square moves to the mirrored rank. The move counters are kept.
func Mirror(fen string) (string, error) {
	r, err := Parse(fen)
	if err != nil {
		return "", err
	}

	ranks := strings.Split(r.Placement, "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	for i, rank := range ranks {
		ranks[i] = swapCase(rank)
	}
	r.Placement = strings.Join(ranks, "/")

	if r.Turn == "w" {
		r.Turn = "b"
	} else {
		r.Turn = "w"
	}

	r.Castling = mirrorCastling(r.Castling)

	if r.EnPassant != "-" {
		ep, ok := mirrorSquare(r.EnPassant)
		if !ok {
			return "", ErrInvalidFEN
		}
		r.EnPassant = ep
	}

	return r.String(), nil
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsUpper(r) {
			return unicode.ToLower(r)
		}
		return unicode.ToUpper(r)
	}, s)
}

// mirrorCastling swaps castling rights between colors, in KQkq order.
func mirrorCastling(castling string) string {
	if castling == "-" {
		return castling
	}
	swapped := swapCase(castling)
	var b strings.Builder
	for _, c := range "KQkq" {
		if strings.ContainsRune(swapped, c) {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// mirrorSquare maps a square name such as "e3" to its mirrored rank.
func mirrorSquare(sq string) (string, bool) {
	if len(sq) != 2 || sq[0] < 'a' || sq[0] > 'h' || sq[1] < '1' || sq[1] > '8' {
		return "", false
	}
	return string([]byte{sq[0], '1' + '8' - sq[1]}), true
}
