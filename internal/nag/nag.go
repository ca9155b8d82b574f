// Package nag removes annotation glyphs from the opening plies of games.
package nag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/discochess/pgnswing/internal/pgn"
)

// ErrKeepFrom indicates a ply threshold below 1.
var ErrKeepFrom = errors.New("nag: keep-from ply must be at least 1")

// Strip removes numeric glyphs ($n) and move suffixes (!, ?, !?, ...) that
// follow mainline plies numbered below keepFrom, counting from 1. Glyphs of
// later plies, variations, comments and tags are left in place.
func Strip(text string, keepFrom int) (string, error) {
	if keepFrom < 1 {
		return "", ErrKeepFrom
	}
	toks, err := pgn.Lex(text)
	if err != nil {
		return "", err
	}

	var (
		b     strings.Builder
		last  int
		depth int
		ply   int
	)
	for _, tok := range toks {
		switch tok.Kind {
		case pgn.VariationStartToken:
			depth++
		case pgn.VariationEndToken:
			depth--
		case pgn.MoveToken:
			if depth == 0 {
				ply++
			}
		case pgn.NAGToken, pgn.SuffixToken:
			if depth != 0 || ply >= keepFrom {
				continue
			}
			start := tok.Start
			if tok.Kind == pgn.NAGToken && start > last && text[start-1] == ' ' {
				start--
			}
			b.WriteString(text[last:start])
			last = tok.End
		}
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// Copy strips every game read from r and writes it to w. It returns the
// number of games written.
func Copy(w io.Writer, r io.Reader, keepFrom int) (int, error) {
	if keepFrom < 1 {
		return 0, ErrKeepFrom
	}
	s := pgn.NewScanner(r)
	n := 0
	for s.Scan() {
		out, err := Strip(s.Text(), keepFrom)
		if err != nil {
			return n, fmt.Errorf("game %d: %w", s.Game(), err)
		}
		if _, err := io.WriteString(w, out); err != nil {
			return n, err
		}
		n++
	}
	return n, s.Err()
}
