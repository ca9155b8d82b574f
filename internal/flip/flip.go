// Package flip mirrors games board-wise: ranks are reversed and colors are
// swapped, so White's moves become Black's and the other way around.
package flip

import (
	"errors"
	"fmt"
	"io"

	"github.com/notnil/chess"

	"github.com/discochess/pgnswing/internal/fen"
	"github.com/discochess/pgnswing/internal/pgn"
)

// ErrNoMirror indicates a move with no legal counterpart on the mirrored board.
var ErrNoMirror = errors.New("flip: no mirrored move")

// colorTags are swapped between colors. Missing values become "?".
var colorTags = [][2]string{
	{"White", "Black"},
	{"WhiteElo", "BlackElo"},
	{"WhiteFideId", "BlackFideId"},
	{"WhiteTitle", "BlackTitle"},
}

// Game returns the mirrored copy of g. Comments and glyphs stay on their
// moves; variations are dropped.
func Game(g *pgn.Game) (*pgn.Game, error) {
	plies, err := g.Replay()
	if err != nil {
		return nil, err
	}

	start, err := fen.Mirror(g.StartFEN())
	if err != nil {
		return nil, fmt.Errorf("flip: %w", err)
	}
	opt, err := chess.FEN(start)
	if err != nil {
		return nil, fmt.Errorf("flip: %w", err)
	}
	board := chess.NewGame(opt)

	out := &pgn.Game{
		Tags:    swapTags(g),
		Comment: g.Comment,
		Moves:   make([]pgn.Move, 0, len(plies)),
	}
	out.Result = out.Tag("Result")
	// The mirrored start has the other side to move, so it always differs
	// from the standard position.
	out.SetTag("SetUp", "1")
	out.SetTag("FEN", start)

	for _, p := range plies {
		pos := board.Position()
		m := mirrored(pos, p.Move)
		if m == nil {
			return nil, fmt.Errorf("%w: ply %d %s", ErrNoMirror, p.Index+1, p.Move)
		}
		san := chess.AlgebraicNotation{}.Encode(pos, m)
		if err := board.Move(m); err != nil {
			return nil, fmt.Errorf("flip: ply %d: %w", p.Index+1, err)
		}
		out.Moves = append(out.Moves, pgn.Move{
			SAN:      san,
			Comments: p.Source.Comments,
			NAGs:     p.Source.NAGs,
		})
	}
	return out, nil
}

// Copy mirrors every game read from r and writes it to w. It returns the
// number of games written.
func Copy(w io.Writer, r io.Reader) (int, error) {
	s := pgn.NewScanner(r)
	n := 0
	for s.Scan() {
		g, err := pgn.Parse(s.Text())
		if err != nil {
			return n, fmt.Errorf("game %d: %w", s.Game(), err)
		}
		fg, err := Game(g)
		if err != nil {
			return n, fmt.Errorf("game %d: %w", s.Game(), err)
		}
		if err := pgn.Write(w, fg); err != nil {
			return n, err
		}
		n++
	}
	return n, s.Err()
}

// Result swaps a decisive result. Draws and unknown results are kept.
func Result(r string) string {
	switch r {
	case "1-0":
		return "0-1"
	case "0-1":
		return "1-0"
	case "":
		return "*"
	}
	return r
}

func swapTags(g *pgn.Game) []pgn.Tag {
	swap := make(map[string]string, 2*len(colorTags))
	for _, pair := range colorTags {
		swap[pair[0]] = pair[1]
		swap[pair[1]] = pair[0]
	}

	out := &pgn.Game{}
	for _, t := range g.Tags {
		switch other, ok := swap[t.Name]; {
		case ok:
			out.SetTag(t.Name, valueOr(g.Tag(other), "?"))
		case t.Name == "Result":
			out.SetTag(t.Name, Result(t.Value))
		default:
			out.SetTag(t.Name, t.Value)
		}
	}
	for _, pair := range colorTags {
		for _, name := range pair {
			if out.Tag(name) == "" {
				out.SetTag(name, valueOr(g.Tag(swap[name]), "?"))
			}
		}
	}
	if out.Tag("Result") == "" {
		out.SetTag("Result", Result(g.Result))
	}
	return out.Tags
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// mirrored finds the legal move in pos that mirrors m.
func mirrored(pos *chess.Position, m *chess.Move) *chess.Move {
	s1, s2 := mirrorSquare(m.S1()), mirrorSquare(m.S2())
	for _, v := range pos.ValidMoves() {
		if v.S1() == s1 && v.S2() == s2 && v.Promo() == m.Promo() {
			return v
		}
	}
	return nil
}

// mirrorSquare flips the rank of sq, keeping its file.
func mirrorSquare(sq chess.Square) chess.Square {
	return chess.Square(int8(sq) ^ 56)
}
