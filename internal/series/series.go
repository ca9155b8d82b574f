// Package series builds per-side evaluation and think-time series for one game.
package series

import (
	"fmt"

	"github.com/discochess/pgnswing/internal/annotation"
)

// DefaultMinDepth is the shallowest search depth whose score is trusted.
const DefaultMinDepth = 1

// Point is one move of one side.
type Point struct {
	// Move is the full-move number the move was played at.
	Move int

	// Eval is the evaluation in pawns from the perspective of the side owning
	// the series: positive is good for that side. Nil when no score has been
	// seen yet for this side.
	Eval *float64

	// Seconds is the think time of the move, 0 when unknown.
	Seconds float64
}

// Series is the ordered list of one side's moves.
type Series []Point

// Evals returns the evaluation of each point, nil for absent ones.
func (s Series) Evals() []*float64 {
	evals := make([]*float64, len(s))
	for i, p := range s {
		evals[i] = p.Eval
	}
	return evals
}

// Present returns the number of points that carry an evaluation.
func (s Series) Present() int {
	n := 0
	for _, p := range s {
		if p.Eval != nil {
			n++
		}
	}
	return n
}

// Range returns the lowest and highest present evaluation.
// ok is false when no point carries an evaluation.
func (s Series) Range() (lo, hi float64, ok bool) {
	for _, p := range s {
		if p.Eval == nil {
			continue
		}
		v := *p.Eval
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// Game holds both sides' series of one game.
type Game struct {
	White Series
	Black Series
}

// Side returns the series owned by side.
func (g Game) Side(side annotation.Side) Series {
	if side == annotation.Black {
		return g.Black
	}
	return g.White
}

// Options configures Build.
type Options struct {
	// MinDepth discards scores reported at a shallower depth.
	// Scores without a depth are always kept.
	MinDepth int
}

// DefaultOptions returns the default build options.
func DefaultOptions() Options {
	return Options{MinDepth: DefaultMinDepth}
}

// carry is the last known evaluation of each side, threaded through the fold.
type carry struct {
	white *float64
	black *float64
}

func (c carry) last(side annotation.Side) *float64 {
	if side == annotation.Black {
		return c.black
	}
	return c.white
}

func (c carry) with(side annotation.Side, v *float64) carry {
	if side == annotation.Black {
		c.black = v
	} else {
		c.white = v
	}
	return c
}

// Build walks the mainline comments of one game once and returns both sides'
// series. A malformed annotation aborts the game with an error that wraps the
// parser's *annotation.FormatError.
func Build(comments []annotation.MoveComment, p annotation.Parser, opts Options) (Game, error) {
	var (
		g   Game
		acc carry
	)
	for _, c := range comments {
		a, err := p.Parse(c)
		if err != nil {
			return Game{}, fmt.Errorf("move %d (ply %d): %w", c.FullMove, c.Ply, err)
		}

		var pt Point
		pt, acc = step(acc, c, a, p.POV(), opts)
		if c.Side == annotation.Black {
			g.Black = append(g.Black, pt)
		} else {
			g.White = append(g.White, pt)
		}
	}
	return g, nil
}

// step resolves one parsed comment into a point and the next accumulator.
func step(acc carry, c annotation.MoveComment, a annotation.Annotation, native annotation.POV, opts Options) (Point, carry) {
	pt := Point{Move: c.FullMove}
	if a.Elapsed != nil {
		pt.Seconds = *a.Elapsed
	}

	if score, ok := acceptedScore(a, opts); ok {
		v := annotation.Orient(score, native, c.Side)
		pt.Eval = &v
		return pt, acc.with(c.Side, pt.Eval)
	}

	if last := acc.last(c.Side); last != nil {
		v := *last
		pt.Eval = &v
	}
	return pt, acc
}

func acceptedScore(a annotation.Annotation, opts Options) (float64, bool) {
	if a.Score == nil {
		return 0, false
	}
	if a.Depth != nil && *a.Depth < opts.MinDepth {
		return 0, false
	}
	return *a.Score, true
}
