// Package swing finds the most favorable and unfavorable evaluation of each
// side over one game.
package swing

import "github.com/discochess/pgnswing/internal/annotation"

// Game results as written in the PGN Result tag.
const (
	WhiteWins = "1-0"
	BlackWins = "0-1"
	Draw      = "1/2-1/2"
	Unknown   = "*"
)

// Extreme is one reported evaluation extreme.
type Extreme struct {
	// Applicable is false when the game result makes this extreme meaningless.
	Applicable bool

	// Eval is the extreme evaluation in pawns, 0 when the series is empty.
	Eval float64

	// Move is the 1-based index into the series where Eval first occurs,
	// 0 when the series carries no evaluation.
	Move int
}

// HasMove reports whether the extreme points at a move.
func (e Extreme) HasMove() bool {
	return e.Applicable && e.Move > 0
}

// Side holds the extremes reported for one side.
type Side struct {
	Max Extreme
	Min Extreme
}

// Summarize computes the extremes of one side's evaluations.
//
// A side that won reports its maximum only, a side that lost reports its
// minimum only, and draws or unfinished games report both. Nil entries are
// absent evaluations and are skipped, but still count towards move indices.
func Summarize(evals []*float64, owner annotation.Side, result string) Side {
	var s Side
	switch outcome(owner, result) {
	case won:
		s.Max = extreme(evals, greater)
	case lost:
		s.Min = extreme(evals, less)
	default:
		s.Max = extreme(evals, greater)
		s.Min = extreme(evals, less)
	}
	return s
}

type result int

const (
	undecided result = iota
	won
	lost
)

func outcome(owner annotation.Side, r string) result {
	switch {
	case r == WhiteWins && owner == annotation.White, r == BlackWins && owner == annotation.Black:
		return won
	case r == WhiteWins, r == BlackWins:
		return lost
	default:
		return undecided
	}
}

func greater(a, b float64) bool { return a > b }
func less(a, b float64) bool    { return a < b }

// extreme scans once, keeping the earliest index on ties.
func extreme(evals []*float64, better func(a, b float64) bool) Extreme {
	e := Extreme{Applicable: true}
	for i, v := range evals {
		if v == nil {
			continue
		}
		if e.Move == 0 || better(*v, e.Eval) {
			e.Eval = *v
			e.Move = i + 1
		}
	}
	return e
}
