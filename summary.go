package pgnswing

import (
	"fmt"
	"strconv"

	"go.uber.org/multierr"
)

// Extreme is the most favorable or unfavorable evaluation of one side.
type Extreme struct {
	// Applicable is false when the game result excludes this extreme:
	// a winner reports no minimum and a loser no maximum.
	Applicable bool

	// Eval is the evaluation in pawns from the side's point of view.
	// It is 0 when the side has no evaluation at all.
	Eval float64

	// Move is the 1-based index of the side's move where Eval first
	// occurred, 0 when the side has no evaluation.
	Move int
}

// EvalString formats the evaluation with two decimals, or "-" when the
// extreme is not applicable.
// Examples: "1.25", "-0.50", "-"
func (e Extreme) EvalString() string {
	if !e.Applicable {
		return "-"
	}
	return strconv.FormatFloat(e.Eval, 'f', 2, 64)
}

// MoveString formats the move index, or "-" when there is none.
func (e Extreme) MoveString() string {
	if !e.Applicable || e.Move == 0 {
		return "-"
	}
	return strconv.Itoa(e.Move)
}

// Summary is the swing summary of one game.
type Summary struct {
	// Game is the 1-based position of the game in its stream.
	Game int

	Event  string
	Date   string
	Round  string
	White  string
	Black  string
	Result string

	WhiteMax Extreme
	WhiteMin Extreme
	BlackMax Extreme
	BlackMin Extreme

	// Plies is the number of mainline moves.
	Plies int

	// WhiteScored and BlackScored count the moves carrying an evaluation,
	// carried-forward ones included.
	WhiteScored int
	BlackScored int

	// WhiteSwing and BlackSwing are the distance between the lowest and
	// highest evaluation of each side, regardless of the result.
	WhiteSwing float64
	BlackSwing float64
}

// Point is one move of one side's evaluation curve.
type Point struct {
	// Move is the full-move number.
	Move int

	// Eval is the evaluation in pawns from the perspective of the side
	// that moved, nil before the side's first score.
	Eval *float64

	// Seconds is the think time, 0 when unknown.
	Seconds float64
}

// GameResult is the outcome of analyzing one game.
type GameResult struct {
	Summary Summary

	// White and Black are the per-side curves. Black's may be one shorter.
	White []Point
	Black []Point

	// Err is set when the game could not be analyzed. Summary then carries
	// whatever headers were read.
	Err *GameError
}

// GameError records a game that could not be analyzed.
type GameError struct {
	Game  int
	White string
	Black string
	Err   error
}

func (e *GameError) Error() string {
	if e.White == "" && e.Black == "" {
		return fmt.Sprintf("pgnswing: game %d: %v", e.Game, e.Err)
	}
	return fmt.Sprintf("pgnswing: game %d (%s - %s): %v", e.Game, e.White, e.Black, e.Err)
}

func (e *GameError) Unwrap() error { return e.Err }

// Report collects the results of one run in stream order.
type Report struct {
	// Games is the number of games read, failed ones included.
	Games int

	Summaries []Summary
	Errors    []*GameError
}

func (r *Report) add(res *GameResult) {
	r.Games++
	if res.Err != nil {
		r.Errors = append(r.Errors, res.Err)
		return
	}
	r.Summaries = append(r.Summaries, res.Summary)
}

// Err combines the per-game errors, nil when every game was analyzed.
func (r *Report) Err() error {
	var err error
	for _, ge := range r.Errors {
		err = multierr.Append(err, ge)
	}
	return err
}
