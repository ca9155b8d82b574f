// Package annotation parses engine analysis comments attached to PGN moves.
//
// Annotators write evaluations and think times in incompatible micro-grammars.
// Each Dialect has one Parser that turns a raw comment into an Annotation in
// the dialect's native point of view; callers orient the score with Orient.
package annotation

import (
	"fmt"
	"strings"
)

// Side identifies the player who made a move.
type Side int8

const (
	White Side = iota
	Black
)

// String returns "white" or "black".
func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

// MoveComment is the comment attached to one mainline move.
type MoveComment struct {
	// Ply is the 0-based half-move index within the game.
	Ply int

	// Side is the side to move in the position before the move, that is the
	// side that made the move.
	Side Side

	// FullMove is the full-move number of the position before the move.
	FullMove int

	// Text is the raw comment text without braces.
	Text string

	// GivesCheck reports whether the move leaves the opponent in check.
	GivesCheck bool
}

// Annotation holds the values recovered from one comment.
// Every field is independently optional.
type Annotation struct {
	// Score is the evaluation in pawns, in the parser's native point of view.
	Score *float64

	// Depth is the search depth the score was produced at.
	Depth *int

	// Elapsed is the think time in seconds.
	Elapsed *float64
}

// HasScore reports whether the comment carried an evaluation.
func (a Annotation) HasScore() bool {
	return a.Score != nil
}

// POV is the point of view a signed score is expressed from.
type POV int8

const (
	// POVSideToMove means positive scores favor the side that made the move.
	POVSideToMove POV = iota

	// POVWhite means positive scores favor White.
	POVWhite
)

// String returns the configuration name of the point of view.
func (p POV) String() string {
	if p == POVWhite {
		return "white"
	}
	return "side-to-move"
}

// ParsePOV parses a point of view name.
func ParsePOV(s string) (POV, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "side-to-move", "stm", "spov":
		return POVSideToMove, nil
	case "white", "wpov":
		return POVWhite, nil
	default:
		return 0, fmt.Errorf("annotation: unknown point of view %q", s)
	}
}

// Orient converts a score in the native point of view into the point of view
// of the side that made the move.
func Orient(score float64, native POV, side Side) float64 {
	if native == POVWhite && side == Black {
		return -score
	}
	return score
}

// isBook reports whether the comment marks an opening book move.
func isBook(text string) bool {
	return strings.Contains(strings.ToLower(text), "book")
}

// bookAnnotation is the result for opening book moves in every dialect.
func bookAnnotation() Annotation {
	score, elapsed := 0.0, 0.0
	return Annotation{Score: &score, Elapsed: &elapsed}
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}
