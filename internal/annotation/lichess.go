package annotation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	lichessEvalRe  = regexp.MustCompile(`\[%eval\s+([^\]]*)\]`)
	lichessClockRe = regexp.MustCompile(`\[%clk\s+([^\]]*)\]`)
)

// lichessParser reads bracket command tags such as "[%eval -1.49] [%clk 0:15:10]".
// Mates are written "[%eval #-3]"; some exporters append the depth as
// "[%eval 0.17,24]".
type lichessParser struct{}

var _ Parser = lichessParser{}

func (p lichessParser) Parse(c MoveComment) (Annotation, error) {
	if isBook(c.Text) {
		return bookAnnotation(), nil
	}

	var a Annotation
	if m := lichessEvalRe.FindStringSubmatch(c.Text); m != nil {
		value, depthText, hasDepth := strings.Cut(strings.TrimSpace(m[1]), ",")
		value = strings.TrimSpace(value)
		score, err := parseScore(value)
		if err != nil {
			return Annotation{}, malformed(Lichess, "eval", value, c.Text, err)
		}
		a.Score = floatPtr(score)

		if hasDepth {
			depthText = strings.TrimSpace(depthText)
			depth, err := strconv.Atoi(depthText)
			if err != nil {
				return Annotation{}, malformed(Lichess, "eval depth", depthText, c.Text, err)
			}
			a.Depth = intPtr(depth)
		}
	} else if c.GivesCheck {
		// The mating move carries no eval tag. Credit the mover.
		a.Score = floatPtr(MateScore(0, c.Side == Black))
	}

	if m := lichessClockRe.FindStringSubmatch(c.Text); m != nil {
		a.Elapsed = floatPtr(ParseDuration(m[1]))
	}

	return a, nil
}

func (p lichessParser) POV() POV         { return POVWhite }
func (p lichessParser) Dialect() Dialect { return Lichess }
