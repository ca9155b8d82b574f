package annotation

import (
	"strconv"
	"strings"
)

// cutechessParser reads "<score>/<depth> <time>" comments as written by
// Cutechess, Winboard and Shredder, e.g. "+0.31/18 1.27s" or "-M5/34 0:01:02".
// A lone token such as "0.002" carries the time only.
type cutechessParser struct {
	pov POV
}

var _ Parser = cutechessParser{}

func (p cutechessParser) Parse(c MoveComment) (Annotation, error) {
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return Annotation{}, nil
	}
	if isBook(text) {
		return bookAnnotation(), nil
	}

	fields := strings.Fields(text)
	scoreText, depthText, hasSlash := strings.Cut(fields[0], "/")
	if !hasSlash {
		if len(fields) == 1 {
			return Annotation{Elapsed: floatPtr(ParseDuration(fields[0]))}, nil
		}
		// Free text such as "White mates".
		return Annotation{}, nil
	}
	if !looksLikeScore(scoreText) {
		return Annotation{}, nil
	}

	score, err := parseScore(scoreText)
	if err != nil {
		return Annotation{}, malformed(Cutechess, "score", scoreText, text, err)
	}
	depth, err := strconv.Atoi(depthText)
	if err != nil {
		return Annotation{}, malformed(Cutechess, "depth", depthText, text, err)
	}

	a := Annotation{Score: floatPtr(score), Depth: intPtr(depth)}
	switch {
	case isTermination(text):
		a.Elapsed = floatPtr(0)
	case len(fields) > 1:
		a.Elapsed = floatPtr(ParseDuration(strings.TrimRight(fields[1], ",")))
	}
	return a, nil
}

func (p cutechessParser) POV() POV         { return p.pov }
func (p cutechessParser) Dialect() Dialect { return Cutechess }

// isTermination reports whether the comment closes the game by adjudication
// rather than recording a normal search.
func isTermination(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "adjudication") || strings.Contains(lower, "xboard")
}
