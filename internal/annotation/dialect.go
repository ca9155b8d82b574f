package annotation

import (
	"fmt"
	"strings"
)

// Dialect names one annotator's comment convention.
type Dialect string

// Supported dialects.
const (
	TCEC      Dialect = "tcec"
	Lichess   Dialect = "lichess"
	Cutechess Dialect = "cutechess"
	Plain     Dialect = "plain"
)

// DefaultDialect is used when no dialect is configured.
const DefaultDialect = Cutechess

// Dialects returns every supported dialect.
func Dialects() []Dialect {
	return []Dialect{TCEC, Lichess, Cutechess, Plain}
}

// ParseDialect parses a dialect name. Winboard and Shredder comments share the
// Cutechess grammar and are accepted as aliases.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DefaultDialect, nil
	case TCEC, Lichess, Cutechess, Plain:
		return d, nil
	case "winboard", "xboard", "shredder":
		return Cutechess, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, s)
	}
}

// Parser turns one raw move comment into an Annotation.
type Parser interface {
	// Parse extracts score, depth and elapsed time from the comment.
	// Text outside the grammar yields an empty Annotation; a malformed
	// numeric field inside the grammar yields a *FormatError.
	Parse(c MoveComment) (Annotation, error)

	// POV returns the point of view of the scores Parse emits.
	POV() POV

	// Dialect returns the dialect this parser implements.
	Dialect() Dialect
}

// NewParser returns the parser for dialect d. pov is the convention of the
// scores written in the comments; it only matters for dialects without a
// fixed convention (Cutechess and Plain). TCEC and Lichess always write
// scores from White's point of view.
func NewParser(d Dialect, pov POV) (Parser, error) {
	switch d {
	case TCEC:
		return tcecParser{}, nil
	case Lichess:
		return lichessParser{}, nil
	case Cutechess:
		return cutechessParser{pov: pov}, nil
	case Plain:
		return plainParser{pov: pov}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, string(d))
	}
}

// plainParser recognizes no grammar beyond the book marker.
type plainParser struct {
	pov POV
}

var _ Parser = plainParser{}

func (p plainParser) Parse(c MoveComment) (Annotation, error) {
	if isBook(c.Text) {
		return bookAnnotation(), nil
	}
	return Annotation{}, nil
}

func (p plainParser) POV() POV         { return p.pov }
func (p plainParser) Dialect() Dialect { return Plain }
