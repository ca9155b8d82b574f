// Package pgn reads and writes games in Portable Game Notation.
//
// Games are split from a stream with Scanner, parsed into tags and
// mainline moves with Parse, and replayed on a board with Game.Replay.
package pgn

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is one tag pair.
type Tag struct {
	Name  string
	Value string
}

// Move is one mainline move and the annotations that follow it.
type Move struct {
	SAN      string
	Comments []string
	NAGs     []string
}

// Comment returns the move's comments joined by a single space.
func (m Move) Comment() string {
	return strings.Join(m.Comments, " ")
}

// Game is a parsed game. Variations are not retained.
type Game struct {
	Tags []Tag

	// Comment is the text of comments preceding the first move.
	Comment string

	Moves  []Move
	Result string
}

// Headers are the seven tag roster values.
type Headers struct {
	Event  string
	Site   string
	Date   string
	Round  string
	White  string
	Black  string
	Result string
}

// Tag returns the value of the named tag, "" when absent.
func (g *Game) Tag(name string) string {
	for _, t := range g.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

// SetTag replaces the named tag, or appends it when absent.
func (g *Game) SetTag(name, value string) {
	for i, t := range g.Tags {
		if t.Name == name {
			g.Tags[i].Value = value
			return
		}
	}
	g.Tags = append(g.Tags, Tag{Name: name, Value: value})
}

// Headers returns the seven tag roster. The result falls back to the
// movetext termination marker when the tag is missing.
func (g *Game) Headers() Headers {
	h := Headers{
		Event:  g.Tag("Event"),
		Site:   g.Tag("Site"),
		Date:   g.Tag("Date"),
		Round:  g.Tag("Round"),
		White:  g.Tag("White"),
		Black:  g.Tag("Black"),
		Result: g.Tag("Result"),
	}
	if h.Result == "" {
		h.Result = g.Result
	}
	if h.Result == "" {
		h.Result = "*"
	}
	return h
}

// Parse parses the text of one game.
func Parse(text string) (*Game, error) {
	toks, err := Lex(text)
	if err != nil {
		return nil, err
	}

	var (
		g     Game
		depth int
		pre   []string
	)
	for _, tok := range toks {
		switch tok.Kind {
		case TagToken:
			if len(g.Moves) > 0 || depth > 0 {
				return nil, fmt.Errorf("%w: tag after movetext at offset %d", ErrSyntax, tok.Start)
			}
			t, err := parseTag(tok.Value)
			if err != nil {
				return nil, fmt.Errorf("%w at offset %d", err, tok.Start)
			}
			g.Tags = append(g.Tags, t)

		case VariationStartToken:
			if len(g.Moves) == 0 && depth == 0 {
				return nil, fmt.Errorf("%w: variation before first move at offset %d", ErrSyntax, tok.Start)
			}
			depth++

		case VariationEndToken:
			if depth == 0 {
				return nil, fmt.Errorf("%w: unbalanced ')' at offset %d", ErrSyntax, tok.Start)
			}
			depth--

		case MoveToken:
			if depth == 0 {
				g.Moves = append(g.Moves, Move{SAN: tok.Value})
			}

		case CommentToken:
			if depth > 0 {
				continue
			}
			c := strings.TrimSpace(tok.Value)
			if c == "" {
				continue
			}
			if len(g.Moves) == 0 {
				pre = append(pre, c)
				continue
			}
			last := &g.Moves[len(g.Moves)-1]
			last.Comments = append(last.Comments, c)

		case NAGToken, SuffixToken:
			if depth > 0 || len(g.Moves) == 0 {
				continue
			}
			last := &g.Moves[len(g.Moves)-1]
			last.NAGs = append(last.NAGs, glyph(tok))

		case ResultToken:
			if depth == 0 {
				g.Result = tok.Value
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unterminated variation", ErrSyntax)
	}
	g.Comment = strings.Join(pre, " ")
	return &g, nil
}

func parseTag(s string) (Tag, error) {
	s = strings.TrimSpace(s)
	name, rest, ok := strings.Cut(s, " ")
	if !ok || name == "" {
		return Tag{}, fmt.Errorf("%w: malformed tag %q", ErrSyntax, s)
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest))
	if err != nil {
		// PGN only escapes '"' and '\'; fall back to a manual strip.
		v := strings.TrimSpace(rest)
		if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
			return Tag{}, fmt.Errorf("%w: malformed tag value %q", ErrSyntax, rest)
		}
		value = strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(v[1 : len(v)-1])
	}
	return Tag{Name: name, Value: value}, nil
}

// suffixGlyphs maps move suffix annotations to their numeric glyphs.
var suffixGlyphs = map[string]string{
	"!":  "$1",
	"?":  "$2",
	"!!": "$3",
	"??": "$4",
	"!?": "$5",
	"?!": "$6",
}

func glyph(tok Token) string {
	if tok.Kind == SuffixToken {
		if g, ok := suffixGlyphs[tok.Value]; ok {
			return g
		}
	}
	return tok.Value
}
