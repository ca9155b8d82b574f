package pgn

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLine = 1024 * 1024

// Scanner splits a PGN stream into the raw text of each game.
//
// A game ends where a tag line follows movetext. Lines inside a multi-line
// brace comment never start a game.
type Scanner struct {
	sc   *bufio.Scanner
	text string
	next strings.Builder
	err  error
	eof  bool
	n    int
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	// Increase buffer size for long lines.
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Scanner{sc: sc}
}

// Scan advances to the next game. It returns false at the end of the
// stream or on a read error.
func (s *Scanner) Scan() bool {
	if s.eof {
		return false
	}

	var (
		game      strings.Builder
		movetext  bool
		inComment bool
	)
	game.WriteString(s.next.String())
	s.next.Reset()
	if game.Len() > 0 {
		inComment = commentOpen(game.String(), false)
	}

	for s.sc.Scan() {
		line := s.sc.Text()
		if s.n == 0 && game.Len() == 0 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		trimmed := strings.TrimSpace(line)

		if !inComment && strings.HasPrefix(trimmed, "[") && movetext {
			s.next.WriteString(line)
			s.next.WriteString("\n")
			return s.emit(game.String())
		}
		if !inComment && trimmed != "" && !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "%") {
			movetext = true
		}
		inComment = commentOpen(line, inComment)

		if trimmed == "" && game.Len() == 0 {
			continue
		}
		game.WriteString(line)
		game.WriteString("\n")
	}

	s.eof = true
	if err := s.sc.Err(); err != nil {
		s.err = fmt.Errorf("reading PGN: %w", err)
		return false
	}
	if strings.TrimSpace(game.String()) == "" {
		return false
	}
	return s.emit(game.String())
}

func (s *Scanner) emit(text string) bool {
	s.text = text
	s.n++
	return true
}

// Text returns the raw text of the current game.
func (s *Scanner) Text() string { return s.text }

// Game returns the 1-based index of the current game in the stream.
func (s *Scanner) Game() int { return s.n }

// Err returns the first read error.
func (s *Scanner) Err() error { return s.err }

// commentOpen reports whether a brace comment is still open after line.
// Braces inside quoted tag values do not count.
func commentOpen(line string, open bool) bool {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case open:
			if c == '}' {
				open = false
			}
		case quoted:
			switch c {
			case '\\':
				i++
			case '"':
				quoted = false
			}
		case c == '"':
			quoted = true
		case c == '{':
			open = true
		case c == ';':
			return false
		}
	}
	return open
}
