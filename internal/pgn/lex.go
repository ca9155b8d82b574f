package pgn

import (
	"errors"
	"fmt"
	"strings"
)

const enPassant = "e.p."

// ErrSyntax indicates a lexical error in game text.
var ErrSyntax = errors.New("pgn: syntax error")

// TokenKind is the kind of a lexical token.
type TokenKind int

const (
	TagToken TokenKind = iota
	CommentToken
	LineCommentToken
	NAGToken
	SuffixToken
	MoveNumberToken
	MoveToken
	VariationStartToken
	VariationEndToken
	ResultToken
	EscapeToken
)

var tokenNames = [...]string{
	"TAG", "COMMENT", "LINE_COMMENT", "NAG", "SUFFIX", "MOVE_NUMBER",
	"MOVE", "VARIATION_START", "VARIATION_END", "RESULT", "ESCAPE",
}

// String returns the token kind name.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "UNKNOWN"
}

// Token is one lexeme of game text. Start and End are byte offsets of the
// complete lexeme, delimiters included, so text[Start:End] reproduces it.
type Token struct {
	Kind  TokenKind
	Value string
	Start int
	End   int
}

// Lex splits game text into tokens. Whitespace is dropped.
func Lex(text string) ([]Token, error) {
	var (
		toks []Token
		i    int
	)
	lineStart := true
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\n':
			lineStart = true
			i++
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
			continue
		}

		start := i
		switch {
		case c == '%' && lineStart:
			i = lineEnd(text, i)
			toks = append(toks, Token{EscapeToken, text[start+1 : i], start, i})

		case c == '[':
			end := tagEnd(text, i)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated tag at offset %d", ErrSyntax, start)
			}
			i = end + 1
			toks = append(toks, Token{TagToken, text[start+1 : end], start, i})

		case c == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated comment at offset %d", ErrSyntax, start)
			}
			i += end + 1
			toks = append(toks, Token{CommentToken, text[start+1 : i-1], start, i})

		case c == ';':
			i = lineEnd(text, i)
			toks = append(toks, Token{LineCommentToken, text[start+1 : i], start, i})

		case c == '(':
			i++
			toks = append(toks, Token{VariationStartToken, "(", start, i})

		case c == ')':
			i++
			toks = append(toks, Token{VariationEndToken, ")", start, i})

		case c == '$':
			i++
			for i < len(text) && isDigit(text[i]) {
				i++
			}
			if i == start+1 {
				return nil, fmt.Errorf("%w: empty glyph at offset %d", ErrSyntax, start)
			}
			toks = append(toks, Token{NAGToken, text[start:i], start, i})

		case c == '!' || c == '?':
			for i < len(text) && (text[i] == '!' || text[i] == '?') {
				i++
			}
			toks = append(toks, Token{SuffixToken, text[start:i], start, i})

		case c == '.':
			// Stray dots, as in "12 ... e5".
			for i < len(text) && text[i] == '.' {
				i++
			}

		case c == '*':
			i++
			toks = append(toks, Token{ResultToken, "*", start, i})

		case strings.HasPrefix(text[i:], enPassant):
			// The optional en passant marker carries nothing SAN lacks.
			i += len(enPassant)

		default:
			if isDigit(c) {
				j := i
				for j < len(text) && isDigit(text[j]) {
					j++
				}
				if j < len(text) && text[j] == '.' {
					num := text[i:j]
					for j < len(text) && text[j] == '.' {
						j++
					}
					i = j
					toks = append(toks, Token{MoveNumberToken, num, start, i})
					break
				}
			}
			for i < len(text) && isWordByte(text[i]) {
				if i > start && strings.HasPrefix(text[i:], enPassant) {
					break
				}
				i++
			}
			if i == start {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, c, start)
			}
			word := text[start:i]
			kind := MoveToken
			if isResult(word) {
				kind = ResultToken
			}
			toks = append(toks, Token{kind, word, start, i})
		}
		lineStart = false
	}
	return toks, nil
}

// tagEnd returns the offset of the ']' closing the tag opened at i, skipping
// brackets inside the quoted value, or -1.
func tagEnd(text string, i int) int {
	quoted := false
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			if quoted {
				j++
			}
		case '"':
			quoted = !quoted
		case ']':
			if !quoted {
				return j
			}
		case '\n':
			if !quoted {
				return -1
			}
		}
	}
	return -1
}

func lineEnd(text string, i int) int {
	if end := strings.IndexByte(text[i:], '\n'); end >= 0 {
		return i + end
	}
	return len(text)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', '\v',
		'{', '}', '(', ')', '[', ']', ';', '$', '!', '?', '.':
		return false
	}
	return c > ' ' && c < 0x7f
}

func isResult(s string) bool {
	switch s {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}
