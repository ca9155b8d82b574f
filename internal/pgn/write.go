package pgn

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/discochess/pgnswing/internal/fen"
)

const lineWidth = 80

// Write encodes g as PGN. Move numbers follow the FEN tag, so a game that
// starts with Black to move opens with "N...".
func Write(w io.Writer, g *Game) error {
	rec, err := fen.Parse(g.StartFEN())
	if err != nil {
		return fmt.Errorf("pgn: FEN tag: %w", err)
	}

	bw := bufio.NewWriter(w)
	for _, t := range g.Tags {
		fmt.Fprintf(bw, "[%s %s]\n", t.Name, quote(t.Value))
	}
	bw.WriteString("\n")

	lw := &lineWriter{w: bw}
	if g.Comment != "" {
		lw.word("{" + g.Comment + "}")
	}

	black := rec.Turn == "b"
	num := rec.FullMove
	needNumber := true
	for _, m := range g.Moves {
		switch {
		case !black:
			lw.word(strconv.Itoa(num) + ".")
		case needNumber:
			lw.word(strconv.Itoa(num) + "...")
		}
		lw.word(m.SAN)
		for _, n := range m.NAGs {
			lw.word(n)
		}
		for _, c := range m.Comments {
			lw.word("{" + c + "}")
		}
		needNumber = len(m.Comments) > 0
		if black {
			num++
		}
		black = !black
	}
	lw.word(g.outcome())
	bw.WriteString("\n\n")
	return bw.Flush()
}

// outcome is the termination marker written after the moves.
func (g *Game) outcome() string {
	if r := g.Tag("Result"); isResult(r) {
		return r
	}
	if g.Result != "" {
		return g.Result
	}
	return "*"
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// lineWriter joins words with spaces, wrapping before lineWidth.
type lineWriter struct {
	w   *bufio.Writer
	col int
}

func (l *lineWriter) word(s string) {
	switch {
	case l.col == 0:
	case l.col+1+len(s) > lineWidth:
		l.w.WriteString("\n")
		l.col = 0
	default:
		l.w.WriteString(" ")
		l.col++
	}
	l.w.WriteString(s)
	l.col += len(s)
}
