package pgn

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/discochess/pgnswing/internal/annotation"
)

const twoGames = `[Event "Test 1"]
[White "Alpha"]
[Black "Beta"]
[Result "1-0"]

1. e4 {+0.30/12 5s} e5 {-0.25/11 4s} 2. Nf3 $1 {+0.40/13 6s}
Nc6 {+0.20/12 3s} (2... d6 {sideline}) 3. Bb5 1-0

[Event "Test 2"]
[White "Gamma"]
[Black "Delta"]
[Result "1/2-1/2"]

1. d4 { multi
[%clk 0:01:00] line } d5 1/2-1/2
`

func TestLex(t *testing.T) {
	toks, err := Lex(`[Event "x"] 12. e4!? $14 {c} (12... d5) 12...Nf6 ; rest
0-0 1/2-1/2`)
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}

	want := []struct {
		kind  TokenKind
		value string
	}{
		{TagToken, `Event "x"`},
		{MoveNumberToken, "12"},
		{MoveToken, "e4"},
		{SuffixToken, "!?"},
		{NAGToken, "$14"},
		{CommentToken, "c"},
		{VariationStartToken, "("},
		{MoveNumberToken, "12"},
		{MoveToken, "d5"},
		{VariationEndToken, ")"},
		{MoveNumberToken, "12"},
		{MoveToken, "Nf6"},
		{LineCommentToken, " rest"},
		{MoveToken, "0-0"},
		{ResultToken, "1/2-1/2"},
	}
	if len(toks) != len(want) {
		t.Fatalf("Lex() returned %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Value != w.value {
			t.Errorf("token %d = %s %q, want %s %q", i, toks[i].Kind, toks[i].Value, w.kind, w.value)
		}
	}
}

func TestLex_EnPassantMarker(t *testing.T) {
	for _, text := range []string{"5. exd6 e.p. Qxd6", "5. exd6e.p. Qxd6"} {
		t.Run(text, func(t *testing.T) {
			toks, err := Lex(text)
			if err != nil {
				t.Fatalf("Lex() error = %v", err)
			}
			var moves []string
			for _, tok := range toks {
				if tok.Kind == MoveToken {
					moves = append(moves, tok.Value)
				}
			}
			if strings.Join(moves, " ") != "exd6 Qxd6" {
				t.Errorf("moves = %q, want [exd6 Qxd6]", moves)
			}
		})
	}
}

func TestReplay_EnPassantMarker(t *testing.T) {
	g, err := Parse(`[Event "ep"]

1. e4 a6 2. e5 d5 3. exd6 e.p. {+1.00/10 1s} Qxd6 *`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mcs, err := g.MoveComments()
	if err != nil {
		t.Fatalf("MoveComments() error = %v", err)
	}
	if len(mcs) != 6 {
		t.Fatalf("len(MoveComments()) = %d, want 6", len(mcs))
	}
	if mcs[4].Text != "+1.00/10 1s" {
		t.Errorf("comment of exd6 = %q, want %q", mcs[4].Text, "+1.00/10 1s")
	}
}

func TestLex_Offsets(t *testing.T) {
	text := `1. e4 {a comment} $2 e5`
	toks, err := Lex(text)
	if err != nil {
		t.Fatalf("Lex() error = %v", err)
	}
	for _, tok := range toks {
		got := text[tok.Start:tok.End]
		switch tok.Kind {
		case CommentToken:
			if got != "{a comment}" {
				t.Errorf("comment span = %q, want %q", got, "{a comment}")
			}
		case NAGToken:
			if got != "$2" {
				t.Errorf("NAG span = %q, want %q", got, "$2")
			}
		}
	}
}

func TestLex_Errors(t *testing.T) {
	tests := []string{
		`1. e4 {open comment`,
		`[Event "x"`,
		`1. e4 $ e5`,
	}
	for _, text := range tests {
		if _, err := Lex(text); !errors.Is(err, ErrSyntax) {
			t.Errorf("Lex(%q) error = %v, want ErrSyntax", text, err)
		}
	}
}

func TestParse(t *testing.T) {
	g, err := Parse(`[Event "Cup"]
[White "A \"Quoted\" Name"]
[Result "0-1"]

{pre} 1. e4 {first} {second} e5 $2 (1... c5 {ignored}) 2. Nf3! 0-1`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := g.Tag("White"); got != `A "Quoted" Name` {
		t.Errorf("Tag(White) = %q, want %q", got, `A "Quoted" Name`)
	}
	if g.Comment != "pre" {
		t.Errorf("Comment = %q, want %q", g.Comment, "pre")
	}
	if len(g.Moves) != 3 {
		t.Fatalf("len(Moves) = %d, want 3", len(g.Moves))
	}
	if got := g.Moves[0].Comment(); got != "first second" {
		t.Errorf("Moves[0].Comment() = %q, want %q", got, "first second")
	}
	if got := g.Moves[1].NAGs; len(got) != 1 || got[0] != "$2" {
		t.Errorf("Moves[1].NAGs = %v, want [$2]", got)
	}
	if got := g.Moves[2].NAGs; len(got) != 1 || got[0] != "$1" {
		t.Errorf("Moves[2].NAGs = %v, want [$1]", got)
	}
	if g.Result != "0-1" {
		t.Errorf("Result = %q, want %q", g.Result, "0-1")
	}

	h := g.Headers()
	if h.Event != "Cup" || h.Result != "0-1" {
		t.Errorf("Headers() = %+v", h)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		`1. e4 e5 )`,
		`1. e4 (1. d4`,
		`( 1. e4 )`,
		`1. e4 [Event "late"]`,
		`[Event]`,
	}
	for _, text := range tests {
		if _, err := Parse(text); !errors.Is(err, ErrSyntax) {
			t.Errorf("Parse(%q) error = %v, want ErrSyntax", text, err)
		}
	}
}

func TestHeaders_ResultFallback(t *testing.T) {
	g, err := Parse(`1. e4 e5 1/2-1/2`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := g.Headers().Result; got != "1/2-1/2" {
		t.Errorf("Headers().Result = %q, want %q", got, "1/2-1/2")
	}

	g, err = Parse(`1. e4 e5`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := g.Headers().Result; got != "*" {
		t.Errorf("Headers().Result = %q, want %q", got, "*")
	}
}

func TestScanner(t *testing.T) {
	s := NewScanner(strings.NewReader(twoGames))

	var games []string
	for s.Scan() {
		games = append(games, s.Text())
		if s.Game() != len(games) {
			t.Errorf("Game() = %d, want %d", s.Game(), len(games))
		}
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("scanned %d games, want 2", len(games))
	}
	if !strings.HasPrefix(games[0], `[Event "Test 1"]`) {
		t.Errorf("game 1 starts with %q", firstLine(games[0]))
	}
	if !strings.HasPrefix(games[1], `[Event "Test 2"]`) {
		t.Errorf("game 2 starts with %q", firstLine(games[1]))
	}
	if !strings.Contains(games[1], "[%clk 0:01:00] line }") {
		t.Errorf("game 2 lost its multi-line comment: %q", games[1])
	}
}

func TestScanner_Empty(t *testing.T) {
	s := NewScanner(strings.NewReader("\n\n  \n"))
	if s.Scan() {
		t.Errorf("Scan() = true on blank input, text %q", s.Text())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil", s.Err())
	}
}

func TestScanner_BraceInTagValue(t *testing.T) {
	input := `[Event "Blitz {online"]
[Site "a \"quoted\" {site"]

1. e4 e5 *

[Event "Second"]

1. d4 d5 *
`
	s := NewScanner(strings.NewReader(input))
	var games []string
	for s.Scan() {
		games = append(games, s.Text())
	}
	if len(games) != 2 {
		t.Fatalf("scanned %d games, want 2", len(games))
	}
	for i, text := range games {
		if _, err := Parse(text); err != nil {
			t.Errorf("Parse(game %d) error = %v", i+1, err)
		}
	}
	if !strings.HasPrefix(games[1], `[Event "Second"]`) {
		t.Errorf("game 2 starts with %q", firstLine(games[1]))
	}
}

func TestCommentOpen(t *testing.T) {
	tests := []struct {
		line string
		open bool
		want bool
	}{
		{`1. e4 { start`, false, true},
		{`end } 2. d4`, true, false},
		{`[Event "Blitz {online"]`, false, false},
		{`[Site "a \"{\" b"]`, false, false},
		{`1. e4 ; {ignored`, false, false},
		{`"unterminated {`, false, false},
	}
	for _, tt := range tests {
		if got := commentOpen(tt.line, tt.open); got != tt.want {
			t.Errorf("commentOpen(%q, %v) = %v, want %v", tt.line, tt.open, got, tt.want)
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func TestMoveComments(t *testing.T) {
	g, err := Parse(`[Event "x"]

1. e4 {+0.30/12 5s} e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# {mate} 1-0`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mcs, err := g.MoveComments()
	if err != nil {
		t.Fatalf("MoveComments() error = %v", err)
	}
	if len(mcs) != 7 {
		t.Fatalf("len(MoveComments()) = %d, want 7", len(mcs))
	}

	want := []annotation.MoveComment{
		{Ply: 0, Side: annotation.White, FullMove: 1, Text: "+0.30/12 5s"},
		{Ply: 1, Side: annotation.Black, FullMove: 1},
		{Ply: 2, Side: annotation.White, FullMove: 2},
		{Ply: 3, Side: annotation.Black, FullMove: 2},
		{Ply: 4, Side: annotation.White, FullMove: 3},
		{Ply: 5, Side: annotation.Black, FullMove: 3},
		{Ply: 6, Side: annotation.White, FullMove: 4, Text: "mate", GivesCheck: true},
	}
	for i, w := range want {
		if mcs[i] != w {
			t.Errorf("MoveComments()[%d] = %+v, want %+v", i, mcs[i], w)
		}
	}
}

func TestMoveComments_BlackToMoveFEN(t *testing.T) {
	g, err := Parse(`[FEN "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 7"]

7... e5 8. Nf3 *`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	mcs, err := g.MoveComments()
	if err != nil {
		t.Fatalf("MoveComments() error = %v", err)
	}
	if len(mcs) != 2 {
		t.Fatalf("len(MoveComments()) = %d, want 2", len(mcs))
	}
	if mcs[0].Side != annotation.Black || mcs[0].FullMove != 7 {
		t.Errorf("first move = %+v, want black at move 7", mcs[0])
	}
	if mcs[1].Side != annotation.White || mcs[1].FullMove != 8 {
		t.Errorf("second move = %+v, want white at move 8", mcs[1])
	}
}

func TestReplay_IllegalMove(t *testing.T) {
	g, err := Parse(`1. e4 e5 2. Ke2 Ke7 3. Qxf7 *`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = g.Replay()
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Replay() error = %v, want ErrIllegalMove", err)
	}
	var me *MoveError
	if !errors.As(err, &me) {
		t.Fatalf("Replay() error = %T, want *MoveError", err)
	}
	if me.Ply != 4 || me.SAN != "Qxf7" {
		t.Errorf("MoveError = %+v, want ply 4 Qxf7", me)
	}
}

func TestDecodeSAN(t *testing.T) {
	pos := chess.StartingPosition()
	tests := []struct {
		san  string
		want string
	}{
		{"e4", "e2e4"},
		{"Nf3", "g1f3"},
		{"Ngf3", "g1f3"},
		{"Ng1f3", "g1f3"},
		{"Nf3+", "g1f3"},
		{"e2e4", "e2e4"},
		{"e4!?", "e2e4"},
	}
	for _, tt := range tests {
		m, err := DecodeSAN(pos, tt.san)
		if err != nil {
			t.Errorf("DecodeSAN(%q) error = %v", tt.san, err)
			continue
		}
		if got := m.String(); got != tt.want {
			t.Errorf("DecodeSAN(%q) = %s, want %s", tt.san, got, tt.want)
		}
	}

	for _, san := range []string{"e5", "Nf6", "--", "", "O-O"} {
		if _, err := DecodeSAN(pos, san); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("DecodeSAN(%q) error = %v, want ErrIllegalMove", san, err)
		}
	}
}

func TestNormalizeSAN(t *testing.T) {
	tests := map[string]string{
		"0-0":    "O-O",
		"0-0-0+": "O-O-O",
		"e8Q":    "e8=Q",
		"e8=Q#":  "e8=Q",
		"Nf3!?":  "Nf3",
	}
	for in, want := range tests {
		if got := normalizeSAN(in); got != want {
			t.Errorf("normalizeSAN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWrite(t *testing.T) {
	g := &Game{
		Tags: []Tag{{"Event", "Cup"}, {"White", `A "B"`}, {"Result", "1-0"}},
		Moves: []Move{
			{SAN: "e4", Comments: []string{"+0.30/12 5s"}},
			{SAN: "e5", NAGs: []string{"$2"}},
			{SAN: "Nf3"},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := `[Event "Cup"]
[White "A \"B\""]
[Result "1-0"]

1. e4 {+0.30/12 5s} 1... e5 $2 2. Nf3 1-0

`
	if got := buf.String(); got != want {
		t.Errorf("Write() =\n%s\nwant\n%s", got, want)
	}
}

func TestWrite_BlackFirst(t *testing.T) {
	g := &Game{
		Tags:  []Tag{{"FEN", "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 7"}},
		Moves: []Move{{SAN: "e5"}, {SAN: "Nf3"}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "7... e5 8. Nf3 *") {
		t.Errorf("Write() = %q, want movetext %q", buf.String(), "7... e5 8. Nf3 *")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	s := NewScanner(strings.NewReader(twoGames))
	if !s.Scan() {
		t.Fatalf("Scan() = false, err %v", s.Err())
	}
	g, err := Parse(s.Text())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	again, err := Parse(buf.String())
	if err != nil {
		t.Fatalf("Parse(Write()) error = %v", err)
	}
	if len(again.Moves) != len(g.Moves) {
		t.Fatalf("round trip moves = %d, want %d", len(again.Moves), len(g.Moves))
	}
	for i := range g.Moves {
		if again.Moves[i].SAN != g.Moves[i].SAN || again.Moves[i].Comment() != g.Moves[i].Comment() {
			t.Errorf("move %d = %+v, want %+v", i, again.Moves[i], g.Moves[i])
		}
	}
}
