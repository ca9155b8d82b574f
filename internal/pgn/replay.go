package pgn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/discochess/pgnswing/internal/annotation"
	"github.com/discochess/pgnswing/internal/fen"
)

// ErrIllegalMove indicates a move that cannot be played in its position.
var ErrIllegalMove = errors.New("pgn: illegal move")

// MoveError reports the mainline move that failed to replay.
type MoveError struct {
	Ply int
	SAN string
	Err error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("pgn: ply %d %q: %v", e.Ply+1, e.SAN, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// Ply is one replayed mainline move.
type Ply struct {
	// Index is the 0-based half-move index.
	Index int

	Side     annotation.Side
	FullMove int

	// Before is the position the move was played from.
	Before *chess.Position
	Move   *chess.Move

	// Source is the parsed move, with its comments and glyphs.
	Source Move
}

// GivesCheck reports whether the move leaves the opponent in check.
func (p Ply) GivesCheck() bool {
	return p.Move.HasTag(chess.Check) || strings.ContainsAny(p.Source.SAN, "+#")
}

// StartFEN returns the initial position of the game.
func (g *Game) StartFEN() string {
	if f := strings.TrimSpace(g.Tag("FEN")); f != "" {
		return f
	}
	return fen.Start
}

// Replay plays the mainline on a board and returns every ply.
func (g *Game) Replay() ([]Ply, error) {
	start := g.StartFEN()
	rec, err := fen.Parse(start)
	if err != nil {
		return nil, fmt.Errorf("pgn: FEN tag %q: %w", start, err)
	}
	opt, err := chess.FEN(rec.String())
	if err != nil {
		return nil, fmt.Errorf("pgn: FEN tag %q: %w", start, err)
	}
	cg := chess.NewGame(opt)

	fullMove := rec.FullMove
	plies := make([]Ply, 0, len(g.Moves))
	for i, mv := range g.Moves {
		pos := cg.Position()
		m, err := DecodeSAN(pos, mv.SAN)
		if err != nil {
			return nil, &MoveError{Ply: i, SAN: mv.SAN, Err: err}
		}
		if err := cg.Move(m); err != nil {
			return nil, &MoveError{Ply: i, SAN: mv.SAN, Err: fmt.Errorf("%w: %v", ErrIllegalMove, err)}
		}

		side := annotation.White
		if pos.Turn() == chess.Black {
			side = annotation.Black
		}
		plies = append(plies, Ply{
			Index:    i,
			Side:     side,
			FullMove: fullMove,
			Before:   pos,
			Move:     m,
			Source:   mv,
		})
		if side == annotation.Black {
			fullMove++
		}
	}
	return plies, nil
}

// MoveComments replays the mainline and returns the comment of every move in
// play order. Moves without a comment carry empty text.
func (g *Game) MoveComments() ([]annotation.MoveComment, error) {
	plies, err := g.Replay()
	if err != nil {
		return nil, err
	}
	out := make([]annotation.MoveComment, len(plies))
	for i, p := range plies {
		out[i] = annotation.MoveComment{
			Ply:        p.Index,
			Side:       p.Side,
			FullMove:   p.FullMove,
			Text:       p.Source.Comment(),
			GivesCheck: p.GivesCheck(),
		}
	}
	return out, nil
}

// DecodeSAN finds the legal move written as san. It tolerates missing or
// extra check markers, zero castling, unneeded disambiguation and
// coordinate notation.
func DecodeSAN(pos *chess.Position, san string) (*chess.Move, error) {
	want := normalizeSAN(san)
	if want == "" || want == "--" {
		return nil, fmt.Errorf("%w: %q", ErrIllegalMove, san)
	}

	moves := pos.ValidMoves()
	for _, m := range moves {
		if normalizeSAN(chess.AlgebraicNotation{}.Encode(pos, m)) == want {
			return m, nil
		}
	}
	if m := looseMatch(pos, moves, want); m != nil {
		return m, nil
	}
	if m, err := (chess.UCINotation{}).Decode(pos, strings.ToLower(want)); err == nil {
		for _, v := range moves {
			if v.S1() == m.S1() && v.S2() == m.S2() && v.Promo() == m.Promo() {
				return v, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrIllegalMove, san)
}

func normalizeSAN(san string) string {
	s := strings.TrimRight(strings.TrimSpace(san), "+#!?")
	switch s {
	case "0-0", "o-o":
		return "O-O"
	case "0-0-0", "o-o-o":
		return "O-O-O"
	}
	// e8Q is written e8=Q.
	if n := len(s); n >= 3 && strings.ContainsRune("NBRQ", rune(s[n-1])) && isDigit(s[n-2]) {
		s = s[:n-1] + "=" + s[n-1:]
	}
	return s
}

var pieceLetters = map[byte]chess.PieceType{
	'N': chess.Knight,
	'B': chess.Bishop,
	'R': chess.Rook,
	'Q': chess.Queen,
	'K': chess.King,
}

// looseMatch resolves SAN that carries more disambiguation than needed,
// such as Ngf3 or Ng1f3. It returns nil unless exactly one move matches.
func looseMatch(pos *chess.Position, moves []*chess.Move, want string) *chess.Move {
	s := strings.ReplaceAll(want, "x", "")
	s = strings.ReplaceAll(s, "-", "")

	promo := chess.NoPieceType
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i+1 >= len(s) {
			return nil
		}
		p, ok := pieceLetters[s[i+1]]
		if !ok {
			return nil
		}
		promo = p
		s = s[:i]
	}
	if len(s) < 2 {
		return nil
	}

	piece := chess.Pawn
	if p, ok := pieceLetters[s[0]]; ok {
		piece = p
		s = s[1:]
	}
	if len(s) < 2 {
		return nil
	}
	dest, from := s[len(s)-2:], s[:len(s)-2]

	var found *chess.Move
	for _, m := range moves {
		uci := m.String()
		if uci[2:4] != dest || m.Promo() != promo {
			continue
		}
		if pos.Board().Piece(m.S1()).Type() != piece {
			continue
		}
		if !containsAll(uci[:2], from) {
			continue
		}
		if found != nil {
			return nil
		}
		found = m
	}
	return found
}

func containsAll(s, chars string) bool {
	for i := 0; i < len(chars); i++ {
		if strings.IndexByte(s, chars[i]) < 0 {
			return false
		}
	}
	return true
}
