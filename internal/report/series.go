package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/discochess/pgnswing"
)

// SeriesOptions controls series export.
type SeriesOptions struct {
	// WhitePOV renders Black's curve from White's side, so both curves
	// share one sign convention.
	WhitePOV bool

	// FromMove and ToMove bound the exported full-move numbers.
	// Zero leaves a bound open.
	FromMove int
	ToMove   int
}

// SeriesRow is one full move of a game with both sides aligned.
type SeriesRow struct {
	Move         int
	WhiteEval    *float64
	BlackEval    *float64
	WhiteSeconds float64
	BlackSeconds float64
}

// Align pairs White's and Black's points by full-move number. A side with
// no move on a row, as White on the first row of a game starting with Black
// to move, or Black after White's last move, repeats its last evaluation
// with a think time of 0; before its first move it has no evaluation.
func Align(res *pgnswing.GameResult, opts SeriesOptions) []SeriesRow {
	first, last, ok := moveRange(res.White, res.Black)
	if !ok {
		return nil
	}
	rows := make([]SeriesRow, 0, last-first+1)

	var (
		wi, bi               int
		lastWhite, lastBlack *float64
	)
	for move := first; move <= last; move++ {
		row := SeriesRow{Move: move}
		if wi < len(res.White) && res.White[wi].Move == move {
			p := res.White[wi]
			row.WhiteEval, row.WhiteSeconds = p.Eval, p.Seconds
			lastWhite = p.Eval
			wi++
		} else {
			row.WhiteEval = lastWhite
		}
		if bi < len(res.Black) && res.Black[bi].Move == move {
			p := res.Black[bi]
			row.BlackEval, row.BlackSeconds = p.Eval, p.Seconds
			lastBlack = p.Eval
			bi++
		} else {
			row.BlackEval = lastBlack
		}
		if opts.WhitePOV && row.BlackEval != nil {
			v := -*row.BlackEval
			row.BlackEval = &v
		}

		if opts.FromMove > 0 && move < opts.FromMove {
			continue
		}
		if opts.ToMove > 0 && move > opts.ToMove {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// moveRange returns the first and last full-move number of either side.
func moveRange(white, black []pgnswing.Point) (first, last int, ok bool) {
	for _, side := range [][]pgnswing.Point{white, black} {
		if len(side) == 0 {
			continue
		}
		lo, hi := side[0].Move, side[len(side)-1].Move
		if !ok || lo < first {
			first = lo
		}
		if !ok || hi > last {
			last = hi
		}
		ok = true
	}
	return first, last, ok
}

// SeriesCSV streams aligned series as CSV, one row per game and move.
type SeriesCSV struct {
	w      *csv.Writer
	opts   SeriesOptions
	header bool
}

// NewSeriesCSV creates a CSV series writer.
func NewSeriesCSV(w io.Writer, opts SeriesOptions) *SeriesCSV {
	return &SeriesCSV{w: csv.NewWriter(w), opts: opts}
}

// Write appends the rows of one game. Failed games are skipped.
func (s *SeriesCSV) Write(res *pgnswing.GameResult) error {
	if res.Err != nil {
		return nil
	}
	if !s.header {
		s.header = true
		if err := s.w.Write([]string{"game", "date", "round", "move", "white_eval", "black_eval", "white_seconds", "black_seconds"}); err != nil {
			return err
		}
	}

	game := strconv.Itoa(res.Summary.Game)
	for _, row := range Align(res, s.opts) {
		err := s.w.Write([]string{
			game,
			res.Summary.Date,
			res.Summary.Round,
			strconv.Itoa(row.Move),
			formatEval(row.WhiteEval),
			formatEval(row.BlackEval),
			strconv.FormatFloat(row.WhiteSeconds, 'f', -1, 64),
			strconv.FormatFloat(row.BlackSeconds, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (s *SeriesCSV) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

func formatEval(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// SeriesJSON streams aligned series as JSON Lines, one object per game.
type SeriesJSON struct {
	enc  *json.Encoder
	opts SeriesOptions
}

type jsonSeries struct {
	Game         int        `json:"game"`
	Event        string     `json:"event,omitempty"`
	Date         string     `json:"date,omitempty"`
	Round        string     `json:"round,omitempty"`
	White        string     `json:"white"`
	Black        string     `json:"black"`
	Result       string     `json:"result"`
	Moves        []int      `json:"moves"`
	WhiteEval    []*float64 `json:"white_eval"`
	BlackEval    []*float64 `json:"black_eval"`
	WhiteSeconds []float64  `json:"white_seconds"`
	BlackSeconds []float64  `json:"black_seconds"`
}

// NewSeriesJSON creates a JSON Lines series writer.
func NewSeriesJSON(w io.Writer, opts SeriesOptions) *SeriesJSON {
	return &SeriesJSON{enc: json.NewEncoder(w), opts: opts}
}

// Write encodes one game. Failed games are skipped.
func (s *SeriesJSON) Write(res *pgnswing.GameResult) error {
	if res.Err != nil {
		return nil
	}
	rows := Align(res, s.opts)
	out := jsonSeries{
		Game:         res.Summary.Game,
		Event:        res.Summary.Event,
		Date:         res.Summary.Date,
		Round:        res.Summary.Round,
		White:        res.Summary.White,
		Black:        res.Summary.Black,
		Result:       res.Summary.Result,
		Moves:        make([]int, len(rows)),
		WhiteEval:    make([]*float64, len(rows)),
		BlackEval:    make([]*float64, len(rows)),
		WhiteSeconds: make([]float64, len(rows)),
		BlackSeconds: make([]float64, len(rows)),
	}
	for i, row := range rows {
		out.Moves[i] = row.Move
		out.WhiteEval[i] = row.WhiteEval
		out.BlackEval[i] = row.BlackEval
		out.WhiteSeconds[i] = row.WhiteSeconds
		out.BlackSeconds[i] = row.BlackSeconds
	}
	return s.enc.Encode(out)
}

// Flush is a no-op; every game is written as it is encoded.
func (s *SeriesJSON) Flush() error {
	return nil
}
