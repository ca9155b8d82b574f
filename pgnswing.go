// Package pgnswing summarizes the evaluation swings recorded in the move
// comments of PGN games.
//
// Example usage:
//
//	a, err := pgnswing.New(
//	    pgnswing.WithDialect("cutechess"),
//	    pgnswing.WithMinDepth(8),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := a.Analyze(ctx, f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range report.Summaries {
//	    fmt.Printf("%d %s-%s %s %s\n", s.Game, s.White, s.Black, s.Result, s.WhiteMax.EvalString())
//	}
package pgnswing

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/discochess/pgnswing/internal/annotation"
	"github.com/discochess/pgnswing/internal/pgn"
	"github.com/discochess/pgnswing/internal/series"
	"github.com/discochess/pgnswing/internal/stats"
	"github.com/discochess/pgnswing/internal/swing"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNoParser indicates a nil annotation parser was configured.
	ErrNoParser = errors.New("pgnswing: no annotation parser")

	// ErrMinDepth indicates a negative minimum depth.
	ErrMinDepth = errors.New("pgnswing: minimum depth must not be negative")
)

// maxLoggedText bounds the game text attached to failure logs.
const maxLoggedText = 2048

// Analyzer turns PGN streams into swing summaries. It reads one game at a
// time and is safe for concurrent use by multiple goroutines as long as each
// call has its own reader.
type Analyzer struct {
	parser   annotation.Parser
	minDepth int
	stats    stats.Collector
	logger   *zap.Logger
}

// New creates an Analyzer with the given options.
// Without options it reads Cutechess comments from the mover's point of view
// and trusts every depth.
func New(opts ...Option) (*Analyzer, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.minDepth < 0 {
		return nil, ErrMinDepth
	}

	p := cfg.parser
	if !cfg.explicitParser {
		d, err := annotation.ParseDialect(string(cfg.dialect))
		if err != nil {
			return nil, fmt.Errorf("pgnswing: %w", err)
		}
		p, err = annotation.NewParser(d, cfg.pov)
		if err != nil {
			return nil, fmt.Errorf("pgnswing: %w", err)
		}
	}
	if p == nil {
		return nil, ErrNoParser
	}

	a := &Analyzer{
		parser:   p,
		minDepth: cfg.minDepth,
		stats:    cfg.stats,
		logger:   cfg.logger,
	}

	a.logger.Debug("analyzer initialized",
		zap.String("dialect", string(p.Dialect())),
		zap.Stringer("pov", p.POV()),
		zap.Int("minDepth", a.minDepth),
	)

	return a, nil
}

// Dialect returns the annotation dialect the analyzer reads.
func (a *Analyzer) Dialect() annotation.Dialect {
	return a.parser.Dialect()
}

// Walk reads games from r and calls fn with each game's outcome, in stream
// order. A game that fails to parse is passed with Err set and does not stop
// the walk. Walk stops when fn returns an error, when ctx is done, or when r
// fails.
func (a *Analyzer) Walk(ctx context.Context, r io.Reader, fn func(*GameResult) error) error {
	s := pgn.NewScanner(r)
	for s.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := a.analyzeGame(s.Game(), s.Text())
		if err := fn(res); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("pgnswing: %w", err)
	}
	return nil
}

// Analyze reads every game from r and collects the summaries and per-game
// errors into a Report. The returned error is set only when the stream
// itself fails or ctx is done; per-game failures are in Report.Errors.
func (a *Analyzer) Analyze(ctx context.Context, r io.Reader) (*Report, error) {
	rep := &Report{}
	err := a.Walk(ctx, r, func(res *GameResult) error {
		rep.add(res)
		return nil
	})
	a.stats.SetGauge(stats.MetricReportGames, int64(rep.Games))
	return rep, err
}

// analyzeGame runs the pipeline for one game, recovering its errors.
func (a *Analyzer) analyzeGame(n int, text string) *GameResult {
	res, err := a.buildGame(n, text)
	if err == nil {
		a.observe(res)
		return res
	}

	sum := Summary{Game: n}
	if res != nil {
		sum = res.Summary
	}
	ge := &GameError{Game: n, White: sum.White, Black: sum.Black, Err: err}
	a.stats.IncCounter(stats.MetricGamesFailed, 1)
	a.logger.Warn("skipping game",
		zap.Int("game", n),
		zap.String("white", ge.White),
		zap.String("black", ge.Black),
		zap.String("text", truncate(text, maxLoggedText)),
		zap.Error(err),
	)
	return &GameResult{Summary: sum, Err: ge}
}

// buildGame parses, replays and summarizes one game. On failure after the
// headers are known it returns the partial result alongside the error.
func (a *Analyzer) buildGame(n int, text string) (*GameResult, error) {
	g, err := pgn.Parse(text)
	if err != nil {
		return nil, err
	}
	h := g.Headers()
	res := &GameResult{Summary: Summary{
		Game:   n,
		Event:  h.Event,
		Date:   h.Date,
		Round:  h.Round,
		White:  h.White,
		Black:  h.Black,
		Result: normalizeResult(h.Result),
	}}

	comments, err := g.MoveComments()
	if err != nil {
		return res, err
	}
	a.stats.IncCounter(stats.MetricComments, int64(len(comments)))

	sg, err := series.Build(comments, a.parser, series.Options{MinDepth: a.minDepth})
	if err != nil {
		return res, err
	}

	res.White = toPoints(sg.White)
	res.Black = toPoints(sg.Black)
	res.Summary.Plies = len(comments)
	res.Summary.fill(sg)
	return res, nil
}

func (a *Analyzer) observe(res *GameResult) {
	s := &res.Summary
	a.stats.IncCounter(stats.MetricGames, 1)
	a.stats.IncCounter(stats.MetricScoresAbsent, int64(s.Plies-s.WhiteScored-s.BlackScored))
	if s.WhiteSwing > 0 {
		a.stats.ObserveHistogram(stats.MetricSwing, s.WhiteSwing)
	}
	if s.BlackSwing > 0 {
		a.stats.ObserveHistogram(stats.MetricSwing, s.BlackSwing)
	}
	a.logger.Debug("game analyzed",
		zap.Int("game", s.Game),
		zap.String("white", s.White),
		zap.String("black", s.Black),
		zap.String("result", s.Result),
		zap.Int("plies", s.Plies),
	)
}

// fill computes the result-dependent extremes and the swing ranges.
func (s *Summary) fill(g series.Game) {
	w := swing.Summarize(g.White.Evals(), annotation.White, s.Result)
	b := swing.Summarize(g.Black.Evals(), annotation.Black, s.Result)
	s.WhiteMax, s.WhiteMin = toExtreme(w.Max), toExtreme(w.Min)
	s.BlackMax, s.BlackMin = toExtreme(b.Max), toExtreme(b.Min)

	s.WhiteScored = g.White.Present()
	s.BlackScored = g.Black.Present()
	if lo, hi, ok := g.White.Range(); ok {
		s.WhiteSwing = hi - lo
	}
	if lo, hi, ok := g.Black.Range(); ok {
		s.BlackSwing = hi - lo
	}
}

func toExtreme(e swing.Extreme) Extreme {
	return Extreme{Applicable: e.Applicable, Eval: e.Eval, Move: e.Move}
}

func toPoints(s series.Series) []Point {
	pts := make([]Point, len(s))
	for i, p := range s {
		pts[i] = Point{Move: p.Move, Eval: p.Eval, Seconds: p.Seconds}
	}
	return pts
}

// normalizeResult maps anything but a decisive result or a draw to "*".
func normalizeResult(r string) string {
	switch r {
	case swing.WhiteWins, swing.BlackWins, swing.Draw:
		return r
	}
	return swing.Unknown
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
