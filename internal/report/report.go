// Package report renders swing reports as text, Markdown, JSON or a styled
// terminal table, and exports per-move evaluation series for plotting.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/discochess/pgnswing"
)

// Format selects a report rendering.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatPretty   Format = "pretty"
)

// ErrUnknownFormat is returned for format names ParseFormat does not know.
var ErrUnknownFormat = errors.New("report: unknown format")

// ParseFormat resolves a format name. "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatMarkdown, FormatJSON, FormatPretty:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Columns are the headings of the swing table.
var Columns = []string{
	"#", "White", "Black", "Res",
	"WMaxMove", "WMaxEval", "WMinMove", "WMinEval",
	"BMaxMove", "BMaxEval", "BMinMove", "BMinEval",
}

// Row formats one summary as the cells of the swing table.
func Row(s pgnswing.Summary) []string {
	return []string{
		strconv.Itoa(s.Game), s.White, s.Black, s.Result,
		s.WhiteMax.MoveString(), s.WhiteMax.EvalString(),
		s.WhiteMin.MoveString(), s.WhiteMin.EvalString(),
		s.BlackMax.MoveString(), s.BlackMax.EvalString(),
		s.BlackMin.MoveString(), s.BlackMin.EvalString(),
	}
}

// Rows formats every summary of the report.
func Rows(rep *pgnswing.Report) [][]string {
	rows := make([][]string, len(rep.Summaries))
	for i, s := range rep.Summaries {
		rows[i] = Row(s)
	}
	return rows
}

type options struct {
	title      string
	statistics bool
	errors     bool
	histogram  int
}

// Option configures Write.
type Option func(*options)

// WithTitle sets the heading of Markdown reports.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithStatistics appends swing statistics to the report.
func WithStatistics(enabled bool) Option {
	return func(o *options) {
		o.statistics = enabled
	}
}

// WithErrors lists the games that could not be analyzed after the table.
func WithErrors(enabled bool) Option {
	return func(o *options) {
		o.errors = enabled
	}
}

// WithHistogram sets the number of buckets of the Markdown swing
// distribution chart. Zero disables the chart.
func WithHistogram(buckets int) Option {
	return func(o *options) {
		o.histogram = buckets
	}
}

func newOptions(opts []Option) *options {
	o := &options{title: "Evaluation swings", errors: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write renders rep to w in format f.
func Write(w io.Writer, f Format, rep *pgnswing.Report, opts ...Option) error {
	o := newOptions(opts)
	switch f {
	case FormatText:
		return writeText(w, rep, o)
	case FormatMarkdown:
		return writeMarkdown(w, rep, o)
	case FormatJSON:
		return writeJSON(w, rep, o)
	case FormatPretty:
		return writePretty(w, rep, o)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
