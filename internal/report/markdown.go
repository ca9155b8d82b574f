package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/discochess/pgnswing"
)

// MarkdownReport writes swing reports in Markdown format.
type MarkdownReport struct {
	w io.Writer
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string, rep *pgnswing.Report) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "- **Games read:** %d\n", rep.Games)
	fmt.Fprintf(r.w, "- **Games analyzed:** %d\n", len(rep.Summaries))
	fmt.Fprintf(r.w, "- **Games failed:** %d\n", len(rep.Errors))
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes the swing table.
func (r *MarkdownReport) WriteSummaryTable(rep *pgnswing.Report) {
	fmt.Fprintln(r.w, "## Swings")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| "+strings.Join(Columns, " | ")+" |")
	seps := make([]string, len(Columns))
	for i, c := range Columns {
		seps[i] = strings.Repeat("-", max(len(c), 3))
		if i != 1 && i != 2 {
			seps[i] = seps[i][1:] + ":"
		}
	}
	fmt.Fprintln(r.w, "|"+strings.Join(seps, "|")+"|")

	for _, row := range Rows(rep) {
		for i := range row {
			row[i] = escapeCell(row[i])
		}
		fmt.Fprintln(r.w, "| "+strings.Join(row, " | ")+" |")
	}
	fmt.Fprintln(r.w)
}

// WriteErrors lists the games that could not be analyzed.
func (r *MarkdownReport) WriteErrors(rep *pgnswing.Report) {
	if len(rep.Errors) == 0 {
		return
	}
	fmt.Fprintln(r.w, "## Errors")
	fmt.Fprintln(r.w)
	for _, ge := range rep.Errors {
		fmt.Fprintf(r.w, "- game %d: `%v`\n", ge.Game, ge.Err)
	}
	fmt.Fprintln(r.w)
}

// WriteStatistics writes the White and Black swing statistics.
func (r *MarkdownReport) WriteStatistics(st *Statistics) {
	fmt.Fprintln(r.w, "## Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Metric | White | Black |")
	fmt.Fprintln(r.w, "|--------|------:|------:|")
	fmt.Fprintf(r.w, "| N | %d | %d |\n", st.White.N, st.Black.N)
	fmt.Fprintf(r.w, "| Mean | %.2f | %.2f |\n", st.White.Mean, st.Black.Mean)
	fmt.Fprintf(r.w, "| Median | %.2f | %.2f |\n", st.White.Median, st.Black.Median)
	fmt.Fprintf(r.w, "| Std Dev | %.2f | %.2f |\n", st.White.StdDev, st.Black.StdDev)
	fmt.Fprintf(r.w, "| Min | %.2f | %.2f |\n", st.White.Min, st.Black.Min)
	fmt.Fprintf(r.w, "| Max | %.2f | %.2f |\n", st.White.Max, st.Black.Max)
	fmt.Fprintln(r.w)

	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		st.MannWhitney.U, st.MannWhitney.Z, st.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		st.EffectSize.CohensD, st.EffectSize.Interpretation)
	if st.MannWhitney.Significant {
		fmt.Fprintln(r.w, "- White and Black swings differ significantly (p < 0.05).")
	} else {
		fmt.Fprintln(r.w, "- No significant difference between White and Black swings (p >= 0.05).")
	}
	fmt.Fprintln(r.w)
}

// WriteDistributionChart writes an ASCII histogram of swing sizes.
func (r *MarkdownReport) WriteDistributionChart(name string, data []float64, buckets int) {
	fmt.Fprintf(r.w, "### %s Distribution\n\n", name)
	fmt.Fprintln(r.w, "```")

	counts, lo, width := histogram(data, buckets)
	maxCount := 0
	for _, count := range counts {
		maxCount = max(maxCount, count)
	}

	const barWidth = 40
	for i, count := range counts {
		barLen := 0
		if maxCount > 0 {
			barLen = count * barWidth / maxCount
		}
		from := lo + float64(i)*width
		fmt.Fprintf(r.w, "%6.2f-%6.2f │ %s %d\n", from, from+width, strings.Repeat("█", barLen), count)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

func writeMarkdown(w io.Writer, rep *pgnswing.Report, o *options) error {
	bw := bufio.NewWriter(w)
	r := NewMarkdownReport(bw)

	r.WriteHeader(o.title, rep)
	r.WriteSummaryTable(rep)
	if o.errors {
		r.WriteErrors(rep)
	}
	if o.statistics {
		r.WriteStatistics(Compute(rep))
	}
	if o.histogram > 0 {
		white, black := swings(rep.Summaries)
		r.WriteDistributionChart("White swing", white, o.histogram)
		r.WriteDistributionChart("Black swing", black, o.histogram)
	}
	return bw.Flush()
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
