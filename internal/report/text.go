package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/discochess/pgnswing"
)

// maxNameWidth bounds the display width of player names in text tables.
const maxNameWidth = 24

// writeText writes an aligned plain-text table. Widths are display widths,
// so names in wide scripts line up.
func writeText(w io.Writer, rep *pgnswing.Report, o *options) error {
	bw := bufio.NewWriter(w)

	rows := Rows(rep)
	for _, row := range rows {
		row[1] = runewidth.Truncate(row[1], maxNameWidth, "…")
		row[2] = runewidth.Truncate(row[2], maxNameWidth, "…")
	}
	writeAligned(bw, Columns, rows)

	if o.errors && len(rep.Errors) > 0 {
		fmt.Fprintln(bw)
		for _, ge := range rep.Errors {
			fmt.Fprintf(bw, "error: %v\n", ge)
		}
	}

	if o.statistics {
		st := Compute(rep)
		fmt.Fprintln(bw)
		writeAligned(bw, []string{"Side", "N", "Mean", "Median", "StdDev", "Min", "Max"}, [][]string{
			statsRow("White", st.White),
			statsRow("Black", st.Black),
		})
		fmt.Fprintf(bw, "\nMann-Whitney U %.2f (p=%.4f), Cohen's d %.2f (%s)\n",
			st.MannWhitney.U, st.MannWhitney.PValue, st.EffectSize.CohensD, st.EffectSize.Interpretation)
	}

	fmt.Fprintf(bw, "\n%d games, %d analyzed, %d failed\n", rep.Games, len(rep.Summaries), len(rep.Errors))
	return bw.Flush()
}

func statsRow(side string, d *DescriptiveStats) []string {
	return []string{
		side,
		fmt.Sprintf("%d", d.N),
		fmt.Sprintf("%.2f", d.Mean),
		fmt.Sprintf("%.2f", d.Median),
		fmt.Sprintf("%.2f", d.StdDev),
		fmt.Sprintf("%.2f", d.Min),
		fmt.Sprintf("%.2f", d.Max),
	}
}

// writeAligned pads each column to its widest cell. Columns 1 and 2 (names)
// are left-aligned, the rest right-aligned.
func writeAligned(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == 1 || i == 2 {
				parts[i] = runewidth.FillRight(cell, widths[i])
			} else {
				parts[i] = runewidth.FillLeft(cell, widths[i])
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(header)
	for _, row := range rows {
		line(row)
	}
}
