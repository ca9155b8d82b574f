package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/discochess/pgnswing"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0")).
			Bold(true).
			Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	goodStyle    = numberStyle.Foreground(lipgloss.Color("#5FAF5F"))
	badStyle     = numberStyle.Foreground(lipgloss.Color("#D75F5F"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
)

// writePretty writes a bordered, colored table for terminals. Evaluation
// cells are green when positive and red when negative.
func writePretty(w io.Writer, rep *pgnswing.Report, o *options) error {
	rows := Rows(rep)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 || col == 2:
				return cellStyle
			case isEvalColumn(col) && row >= 0 && row < len(rows):
				return evalStyle(rows[row][col])
			}
			return numberStyle
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")

	if o.errors {
		for _, ge := range rep.Errors {
			b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", ge)))
			b.WriteString("\n")
		}
	}
	if o.statistics {
		st := Compute(rep)
		b.WriteString(captionStyle.Render(fmt.Sprintf(
			"swing mean White %.2f Black %.2f, Mann-Whitney p=%.4f, Cohen's d %.2f (%s)",
			st.White.Mean, st.Black.Mean, st.MannWhitney.PValue, st.EffectSize.CohensD, st.EffectSize.Interpretation)))
		b.WriteString("\n")
	}
	b.WriteString(captionStyle.Render(fmt.Sprintf("%d games, %d analyzed, %d failed",
		rep.Games, len(rep.Summaries), len(rep.Errors))))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// isEvalColumn reports whether col holds an evaluation (WMaxEval, WMinEval,
// BMaxEval, BMinEval).
func isEvalColumn(col int) bool {
	return col >= 5 && col%2 == 1
}

func evalStyle(cell string) lipgloss.Style {
	switch {
	case cell == "-" || cell == "0.00":
		return numberStyle
	case strings.HasPrefix(cell, "-"):
		return badStyle
	}
	return goodStyle
}
