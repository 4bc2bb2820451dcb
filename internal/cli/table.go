package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agbru/cojoin/internal/format"
	"github.com/agbru/cojoin/internal/orchestration"
	"github.com/agbru/cojoin/internal/ui"
)

var rankingHeaders = []string{"#", "Strategy", "Max", "Max (ns)", "Total (ns)", "Mean (ns)", "Trials"}

// RenderRankingTable renders the final ranking, best strategy first, in
// the current theme.
func RenderRankingTable(rankings []orchestration.Ranking) string {
	theme := ui.GetCurrentTheme()

	rows := make([][]string, len(rankings))
	for i, r := range rankings {
		rows[i] = []string{
			strconv.Itoa(r.Rank),
			r.Name,
			format.FormatNanos(r.Aggregate.Max),
			format.FormatCount(r.Aggregate.Max),
			format.FormatCount(r.Aggregate.Total),
			format.FormatDecimal(r.Aggregate.Mean(), 1),
			format.FormatCount(r.Aggregate.Trials),
		}
	}

	base := lipgloss.NewStyle().Padding(0, 1)
	header := base.Foreground(theme.Header).Bold(true)
	best := base.Foreground(theme.Best)
	text := base.Foreground(theme.Row)
	dim := base.Foreground(theme.Idle)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(rankingHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			var s lipgloss.Style
			switch {
			case row == table.HeaderRow:
				return header
			case row == 0:
				s = best
			case row < len(rankings) && rankings[row].Aggregate.Trials == 0:
				s = dim
			default:
				s = text
			}
			if col >= 2 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	return t.String()
}
