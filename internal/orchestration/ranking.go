package orchestration

import (
	"sort"

	"github.com/agbru/cojoin/internal/stats"
)

// Ranking is one row of the final summary.
type Ranking struct {
	Rank      int
	Name      string
	Aggregate stats.Aggregate
}

// Rank orders the named strategies by total skew, lowest first, breaking
// ties on max skew and then on run order. Strategies without trials sort
// last.
func Rank(acc *stats.Accumulator, names []string) []Ranking {
	rows := make([]Ranking, len(names))
	for i, n := range names {
		rows[i] = Ranking{Name: n, Aggregate: acc.Snapshot(n)}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Aggregate, rows[j].Aggregate
		if (a.Trials == 0) != (b.Trials == 0) {
			return a.Trials != 0
		}
		if a.Total != b.Total {
			return a.Total < b.Total
		}
		return a.Max < b.Max
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
