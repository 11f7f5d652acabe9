package wager

import (
	"sort"

	"github.com/ryoha000/traQ-bookmaker/internal/bet"
)

// PoolStat is the open-pool display summary for one outcome. Rate is the mean
// stake per bettor on that outcome; it is a display figure only and is never
// the payout multiplier used at settlement.
type PoolStat struct {
	Outcome Outcome
	Amount  int
	Rate    float64
	Bets    []bet.Bet
}

// ComputeStatistics partitions bets by outcome and sums the staked amounts.
// Every outcome appears, including those with no bets (Amount 0, Rate 0).
// Results are ordered by Amount descending; ties keep the outcomes' input
// order.
func ComputeStatistics(outcomes []Outcome, bets []bet.Bet) []PoolStat {
	stats := make([]PoolStat, len(outcomes))
	index := make(map[string]int, len(outcomes))
	for i, o := range outcomes {
		stats[i] = PoolStat{Outcome: o}
		index[o.ID] = i
	}

	for _, b := range bets {
		i, ok := index[b.OutcomeID]
		if !ok {
			continue
		}
		stats[i].Amount += b.Amount
		stats[i].Bets = append(stats[i].Bets, b)
	}

	for i := range stats {
		if n := len(stats[i].Bets); n > 0 {
			stats[i].Rate = float64(stats[i].Amount) / float64(n)
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Amount > stats[j].Amount
	})

	return stats
}

// TotalPool sums all staked amounts across the given statistics.
func TotalPool(stats []PoolStat) int {
	total := 0
	for _, s := range stats {
		total += s.Amount
	}
	return total
}
