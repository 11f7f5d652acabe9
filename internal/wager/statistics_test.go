package wager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ryoha000/traQ-bookmaker/internal/bet"
)

func TestComputeStatistics_SumsAndSorts(t *testing.T) {
	outcomes := []Outcome{
		{ID: "o-a", Name: "A", WagerID: "w-1"},
		{ID: "o-b", Name: "B", WagerID: "w-1"},
	}
	bets := []bet.Bet{
		{ID: "b-1", ParticipantID: "p-1", WagerID: "w-1", OutcomeID: "o-a", Amount: 100},
		{ID: "b-2", ParticipantID: "p-2", WagerID: "w-1", OutcomeID: "o-a", Amount: 200},
		{ID: "b-3", ParticipantID: "p-3", WagerID: "w-1", OutcomeID: "o-a", Amount: 300},
		{ID: "b-4", ParticipantID: "p-4", WagerID: "w-1", OutcomeID: "o-b", Amount: 400},
		{ID: "b-5", ParticipantID: "p-5", WagerID: "w-1", OutcomeID: "o-b", Amount: 500},
	}

	stats := ComputeStatistics(outcomes, bets)
	require.Len(t, stats, 2)

	// B holds the larger pool, so it sorts first.
	require.Equal(t, "B", stats[0].Outcome.Name)
	require.Equal(t, 900, stats[0].Amount)
	require.InDelta(t, 450.0, stats[0].Rate, 1e-9)

	require.Equal(t, "A", stats[1].Outcome.Name)
	require.Equal(t, 600, stats[1].Amount)
	require.InDelta(t, 200.0, stats[1].Rate, 1e-9)

	require.Equal(t, 1500, TotalPool(stats))
}

func TestComputeStatistics_OutcomeWithoutBets(t *testing.T) {
	outcomes := []Outcome{
		{ID: "o-a", Name: "A", WagerID: "w-1"},
		{ID: "o-b", Name: "B", WagerID: "w-1"},
	}
	bets := []bet.Bet{
		{ID: "b-1", ParticipantID: "p-1", WagerID: "w-1", OutcomeID: "o-a", Amount: 100},
	}

	stats := ComputeStatistics(outcomes, bets)
	require.Len(t, stats, 2)

	require.Equal(t, "B", stats[1].Outcome.Name)
	require.Equal(t, 0, stats[1].Amount)
	require.Zero(t, stats[1].Rate)
	require.Empty(t, stats[1].Bets)
}

func TestComputeStatistics_TieKeepsInputOrder(t *testing.T) {
	outcomes := []Outcome{
		{ID: "o-a", Name: "A", WagerID: "w-1"},
		{ID: "o-b", Name: "B", WagerID: "w-1"},
		{ID: "o-c", Name: "C", WagerID: "w-1"},
	}
	bets := []bet.Bet{
		{ID: "b-1", ParticipantID: "p-1", WagerID: "w-1", OutcomeID: "o-a", Amount: 100},
		{ID: "b-2", ParticipantID: "p-2", WagerID: "w-1", OutcomeID: "o-c", Amount: 100},
	}

	stats := ComputeStatistics(outcomes, bets)
	require.Equal(t, "A", stats[0].Outcome.Name)
	require.Equal(t, "C", stats[1].Outcome.Name)
	require.Equal(t, "B", stats[2].Outcome.Name)
}

func TestComputeStatistics_NoBetsAtAll(t *testing.T) {
	outcomes := []Outcome{
		{ID: "o-a", Name: "A", WagerID: "w-1"},
		{ID: "o-b", Name: "B", WagerID: "w-1"},
	}

	stats := ComputeStatistics(outcomes, nil)
	require.Len(t, stats, 2)
	for _, s := range stats {
		require.Zero(t, s.Amount)
		require.Zero(t, s.Rate)
	}
	require.Zero(t, TotalPool(stats))
}
