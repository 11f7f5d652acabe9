package settlement

import "github.com/ryoha000/traQ-bookmaker/internal/bet"

// ComputePayouts splits the total pool across the bets on the winning outcome,
// proportional to stake: payout = floor(stake * totalPool / winnerPool).
// Losing bets get no entry. Flooring means the credited total can fall short
// of the pool; that slippage is accepted.
//
// The multiplier here (totalPool / winnerPool) is the settlement rate. It is
// distinct from the per-outcome display rate in wager.PoolStat and the two
// must never be conflated.
func ComputePayouts(bets []bet.Bet, winnerOutcomeID string) (payouts map[string]int, totalPool, winnerPool int) {
	payouts = make(map[string]int)

	for _, b := range bets {
		totalPool += b.Amount
		if b.OutcomeID == winnerOutcomeID {
			winnerPool += b.Amount
		}
	}

	if winnerPool == 0 {
		return payouts, totalPool, winnerPool
	}

	for _, b := range bets {
		if b.OutcomeID != winnerOutcomeID {
			continue
		}
		// int64 intermediate so stake*pool cannot overflow.
		payouts[b.ParticipantID] = int(int64(b.Amount) * int64(totalPool) / int64(winnerPool))
	}

	return payouts, totalPool, winnerPool
}
