package settlement

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ryoha000/traQ-bookmaker/internal/apperr"
	"github.com/ryoha000/traQ-bookmaker/internal/bet"
	"github.com/ryoha000/traQ-bookmaker/internal/participant"
)

// Entry is one bettor's settlement line: the net change and resulting balance
// reported back to the channel. Losers have Payout 0 and Net == -Stake; their
// stake was already debited at placement time, so no balance write happens for
// them here.
type Entry struct {
	ParticipantID string
	TraqID        string
	TraqDisplayID string
	OutcomeID     string
	Stake         int
	Payout        int
	Net           int
	Balance       int
	Won           bool
}

type Result struct {
	WagerID      string
	Title        string
	ChannelID    string
	MessageID    *string
	WinnerName   string
	TotalPool    int
	WinnerPool   int
	TotalPaidOut int
	Entries      []Entry
}

// Engine performs wager settlement. Setting the winner and crediting the
// winners happen in one transaction, so an interrupted finish never leaves a
// settled wager with unpaid winners.
type Engine struct {
	db *sqlx.DB
}

func NewEngine(database *sqlx.DB) *Engine {
	return &Engine{db: database}
}

type wagerRow struct {
	ID              string  `db:"id"`
	Title           string  `db:"title"`
	ChannelID       string  `db:"channel_id"`
	MessageID       *string `db:"message_id"`
	WinnerOutcomeID *string `db:"winner_outcome_id"`
}

func (e *Engine) Settle(ctx context.Context, channelID, winnerName string) (*Result, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Unexpected("begin settlement", err)
	}
	defer tx.Rollback()

	var w wagerRow
	err = tx.GetContext(ctx, &w,
		`SELECT id, title, channel_id, message_id, winner_outcome_id
		 FROM wagers
		 WHERE channel_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 FOR UPDATE`,
		channelID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(apperr.KindWager)
		}
		return nil, apperr.Unexpected("find wager for settlement", err)
	}
	if w.WinnerOutcomeID != nil {
		return nil, apperr.Conflict("winner is already set for this wager")
	}

	var winnerOutcomeID string
	err = tx.GetContext(ctx, &winnerOutcomeID,
		`SELECT id FROM outcomes WHERE wager_id = $1 AND name = $2`,
		w.ID, winnerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(apperr.KindOutcome)
		}
		return nil, apperr.Unexpected("find winning outcome", err)
	}

	var bets []bet.Bet
	err = tx.SelectContext(ctx, &bets,
		`SELECT id, participant_id, wager_id, outcome_id, amount
		 FROM bets
		 WHERE wager_id = $1`,
		w.ID,
	)
	if err != nil {
		return nil, apperr.Unexpected("list bets for settlement", err)
	}

	var participants []participant.Participant
	err = tx.SelectContext(ctx, &participants,
		`SELECT id, traq_id, traq_display_id, channel_id, balance
		 FROM participants
		 WHERE channel_id = $1
		 FOR UPDATE`,
		channelID,
	)
	if err != nil {
		return nil, apperr.Unexpected("list participants for settlement", err)
	}
	balances := make(map[string]*participant.Participant, len(participants))
	for i := range participants {
		balances[participants[i].ID] = &participants[i]
	}

	payouts, totalPool, winnerPool := ComputePayouts(bets, winnerOutcomeID)

	if _, err := tx.ExecContext(ctx,
		`UPDATE wagers SET winner_outcome_id = $1 WHERE id = $2`,
		winnerOutcomeID, w.ID,
	); err != nil {
		return nil, apperr.Unexpected("set winner", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE outcomes SET is_winner = TRUE WHERE id = $1`,
		winnerOutcomeID,
	); err != nil {
		return nil, apperr.Unexpected("flag winning outcome", err)
	}

	result := &Result{
		WagerID:    w.ID,
		Title:      w.Title,
		ChannelID:  w.ChannelID,
		MessageID:  w.MessageID,
		WinnerName: winnerName,
		TotalPool:  totalPool,
		WinnerPool: winnerPool,
	}

	var credits []participant.BalanceUpdate
	for _, b := range bets {
		p, ok := balances[b.ParticipantID]
		if !ok {
			return nil, apperr.Unexpected("settlement", errors.New("bet without participant row"))
		}

		entry := Entry{
			ParticipantID: p.ID,
			TraqID:        p.TraqID,
			TraqDisplayID: p.TraqDisplayID,
			OutcomeID:     b.OutcomeID,
			Stake:         b.Amount,
			Net:           -b.Amount,
			Balance:       p.Balance,
		}

		if payout, won := payouts[b.ParticipantID]; won {
			newBalance := p.Balance + payout
			credits = append(credits, participant.BalanceUpdate{
				ParticipantID: p.ID,
				Balance:       newBalance,
			})
			entry.Payout = payout
			entry.Net = payout - b.Amount
			entry.Balance = newBalance
			entry.Won = true
			result.TotalPaidOut += payout
		}

		result.Entries = append(result.Entries, entry)
	}

	if err := participant.ApplyBalanceUpdates(ctx, tx, credits); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Unexpected("commit settlement", err)
	}

	return result, nil
}
