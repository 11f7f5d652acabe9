package bet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ryoha000/traQ-bookmaker/internal/apperr"
	"github.com/ryoha000/traQ-bookmaker/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

// PlaceForActiveWager records a stake against the channel's currently open
// wager. Wager, outcome and participant resolution, the balance check and both
// writes run in one transaction; any failure leaves ledger and balance
// untouched. The participant row is locked so concurrent stakes by the same
// user serialize on the balance check.
func (r *repository) PlaceForActiveWager(ctx context.Context, nb NewBet) (*Bet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Unexpected("begin place bet", err)
	}
	defer tx.Rollback()

	var wagerID string
	err = tx.GetContext(ctx, &wagerID,
		`SELECT id FROM wagers
		 WHERE channel_id = $1 AND closed_at IS NULL AND winner_outcome_id IS NULL
		 ORDER BY created_at DESC
		 LIMIT 1`,
		nb.ChannelID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(apperr.KindWager)
		}
		return nil, apperr.Unexpected("find open wager", err)
	}

	var outcomeID string
	err = tx.GetContext(ctx, &outcomeID,
		`SELECT id FROM outcomes WHERE wager_id = $1 AND name = $2`,
		wagerID, nb.OutcomeName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(apperr.KindOutcome)
		}
		return nil, apperr.Unexpected("find outcome", err)
	}

	var p struct {
		ID      string `db:"id"`
		Balance int    `db:"balance"`
	}
	err = tx.GetContext(ctx, &p,
		`SELECT id, balance FROM participants
		 WHERE traq_id = $1 AND channel_id = $2
		 FOR UPDATE`,
		nb.TraqID, nb.ChannelID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(apperr.KindParticipant)
		}
		return nil, apperr.Unexpected("find participant", err)
	}

	newBalance := p.Balance + ParticipationBonus - nb.Amount
	if newBalance < 0 {
		return nil, apperr.ErrInsufficientBalance
	}

	var b Bet
	err = tx.GetContext(ctx, &b,
		`INSERT INTO bets (id, participant_id, wager_id, outcome_id, amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, participant_id, wager_id, outcome_id, amount`,
		uuid.NewString(), p.ID, wagerID, outcomeID, nb.Amount,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflict("a bet is already placed on this wager")
		}
		return nil, apperr.Unexpected("insert bet", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE participants SET balance = $1 WHERE id = $2`,
		newBalance, p.ID,
	); err != nil {
		return nil, apperr.Unexpected("debit balance", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Unexpected("commit place bet", err)
	}

	return &b, nil
}

func (r *repository) ListByWager(ctx context.Context, wagerID string) ([]Bet, error) {
	var bets []Bet
	err := r.db.SelectContext(ctx, &bets,
		`SELECT id, participant_id, wager_id, outcome_id, amount
		 FROM bets
		 WHERE wager_id = $1`,
		wagerID,
	)
	if err != nil {
		return nil, apperr.Unexpected("list bets", err)
	}

	return bets, nil
}
