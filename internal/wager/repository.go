package wager

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

// Create inserts the wager and all of its outcomes in one transaction. The
// one-unfinished-wager-per-channel invariant is checked inside the same
// transaction, with the existing row locked so concurrent opens serialize.
func (r *repository) Create(ctx context.Context, title, channelID string, outcomeNames []string) (*Wager, []Outcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, apperr.Unexpected("begin create wager", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.GetContext(ctx, &existing,
		`SELECT id FROM wagers
		 WHERE channel_id = $1 AND winner_outcome_id IS NULL
		 LIMIT 1
		 FOR UPDATE`,
		channelID,
	)
	if err == nil {
		return nil, nil, apperr.Conflict("an unfinished wager already exists in this channel")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, apperr.Unexpected("check active wager", err)
	}

	var w Wager
	err = tx.GetContext(ctx, &w,
		`INSERT INTO wagers (id, title, channel_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, channel_id, message_id, created_at, closed_at, winner_outcome_id`,
		uuid.NewString(), title, channelID, time.Now(),
	)
	if err != nil {
		// The guard above locks nothing when the channel has no unfinished
		// wager, so two concurrent opens can both pass it. The partial unique
		// index on (channel_id) WHERE winner_outcome_id IS NULL catches the
		// loser here.
		if db.IsUniqueViolation(err) {
			return nil, nil, apperr.Conflict("an unfinished wager already exists in this channel")
		}
		return nil, nil, apperr.Unexpected("insert wager", err)
	}

	outcomes := make([]Outcome, 0, len(outcomeNames))
	for _, name := range outcomeNames {
		var o Outcome
		err = tx.GetContext(ctx, &o,
			`INSERT INTO outcomes (id, name, wager_id)
			 VALUES ($1, $2, $3)
			 RETURNING id, name, wager_id, is_winner`,
			uuid.NewString(), name, w.ID,
		)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return nil, nil, apperr.Conflict("outcome names must be unique within a wager")
			}
			return nil, nil, apperr.Unexpected("insert outcome", err)
		}
		outcomes = append(outcomes, o)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, apperr.Unexpected("commit create wager", err)
	}

	return &w, outcomes, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Wager, error) {
	var w Wager
	err := r.db.GetContext(ctx, &w,
		`SELECT id, title, channel_id, message_id, created_at, closed_at, winner_outcome_id
		 FROM wagers
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(apperr.KindWager)
		}
		return nil, apperr.Unexpected("find wager", err)
	}

	return &w, nil
}

// Close stamps closed_at on the channel's most recent wager. A channel with no
// wagers and a wager that is already closed both surface as not found.
func (r *repository) Close(ctx context.Context, channelID string, closedAt time.Time) (*Wager, error) {
	var w Wager
	err := r.db.GetContext(ctx, &w,
		`UPDATE wagers SET closed_at = $2
		 WHERE id = (
			SELECT id FROM wagers
			WHERE channel_id = $1
			ORDER BY created_at DESC
			LIMIT 1
		 ) AND closed_at IS NULL
		 RETURNING id, title, channel_id, message_id, created_at, closed_at, winner_outcome_id`,
		channelID, closedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(apperr.KindWager)
		}
		return nil, apperr.Unexpected("close wager", err)
	}

	return &w, nil
}

// DeleteLatestUnfinished removes the channel's latest wager without a winner.
// Bets and outcomes are intentionally left in place; stakes are forfeit.
func (r *repository) DeleteLatestUnfinished(ctx context.Context, channelID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM wagers
		 WHERE id = (
			SELECT id FROM wagers
			WHERE channel_id = $1 AND winner_outcome_id IS NULL
			ORDER BY created_at DESC
			LIMIT 1
		 )`,
		channelID,
	)
	if err != nil {
		return apperr.Unexpected("delete wager", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Unexpected("delete wager", err)
	}
	if affected == 0 {
		return apperr.NotFound(apperr.KindWager)
	}

	return nil
}

func (r *repository) SetMessageID(ctx context.Context, wagerID, messageID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wagers SET message_id = $1 WHERE id = $2`,
		messageID, wagerID,
	)
	if err != nil {
		return apperr.Unexpected("set wager message", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Unexpected("set wager message", err)
	}
	if affected == 0 {
		return apperr.NotFound(apperr.KindWager)
	}

	return nil
}

func (r *repository) ListOutcomes(ctx context.Context, wagerID string) ([]Outcome, error) {
	var outcomes []Outcome
	err := r.db.SelectContext(ctx, &outcomes,
		`SELECT id, name, wager_id, is_winner
		 FROM outcomes
		 WHERE wager_id = $1
		 ORDER BY seq ASC`,
		wagerID,
	)
	if err != nil {
		return nil, apperr.Unexpected("list outcomes", err)
	}

	return outcomes, nil
}
