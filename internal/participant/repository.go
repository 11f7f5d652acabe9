package participant

import (
	"context"

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

func (r *repository) Create(ctx context.Context, traqID, traqDisplayID, channelID string) (*Participant, error) {
	query := `
		INSERT INTO participants (id, traq_id, traq_display_id, channel_id, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, traq_id, traq_display_id, channel_id, balance
	`

	var p Participant
	err := r.db.GetContext(ctx, &p, query, uuid.NewString(), traqID, traqDisplayID, channelID, InitialBalance)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflict("participant already registered in this channel")
		}
		return nil, apperr.Unexpected("create participant", err)
	}

	return &p, nil
}

func (r *repository) ListByChannel(ctx context.Context, channelID string) ([]Participant, error) {
	query := `
		SELECT id, traq_id, traq_display_id, channel_id, balance
		FROM participants
		WHERE channel_id = $1
		ORDER BY balance DESC, traq_display_id ASC
	`

	var participants []Participant
	err := r.db.SelectContext(ctx, &participants, query, channelID)
	if err != nil {
		return nil, apperr.Unexpected("list participants", err)
	}

	return participants, nil
}

// ApplyBalanceUpdates overwrites balances with absolute values through the
// caller's execer. Settlement passes its own transaction here so the winner
// credits commit or roll back together with the winner declaration.
func ApplyBalanceUpdates(ctx context.Context, ex sqlx.ExecerContext, updates []BalanceUpdate) error {
	for _, u := range updates {
		res, err := ex.ExecContext(ctx,
			`UPDATE participants SET balance = $1 WHERE id = $2`,
			u.Balance, u.ParticipantID,
		)
		if err != nil {
			return apperr.Unexpected("update balance", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return apperr.Unexpected("update balance", err)
		}
		if affected == 0 {
			return apperr.NotFound(apperr.KindParticipant)
		}
	}

	return nil
}
