package wager

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, title, channelID string, outcomeNames []string) (*Wager, []Outcome, error)
	FindByID(ctx context.Context, id string) (*Wager, error)
	Close(ctx context.Context, channelID string, closedAt time.Time) (*Wager, error)
	DeleteLatestUnfinished(ctx context.Context, channelID string) error
	SetMessageID(ctx context.Context, wagerID, messageID string) error
	ListOutcomes(ctx context.Context, wagerID string) ([]Outcome, error)
}
