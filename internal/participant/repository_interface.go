package participant

import "context"

type Repository interface {
	Create(ctx context.Context, traqID, traqDisplayID, channelID string) (*Participant, error)
	ListByChannel(ctx context.Context, channelID string) ([]Participant, error)
}
