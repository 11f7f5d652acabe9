package participant

import (
	"context"
	"strings"

	"github.com/ryoha000/traQ-bookmaker/internal/apperr"
)

type Service interface {
	Register(ctx context.Context, traqID, traqDisplayID, channelID string) (*Participant, error)
	ListBalances(ctx context.Context, channelID string) ([]Participant, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, traqID, traqDisplayID, channelID string) (*Participant, error) {
	if strings.TrimSpace(traqID) == "" || strings.TrimSpace(channelID) == "" {
		return nil, apperr.Validation("user id and channel id must not be empty")
	}

	return s.repo.Create(ctx, traqID, traqDisplayID, channelID)
}

func (s *service) ListBalances(ctx context.Context, channelID string) ([]Participant, error) {
	return s.repo.ListByChannel(ctx, channelID)
}
