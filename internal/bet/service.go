package bet

import (
	"context"
	"strings"

	"github.com/ryoha000/traQ-bookmaker/internal/apperr"
)

type Service interface {
	PlaceBet(ctx context.Context, nb NewBet) (*Bet, error)
	ListByWager(ctx context.Context, wagerID string) ([]Bet, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PlaceBet(ctx context.Context, nb NewBet) (*Bet, error) {
	if strings.TrimSpace(nb.OutcomeName) == "" || nb.Amount <= 0 {
		return nil, apperr.Validation("an outcome name and a positive amount are required")
	}

	return s.repo.PlaceForActiveWager(ctx, nb)
}

func (s *service) ListByWager(ctx context.Context, wagerID string) ([]Bet, error) {
	return s.repo.ListByWager(ctx, wagerID)
}
