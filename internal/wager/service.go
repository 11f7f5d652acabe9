package wager

import (
	"context"
	"strings"
	"time"

	"github.com/ryoha000/traQ-bookmaker/internal/apperr"
	"github.com/ryoha000/traQ-bookmaker/internal/bet"
	"github.com/ryoha000/traQ-bookmaker/internal/settlement"
)

// Settler declares a winner and distributes the pool. Implemented by
// settlement.Engine.
type Settler interface {
	Settle(ctx context.Context, channelID, winnerName string) (*settlement.Result, error)
}

// BetReader is the slice of the bet ledger the lifecycle controller needs for
// pool summaries.
type BetReader interface {
	ListByWager(ctx context.Context, wagerID string) ([]bet.Bet, error)
}

// Service is the lifecycle authority for wagers. All status transitions go
// through it.
type Service interface {
	Open(ctx context.Context, title, channelID string, outcomeNames []string) (*Wager, []Outcome, error)
	Close(ctx context.Context, channelID string) (*Wager, error)
	Finish(ctx context.Context, channelID, winnerName string) (*settlement.Result, error)
	Cancel(ctx context.Context, channelID string) error
	FindByID(ctx context.Context, wagerID string) (*Wager, error)
	PoolSummary(ctx context.Context, wagerID string) ([]PoolStat, error)
	LinkMessage(ctx context.Context, wagerID, messageID string) error
}

type service struct {
	repo    Repository
	bets    BetReader
	settler Settler
}

func NewService(repo Repository, bets BetReader, settler Settler) Service {
	return &service{
		repo:    repo,
		bets:    bets,
		settler: settler,
	}
}

func (s *service) Open(ctx context.Context, title, channelID string, outcomeNames []string) (*Wager, []Outcome, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil, apperr.Validation("title must not be empty")
	}
	if len(outcomeNames) < 2 {
		return nil, nil, apperr.Validation("at least two outcomes are required")
	}
	for _, name := range outcomeNames {
		if strings.TrimSpace(name) == "" {
			return nil, nil, apperr.Validation("outcome names must not be empty")
		}
	}

	return s.repo.Create(ctx, title, channelID, outcomeNames)
}

func (s *service) Close(ctx context.Context, channelID string) (*Wager, error) {
	return s.repo.Close(ctx, channelID, time.Now())
}

// Finish declares the winner and settles in one step. The settlement engine
// owns the transaction; see settlement.Engine.
func (s *service) Finish(ctx context.Context, channelID, winnerName string) (*settlement.Result, error) {
	if strings.TrimSpace(winnerName) == "" {
		return nil, apperr.Validation("winner name must not be empty")
	}

	return s.settler.Settle(ctx, channelID, winnerName)
}

// Cancel deletes the channel's latest unfinished wager. Placed stakes are not
// refunded; they were debited at placement time and stay debited.
func (s *service) Cancel(ctx context.Context, channelID string) error {
	return s.repo.DeleteLatestUnfinished(ctx, channelID)
}

func (s *service) FindByID(ctx context.Context, wagerID string) (*Wager, error) {
	return s.repo.FindByID(ctx, wagerID)
}

func (s *service) PoolSummary(ctx context.Context, wagerID string) ([]PoolStat, error) {
	outcomes, err := s.repo.ListOutcomes(ctx, wagerID)
	if err != nil {
		return nil, err
	}

	bets, err := s.bets.ListByWager(ctx, wagerID)
	if err != nil {
		return nil, err
	}

	return ComputeStatistics(outcomes, bets), nil
}

func (s *service) LinkMessage(ctx context.Context, wagerID, messageID string) error {
	return s.repo.SetMessageID(ctx, wagerID, messageID)
}
