package bet

import "context"

type Repository interface {
	PlaceForActiveWager(ctx context.Context, nb NewBet) (*Bet, error)
	ListByWager(ctx context.Context, wagerID string) ([]Bet, error)
}
