package wager

import "time"

// Wager is one prediction market scoped to a channel. It is active (accepting
// bets) while both ClosedAt and WinnerOutcomeID are unset; it counts against
// the one-per-channel limit until a winner is set or it is cancelled.
type Wager struct {
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	ChannelID       string     `db:"channel_id" json:"channel_id"`
	MessageID       *string    `db:"message_id" json:"message_id,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	ClosedAt        *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	WinnerOutcomeID *string    `db:"winner_outcome_id" json:"winner_outcome_id,omitempty"`
}

// Open reports whether the wager still accepts bets.
func (w *Wager) Open() bool {
	return w.ClosedAt == nil && w.WinnerOutcomeID == nil
}

// Finished reports whether a winner has been declared.
func (w *Wager) Finished() bool {
	return w.WinnerOutcomeID != nil
}

type Outcome struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	WagerID  string `db:"wager_id" json:"wager_id"`
	IsWinner *bool  `db:"is_winner" json:"is_winner,omitempty"`
}
