package bet

// ParticipationBonus is credited once per bet in the same atomic step as the
// stake debit, independent of the wager's result.
const ParticipationBonus = 1000

type Bet struct {
	ID            string `db:"id" json:"id"`
	ParticipantID string `db:"participant_id" json:"participant_id"`
	WagerID       string `db:"wager_id" json:"wager_id"`
	OutcomeID     string `db:"outcome_id" json:"outcome_id"`
	Amount        int    `db:"amount" json:"amount"`
}

// NewBet is a stake request for the channel's currently open wager. The wager,
// outcome and participant are resolved inside the placement transaction.
type NewBet struct {
	TraqID      string
	ChannelID   string
	OutcomeName string
	Amount      int
}
