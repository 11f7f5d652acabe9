package participant

// InitialBalance is granted once at registration, per channel.
const InitialBalance = 10000

type Participant struct {
	ID            string `db:"id" json:"id"`
	TraqID        string `db:"traq_id" json:"traq_id"`
	TraqDisplayID string `db:"traq_display_id" json:"traq_display_id"`
	ChannelID     string `db:"channel_id" json:"channel_id"`
	Balance       int    `db:"balance" json:"balance"`
}

// BalanceUpdate carries the absolute resulting balance, not a delta. Callers
// pre-compute the final value before handing the batch to the store.
type BalanceUpdate struct {
	ParticipantID string
	Balance       int
}
