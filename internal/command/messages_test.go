package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ryoha000/traQ-bookmaker/internal/bet"
	"github.com/ryoha000/traQ-bookmaker/internal/participant"
	"github.com/ryoha000/traQ-bookmaker/internal/settlement"
	"github.com/ryoha000/traQ-bookmaker/internal/wager"
)

func TestWagerOpenedMessage_QuotesOutcomeWithSpaces(t *testing.T) {
	msg := wagerOpenedMessage("VCT PACIFIC", []string{"Gen.G", "Team Secret"})
	assert.Contains(t, msg, "「VCT PACIFIC」が開始されました")
	assert.Contains(t, msg, "Gen.G, Team Secret")
	assert.Contains(t, msg, "`@BOT_bookmaker bet Gen.G ポイント数`")
}

func TestPoolSummaryMessage(t *testing.T) {
	stats := []wager.PoolStat{
		{
			Outcome: wager.Outcome{ID: "o-1", Name: "チームA"},
			Amount:  600,
			Rate:    300,
			Bets: []bet.Bet{
				{ID: "b-1", ParticipantID: "p-1", OutcomeID: "o-1", Amount: 100},
				{ID: "b-2", ParticipantID: "p-2", OutcomeID: "o-1", Amount: 500},
			},
		},
		{Outcome: wager.Outcome{ID: "o-2", Name: "チームB"}},
	}
	names := map[string]string{"p-1": "alice"}

	msg := poolSummaryMessage("優勝予想", stats, names)
	assert.Contains(t, msg, "「優勝予想」の現在のポイント状況")
	assert.Contains(t, msg, "- チームA: 300倍(600pt) :@alice: :@unknown:")
	assert.Contains(t, msg, "- チームB: 0倍(0pt)")
}

func TestFormatRate_TrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "300", formatRate(300))
	assert.Equal(t, "122.5", formatRate(122.5))
	assert.Equal(t, "0", formatRate(0))
}

func TestSettledMessage(t *testing.T) {
	result := &settlement.Result{
		Title:      "優勝予想",
		WinnerName: "チームA",
		TotalPool:  1500,
		Entries: []settlement.Entry{
			{TraqDisplayID: "alice", Net: 266, Balance: 11266, Won: true},
			{TraqDisplayID: "carol", Net: -600, Balance: 10400},
		},
	}

	msg := settledMessage(result)
	assert.Contains(t, msg, "「優勝予想」の勝者はチームAです")
	assert.Contains(t, msg, "総ポイント数は1500ptでした")
	assert.Contains(t, msg, "- @alice: +266pt (残高11266pt)")
	assert.Contains(t, msg, "- @carol: -600pt (残高10400pt)")
}

func TestBalancesMessage_Empty(t *testing.T) {
	assert.Equal(t, "このチャンネルにはまだ誰も登録されていません", balancesMessage(nil))
}

func TestBalancesMessage_RankedList(t *testing.T) {
	msg := balancesMessage([]participant.Participant{
		{TraqDisplayID: "alice", Balance: 12000},
		{TraqDisplayID: "bob", Balance: 9000},
	})
	assert.Contains(t, msg, "### ポイント残高")
	assert.Contains(t, msg, "1. @alice: 12000pt")
	assert.Contains(t, msg, "2. @bob: 9000pt")
}
