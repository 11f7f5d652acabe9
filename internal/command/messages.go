package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ryoha000/traQ-bookmaker/internal/participant"
	"github.com/ryoha000/traQ-bookmaker/internal/settlement"
	"github.com/ryoha000/traQ-bookmaker/internal/wager"
)

// User-facing texts follow the original bot's Japanese templates.

func registeredMessage(traqID string, balance int) string {
	return fmt.Sprintf("@%s の登録を完了しました。初期ポイントは%dポイントです。", traqID, balance)
}

func wagerOpenedMessage(title string, outcomeNames []string) string {
	return fmt.Sprintf(
		"### 「%s」が開始されました\n対象は%sです。\n`@BOT_bookmaker bet %s ポイント数`の形式で参加できます",
		title,
		strings.Join(outcomeNames, ", "),
		QuoteArg(outcomeNames[0]),
	)
}

func wagerClosedMessage(title string, stats []wager.PoolStat, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### 「%s」への bet を締め切りました\nレートは以下の通りです\n", title)
	writePoolLines(&b, stats, names)
	return b.String()
}

func wagerCancelledMessage() string {
	return "最新の賭けをキャンセルしました"
}

func poolSummaryMessage(title string, stats []wager.PoolStat, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### 「%s」の現在のポイント状況\n", title)
	writePoolLines(&b, stats, names)
	return b.String()
}

// writePoolLines renders one line per outcome: name, display rate (mean stake
// per bettor) and staked total, followed by the bettors' stamps.
func writePoolLines(b *strings.Builder, stats []wager.PoolStat, names map[string]string) {
	for _, s := range stats {
		fmt.Fprintf(b, "- %s: %s倍(%dpt)", s.Outcome.Name, formatRate(s.Rate), s.Amount)
		for _, placed := range s.Bets {
			name, ok := names[placed.ParticipantID]
			if !ok {
				name = "unknown"
			}
			fmt.Fprintf(b, " :@%s:", name)
		}
		b.WriteByte('\n')
	}
}

func settledMessage(result *settlement.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### 「%s」の勝者は%sです\n", result.Title, result.WinnerName)
	fmt.Fprintf(&b, "総ポイント数は%dptでした\n", result.TotalPool)
	for _, e := range result.Entries {
		fmt.Fprintf(&b, "- @%s: %+dpt (残高%dpt)\n", e.TraqDisplayID, e.Net, e.Balance)
	}
	return b.String()
}

func balancesMessage(participants []participant.Participant) string {
	if len(participants) == 0 {
		return "このチャンネルにはまだ誰も登録されていません"
	}

	var b strings.Builder
	b.WriteString("### ポイント残高\n")
	for i, p := range participants {
		fmt.Fprintf(&b, "%d. @%s: %dpt\n", i+1, p.TraqDisplayID, p.Balance)
	}
	return b.String()
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
