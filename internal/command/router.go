package command

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ryoha000/traQ-bookmaker/internal/apperr"
	"github.com/ryoha000/traQ-bookmaker/internal/bet"
	"github.com/ryoha000/traQ-bookmaker/internal/logger"
	"github.com/ryoha000/traQ-bookmaker/internal/metrics"
	"github.com/ryoha000/traQ-bookmaker/internal/participant"
	"github.com/ryoha000/traQ-bookmaker/internal/traq"
	"github.com/ryoha000/traQ-bookmaker/internal/wager"
)

type MessageUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bot  bool   `json:"bot"`
}

type EmbeddedInfo struct {
	Raw  string `json:"raw"`
	Type string `json:"type"`
	ID   string `json:"id"`
}

type MessagePayload struct {
	ID        string         `json:"id"`
	User      MessageUser    `json:"user"`
	ChannelID string         `json:"channelId"`
	Text      string         `json:"plainText"`
	Embedded  []EmbeddedInfo `json:"embedded"`
}

type MessageCreatedEvent struct {
	EventTime time.Time      `json:"eventTime"`
	Message   MessagePayload `json:"message"`
}

// Notifier queues best-effort channel messages and acknowledgement stamps.
type Notifier interface {
	SendMessage(ctx context.Context, channelID, content string, embed bool) error
	SendStamp(ctx context.Context, messageID, stampID string) error
}

// MessageClient creates and edits the pool-summary message. Unlike Notifier
// this is synchronous: the create response's message id is persisted on the
// wager so later bets edit the same message.
type MessageClient interface {
	CreateMessage(ctx context.Context, channelID, content string, embed bool) (*traq.Message, error)
	UpdateMessage(ctx context.Context, messageID, content string, embed bool) error
}

// Router parses mention commands out of message-created events and dispatches
// them to the engine services. It owns the mapping from engine errors to
// user-facing texts; engine internals never reach the channel.
type Router struct {
	botUserID    string
	participants participant.Service
	wagers       wager.Service
	bets         bet.Service
	notifier     Notifier
	messages     MessageClient
}

func NewRouter(
	botUserID string,
	participants participant.Service,
	wagers wager.Service,
	bets bet.Service,
	notifier Notifier,
	messages MessageClient,
) *Router {
	return &Router{
		botUserID:    botUserID,
		participants: participants,
		wagers:       wagers,
		bets:         bets,
		notifier:     notifier,
		messages:     messages,
	}
}

func (r *Router) HandleMessageCreated(ctx context.Context, ev MessageCreatedEvent) error {
	if ev.Message.User.Bot || !r.mentioned(ev) {
		return nil
	}

	args := ParseArgs(ev.Message.Text)
	// The mention itself arrives as the leading token.
	if len(args) > 0 && args[0] != "" && args[0][0] == '@' {
		args = args[1:]
	}
	if len(args) == 0 {
		return r.notifier.SendMessage(ctx, ev.Message.ChannelID, summaryHelpMessage(), true)
	}

	name := args[0]
	args = args[1:]

	if name == "help" || name == "--help" || name == "-h" {
		return r.notifier.SendMessage(ctx, ev.Message.ChannelID, summaryHelpMessage(), true)
	}

	if isHelpArg(args) {
		if h, ok := findHelp(name); ok {
			return r.notifier.SendMessage(ctx, ev.Message.ChannelID, helpMessage(h), true)
		}
		return r.notifier.SendMessage(ctx, ev.Message.ChannelID, summaryHelpMessage(), true)
	}

	var err error
	switch name {
	case "reg":
		err = r.handleReg(ctx, ev)
	case "start":
		err = r.handleStart(ctx, ev, args)
	case "bet":
		err = r.handleBet(ctx, ev, args)
	case "close":
		err = r.handleClose(ctx, ev)
	case "finish":
		err = r.handleFinish(ctx, ev, args)
	case "cancel":
		err = r.handleCancel(ctx, ev)
	case "info":
		err = r.handleInfo(ctx, ev)
	default:
		return r.notifier.SendMessage(ctx, ev.Message.ChannelID, summaryHelpMessage(), true)
	}

	if err != nil {
		metrics.RecordCommand(name, "error")
		return err
	}

	metrics.RecordCommand(name, "ok")
	r.acknowledge(ctx, ev.Message.ID)
	return nil
}

func (r *Router) mentioned(ev MessageCreatedEvent) bool {
	for _, e := range ev.Message.Embedded {
		if e.Type == "user" && e.ID == r.botUserID {
			return true
		}
	}
	return false
}

func (r *Router) handleReg(ctx context.Context, ev MessageCreatedEvent) error {
	p, err := r.participants.Register(ctx, ev.Message.User.ID, ev.Message.User.Name, ev.Message.ChannelID)
	if err != nil {
		return r.replyError(ctx, ev.Message.ChannelID, err,
			"引数が不正です", "既に登録されています")
	}

	return r.notifier.SendMessage(ctx, ev.Message.ChannelID,
		registeredMessage(ev.Message.User.Name, p.Balance), true)
}

func (r *Router) handleStart(ctx context.Context, ev MessageCreatedEvent, args []string) error {
	title := ""
	if len(args) > 0 {
		title = args[0]
	}
	var outcomeNames []string
	if len(args) > 1 {
		outcomeNames = args[1:]
	}

	w, outcomes, err := r.wagers.Open(ctx, title, ev.Message.ChannelID, outcomeNames)
	if err != nil {
		return r.replyError(ctx, ev.Message.ChannelID, err,
			"賭けの対象となる候補を2つ以上指定してください\n`@BOT_bookmaker start 賭け名 候補A 候補B`の形式で指定できます",
			"このチャンネルには進行中の賭けが既に存在します")
	}

	metrics.WagersOpenedTotal.Inc()

	names := make([]string, len(outcomes))
	for i, o := range outcomes {
		names[i] = o.Name
	}
	return r.notifier.SendMessage(ctx, ev.Message.ChannelID, wagerOpenedMessage(w.Title, names), true)
}

func (r *Router) handleBet(ctx context.Context, ev MessageCreatedEvent, args []string) error {
	nb := bet.NewBet{
		TraqID:    ev.Message.User.ID,
		ChannelID: ev.Message.ChannelID,
	}
	if len(args) > 0 {
		nb.OutcomeName = args[0]
	}
	if len(args) > 1 {
		// Non-numeric input degrades to zero and is rejected as validation.
		nb.Amount, _ = strconv.Atoi(args[1])
	}

	placed, err := r.bets.PlaceBet(ctx, nb)
	if err != nil {
		return r.replyError(ctx, ev.Message.ChannelID, err,
			"引数が不正です\n賭けの対象となる候補を指定し、賭けるポイントは正の整数を指定してください\n`@BOT_bookmaker bet 候補A ポイント数`の形式で指定できます",
			"既にこの賭けに bet しています")
	}

	metrics.RecordBet(placed.Amount)
	r.upsertPoolSummary(ctx, ev.Message.ChannelID, placed.WagerID)
	return nil
}

func (r *Router) handleClose(ctx context.Context, ev MessageCreatedEvent) error {
	w, err := r.wagers.Close(ctx, ev.Message.ChannelID)
	if err != nil {
		return r.replyError(ctx, ev.Message.ChannelID, err, "", "")
	}

	metrics.WagersClosedTotal.Inc()

	stats, err := r.wagers.PoolSummary(ctx, w.ID)
	if err != nil {
		logger.Errorf("Failed to compute pool summary for wager %s: %v", w.ID, err)
		return r.notifier.SendMessage(ctx, ev.Message.ChannelID,
			wagerClosedMessage(w.Title, nil, nil), true)
	}

	return r.notifier.SendMessage(ctx, ev.Message.ChannelID,
		wagerClosedMessage(w.Title, stats, r.displayNames(ctx, ev.Message.ChannelID)), true)
}

func (r *Router) handleFinish(ctx context.Context, ev MessageCreatedEvent, args []string) error {
	winnerName := ""
	if len(args) > 0 {
		winnerName = args[0]
	}

	result, err := r.wagers.Finish(ctx, ev.Message.ChannelID, winnerName)
	if err != nil {
		return r.replyError(ctx, ev.Message.ChannelID, err,
			"勝者名を指定してください\n`@BOT_bookmaker finish 勝者名`の形式で指定できます",
			"賭けの勝者は既に設定されています")
	}

	metrics.RecordSettlement(result.TotalPaidOut)
	return r.notifier.SendMessage(ctx, ev.Message.ChannelID, settledMessage(result), true)
}

func (r *Router) handleCancel(ctx context.Context, ev MessageCreatedEvent) error {
	if err := r.wagers.Cancel(ctx, ev.Message.ChannelID); err != nil {
		return r.replyError(ctx, ev.Message.ChannelID, err, "", "")
	}

	metrics.WagersCancelledTotal.Inc()
	return r.notifier.SendMessage(ctx, ev.Message.ChannelID, wagerCancelledMessage(), true)
}

func (r *Router) handleInfo(ctx context.Context, ev MessageCreatedEvent) error {
	participants, err := r.participants.ListBalances(ctx, ev.Message.ChannelID)
	if err != nil {
		return r.replyError(ctx, ev.Message.ChannelID, err, "", "")
	}

	return r.notifier.SendMessage(ctx, ev.Message.ChannelID, balancesMessage(participants), true)
}

// upsertPoolSummary posts the wager's running pool summary, editing the
// previously linked message when one exists. Failures are logged only; the bet
// is already committed.
func (r *Router) upsertPoolSummary(ctx context.Context, channelID, wagerID string) {
	w, err := r.wagers.FindByID(ctx, wagerID)
	if err != nil {
		logger.Errorf("Failed to load wager %s for pool summary: %v", wagerID, err)
		return
	}

	stats, err := r.wagers.PoolSummary(ctx, w.ID)
	if err != nil {
		logger.Errorf("Failed to compute pool summary for wager %s: %v", w.ID, err)
		return
	}

	content := poolSummaryMessage(w.Title, stats, r.displayNames(ctx, channelID))

	if w.MessageID != nil {
		if err := r.messages.UpdateMessage(ctx, *w.MessageID, content, true); err != nil {
			logger.Errorf("Failed to update pool summary message: %v", err)
		}
		return
	}

	msg, err := r.messages.CreateMessage(ctx, channelID, content, true)
	if err != nil {
		logger.Errorf("Failed to create pool summary message: %v", err)
		return
	}
	if err := r.wagers.LinkMessage(ctx, w.ID, msg.ID); err != nil {
		logger.Errorf("Failed to link pool summary message: %v", err)
	}
}

func (r *Router) displayNames(ctx context.Context, channelID string) map[string]string {
	participants, err := r.participants.ListBalances(ctx, channelID)
	if err != nil {
		logger.Errorf("Failed to list participants for channel %s: %v", channelID, err)
		return nil
	}

	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.TraqDisplayID
	}
	return names
}

func (r *Router) acknowledge(ctx context.Context, messageID string) {
	if err := r.notifier.SendStamp(ctx, messageID, traq.StampWhiteCheckMark); err != nil {
		logger.Errorf("Failed to queue acknowledgement stamp: %v", err)
	}
}

// replyError sends the user-facing text for err and passes the error through
// for logging and metrics.
func (r *Router) replyError(ctx context.Context, channelID string, err error, validationText, conflictText string) error {
	text := userErrorText(err, validationText, conflictText)
	if sendErr := r.notifier.SendMessage(ctx, channelID, text, true); sendErr != nil {
		logger.Errorf("Failed to send error message: %v", sendErr)
	}
	return err
}

func userErrorText(err error, validationText, conflictText string) string {
	switch {
	case apperr.IsValidation(err) && validationText != "":
		return validationText
	case apperr.IsNotFound(err, apperr.KindWager):
		return "有効な賭けが見つかりませんでした"
	case apperr.IsNotFound(err, apperr.KindOutcome):
		return "指定された候補が見つかりませんでした"
	case apperr.IsNotFound(err, apperr.KindParticipant):
		return "ユーザー登録がされていません\n`@BOT_bookmaker reg`で登録できます"
	case apperr.IsConflict(err) && conflictText != "":
		return conflictText
	case errors.Is(err, apperr.ErrInsufficientBalance):
		return "ポイントが足りません"
	default:
		return "予期せぬエラーが発生しました"
	}
}
