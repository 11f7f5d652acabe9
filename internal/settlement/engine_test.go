package settlement

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ryoha000/traQ-bookmaker/internal/apperr"
)

func setupEngineMock(t *testing.T) (*Engine, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	engine := NewEngine(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return engine, mock, closer
}

func settlementWagerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "channel_id", "message_id", "winner_outcome_id"})
}

func expectLatestWager(mock sqlmock.Sqlmock, channelID string, rows *sqlmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, channel_id, message_id, winner_outcome_id FROM wagers WHERE channel_id = $1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE")).
		WithArgs(channelID).
		WillReturnRows(rows)
}

func TestSettle_CreditsWinnersInOneTransaction(t *testing.T) {
	engine, mock, close := setupEngineMock(t)
	defer close()

	mock.ExpectBegin()
	expectLatestWager(mock, "ch-1", settlementWagerRows().AddRow("w-1", "優勝予想", "ch-1", nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM outcomes WHERE wager_id = $1 AND name = $2")).
		WithArgs("w-1", "チームA").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("o-win"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, participant_id, wager_id, outcome_id, amount FROM bets WHERE wager_id = $1")).
		WithArgs("w-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "participant_id", "wager_id", "outcome_id", "amount"}).
			AddRow("b-1", "p-1", "w-1", "o-win", 400).
			AddRow("b-2", "p-2", "w-1", "o-win", 500).
			AddRow("b-3", "p-3", "w-1", "o-lose", 600))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, traq_id, traq_display_id, channel_id, balance FROM participants WHERE channel_id = $1 FOR UPDATE")).
		WithArgs("ch-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "traq_id", "traq_display_id", "channel_id", "balance"}).
			AddRow("p-1", "traq-1", "alice", "ch-1", 10600).
			AddRow("p-2", "traq-2", "bob", "ch-1", 10500).
			AddRow("p-3", "traq-3", "carol", "ch-1", 10400))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wagers SET winner_outcome_id = $1 WHERE id = $2")).
		WithArgs("o-win", "w-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outcomes SET is_winner = TRUE WHERE id = $1")).
		WithArgs("o-win").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// floor(400*1500/900) = 666, floor(500*1500/900) = 833
	mock.ExpectExec(regexp.QuoteMeta("UPDATE participants SET balance = $1 WHERE id = $2")).
		WithArgs(10600+666, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE participants SET balance = $1 WHERE id = $2")).
		WithArgs(10500+833, "p-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := engine.Settle(context.Background(), "ch-1", "チームA")
	require.NoError(t, err)
	require.Equal(t, 1500, result.TotalPool)
	require.Equal(t, 900, result.WinnerPool)
	require.Equal(t, 666+833, result.TotalPaidOut)
	require.Len(t, result.Entries, 3)

	byID := make(map[string]Entry, len(result.Entries))
	for _, e := range result.Entries {
		byID[e.ParticipantID] = e
	}
	require.True(t, byID["p-1"].Won)
	require.Equal(t, 666-400, byID["p-1"].Net)
	require.Equal(t, 10600+666, byID["p-1"].Balance)
	require.False(t, byID["p-3"].Won)
	require.Equal(t, -600, byID["p-3"].Net)
	require.Equal(t, 10400, byID["p-3"].Balance)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettle_WinnerAlreadySet(t *testing.T) {
	engine, mock, close := setupEngineMock(t)
	defer close()

	winner := "o-old"
	mock.ExpectBegin()
	expectLatestWager(mock, "ch-1", settlementWagerRows().AddRow("w-1", "優勝予想", "ch-1", nil, &winner))
	mock.ExpectRollback()

	_, err := engine.Settle(context.Background(), "ch-1", "チームA")
	require.True(t, apperr.IsConflict(err))
}

func TestSettle_NoWagerInChannel(t *testing.T) {
	engine, mock, close := setupEngineMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, title, channel_id, message_id, winner_outcome_id FROM wagers").
		WithArgs("ch-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := engine.Settle(context.Background(), "ch-1", "チームA")
	require.True(t, apperr.IsNotFound(err, apperr.KindWager))
}

func TestSettle_UnknownWinnerName(t *testing.T) {
	engine, mock, close := setupEngineMock(t)
	defer close()

	mock.ExpectBegin()
	expectLatestWager(mock, "ch-1", settlementWagerRows().AddRow("w-1", "優勝予想", "ch-1", nil, nil))
	mock.ExpectQuery("SELECT id FROM outcomes").
		WithArgs("w-1", "チームZ").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := engine.Settle(context.Background(), "ch-1", "チームZ")
	require.True(t, apperr.IsNotFound(err, apperr.KindOutcome))
}

func TestSettle_NoWinningBetsPaysNobody(t *testing.T) {
	engine, mock, close := setupEngineMock(t)
	defer close()

	mock.ExpectBegin()
	expectLatestWager(mock, "ch-1", settlementWagerRows().AddRow("w-1", "優勝予想", "ch-1", nil, nil))
	mock.ExpectQuery("SELECT id FROM outcomes").
		WithArgs("w-1", "チームA").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("o-win"))
	mock.ExpectQuery("SELECT id, participant_id, wager_id, outcome_id, amount FROM bets").
		WithArgs("w-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "participant_id", "wager_id", "outcome_id", "amount"}).
			AddRow("b-1", "p-1", "w-1", "o-lose", 500))
	mock.ExpectQuery("SELECT id, traq_id, traq_display_id, channel_id, balance FROM participants").
		WithArgs("ch-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "traq_id", "traq_display_id", "channel_id", "balance"}).
			AddRow("p-1", "traq-1", "alice", "ch-1", 10500))
	mock.ExpectExec("UPDATE wagers SET winner_outcome_id").
		WithArgs("o-win", "w-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE outcomes SET is_winner").
		WithArgs("o-win").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := engine.Settle(context.Background(), "ch-1", "チームA")
	require.NoError(t, err)
	require.Zero(t, result.TotalPaidOut)
	require.Len(t, result.Entries, 1)
	require.False(t, result.Entries[0].Won)
	require.NoError(t, mock.ExpectationsWereMet())
}
