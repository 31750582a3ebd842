package service

import (
	"context"
	"testing"
	"time"

	"leagueops/internal/domain"
	"leagueops/internal/repository"
	"leagueops/pkg/database"
	apperrors "leagueops/pkg/errors"
	"leagueops/pkg/redis"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tradeServiceFixture struct {
	svc      TradeService
	repos    *mockRepos
	notifier *mockNotifier
	pool     pgxmock.PgxPoolIface
}

func newTradeServiceFixture(t *testing.T) *tradeServiceFixture {
	return newTradeServiceFixtureWithCache(t, nil)
}

func newTradeServiceFixtureWithCache(t *testing.T, redisClient *redis.Client) *tradeServiceFixture {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repos, m := newMockRepos()
	notifier := &mockNotifier{}
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()

	db := &database.PostgresDB{Pool: pool}
	validator := NewValidator(repos, zap.NewNop())
	settlement := NewSettlementEngine(db, zap.NewNop())
	cache := NewCacheService(redisClient, zap.NewNop())

	svc := NewTradeService(repos, validator, settlement, cache, notifier,
		TradeServiceConfig{MaxItems: 20, ExpiryHours: 72}, zap.NewNop())

	return &tradeServiceFixture{svc: svc, repos: m, notifier: notifier, pool: pool}
}

func (f *tradeServiceFixture) stubProposalValidation() {
	f.repos.league.On("GetSettings", mock.Anything, "league-1").Return(testSettings(), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-b").Return(teamFixture("team-b", "user-2"), nil)
	f.repos.roster.On("GetRoster", mock.Anything, "team-a").Return(
		domain.NewRoster("team-a", []domain.RosterPlayer{{PlayerID: "p1"}}), nil)
	f.repos.roster.On("GetRoster", mock.Anything, "team-b").Return(
		domain.NewRoster("team-b", []domain.RosterPlayer{{PlayerID: "p2"}}), nil)
}

func TestCreateProposal(t *testing.T) {
	f := newTradeServiceFixture(t)
	f.stubProposalValidation()

	var created *domain.Trade
	f.repos.trade.On("Create", mock.Anything, mock.AnythingOfType("*domain.Trade")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Trade) }).
		Return(nil)

	resp, err := f.svc.CreateProposal(context.Background(), "user-1", proposalFixture())

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, domain.TradePending, resp.Status)
	assert.NotEmpty(t, created.ID)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), created.ExpiresAt, time.Minute)
	require.Len(t, created.Items, 1)
	assert.NotEmpty(t, created.Items[0].ID)
}

func TestCreateProposalValidationFailureDoesNotPersist(t *testing.T) {
	f := newTradeServiceFixture(t)
	f.stubProposalValidation()

	req := proposalFixture()
	req.Items[0].PlayerID = "missing"

	_, err := f.svc.CreateProposal(context.Background(), "user-1", req)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidItems))
	f.repos.trade.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProposalDuplicateIdempotencyToken(t *testing.T) {
	f := newTradeServiceFixtureWithCache(t, miniredisClient(t))
	f.stubProposalValidation()
	f.repos.trade.On("Create", mock.Anything, mock.AnythingOfType("*domain.Trade")).Return(nil).Once()

	req := proposalFixture()
	req.IdempotencyToken = "tok-1"

	_, err := f.svc.CreateProposal(context.Background(), "user-1", req)
	require.NoError(t, err)

	_, err = f.svc.CreateProposal(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAlreadyProcessed))
	f.repos.trade.AssertNumberOfCalls(t, "Create", 1)

	// A fresh token is accepted again.
	f.repos.trade.On("Create", mock.Anything, mock.AnythingOfType("*domain.Trade")).Return(nil).Once()
	req.IdempotencyToken = "tok-2"
	_, err = f.svc.CreateProposal(context.Background(), "user-1", req)
	require.NoError(t, err)
}

func respondableTrade() *domain.Trade {
	return pendingTrade(time.Now().Add(time.Hour))
}

func (f *tradeServiceFixture) stubResponseValidation(trade *domain.Trade) {
	f.repos.trade.On("GetByID", mock.Anything, trade.ID).Return(trade, nil)
	f.repos.league.On("GetTeamByOwner", mock.Anything, "league-1", "user-2").
		Return(teamFixture("team-b", "user-2"), nil)
	f.repos.roster.On("GetRoster", mock.Anything, "team-a").Return(
		domain.NewRoster("team-a", []domain.RosterPlayer{{PlayerID: "p1"}}), nil)
}

func TestRespondReject(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.trade.On("UpdateStatusIf", mock.Anything, trade.ID, domain.TradePending, domain.TradeRejected).
		Return(true, nil)

	resp, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionReject})

	require.NoError(t, err)
	assert.Equal(t, domain.TradeRejected, resp.Status)
}

func TestRespondRejectLosesRace(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)
	f.repos.trade.On("UpdateStatusIf", mock.Anything, trade.ID, domain.TradePending, domain.TradeRejected).
		Return(false, nil)

	_, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionReject})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAlreadyProcessed))
}

func TestRespondAcceptOpensReviewWindow(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)
	f.repos.league.On("GetSettings", mock.Anything, "league-1").Return(testSettings(), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-b").Return(teamFixture("team-b", "user-2"), nil)

	var deadline *time.Time
	f.repos.trade.On("MarkAccepted", mock.Anything, trade.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { deadline, _ = args.Get(3).(*time.Time) }).
		Return(true, nil)

	resp, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionAccept})

	require.NoError(t, err)
	assert.Equal(t, domain.TradeAccepted, resp.Status)
	require.NotNil(t, resp.ReviewDeadline)
	require.NotNil(t, deadline)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *deadline, time.Minute)
	// Rosters do not move while the review window is open.
	assert.NoError(t, f.pool.ExpectationsWereMet())
}

func TestRespondAcceptSettlesImmediatelyWithoutVetoPeriod(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)

	settings := testSettings()
	settings.HasVetoPeriod = false
	f.repos.league.On("GetSettings", mock.Anything, "league-1").Return(settings, nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-b").Return(teamFixture("team-b", "user-2"), nil)

	f.pool.ExpectBegin()
	f.pool.ExpectExec(`UPDATE trades`).
		WithArgs(trade.ID, domain.TradeAccepted, domain.TradePending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.pool.ExpectExec(`DELETE FROM roster_players`).
		WithArgs("team-a", "p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.pool.ExpectExec(`INSERT INTO roster_players`).
		WithArgs(pgxmock.AnyArg(), "team-b", "p1", domain.SlotBench).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.pool.ExpectExec(`INSERT INTO transaction_log`).
		WithArgs(pgxmock.AnyArg(), "league-1", "team-a", "p1",
			domain.TransactionTrade, string(domain.DirectionSent), "team-b", trade.ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.pool.ExpectExec(`INSERT INTO transaction_log`).
		WithArgs(pgxmock.AnyArg(), "league-1", "team-b", "p1",
			domain.TransactionTrade, string(domain.DirectionReceived), "team-a", trade.ID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.pool.ExpectCommit()

	resp, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionAccept})

	require.NoError(t, err)
	assert.Equal(t, domain.TradeAccepted, resp.Status)
	assert.Nil(t, resp.ReviewDeadline)
	assert.NoError(t, f.pool.ExpectationsWereMet())
	f.repos.trade.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRespondCounter(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)
	f.repos.league.On("GetSettings", mock.Anything, "league-1").Return(testSettings(), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-b").Return(teamFixture("team-b", "user-2"), nil)
	f.repos.roster.On("GetRoster", mock.Anything, "team-b").Return(
		domain.NewRoster("team-b", []domain.RosterPlayer{{PlayerID: "p2"}}), nil)

	var counter *domain.Trade
	f.repos.trade.On("CreateCounter", mock.Anything, mock.AnythingOfType("*domain.Trade"), trade.ID).
		Run(func(args mock.Arguments) { counter = args.Get(1).(*domain.Trade) }).
		Return(true, nil)

	offer := &domain.CreateProposalRequest{
		LeagueID:        "league-1",
		ProposingTeamID: "team-b",
		Items: []domain.TradeItemInput{
			{FromTeamID: "team-b", ToTeamID: "team-a", ItemType: domain.ItemPlayer, PlayerID: "p2"},
		},
	}

	resp, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionCounter, CounterOffer: offer})

	require.NoError(t, err)
	require.NotNil(t, counter)
	assert.Equal(t, domain.TradeRejected, resp.Status)
	assert.Equal(t, counter.ID, resp.CounterProposalID)
	assert.Equal(t, "team-b", counter.ProposingTeamID)
}

func TestRespondCounterValidatesResponderRoster(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)
	f.repos.league.On("GetSettings", mock.Anything, "league-1").Return(testSettings(), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-b").Return(teamFixture("team-b", "user-2"), nil)
	f.repos.roster.On("GetRoster", mock.Anything, "team-b").Return(
		domain.NewRoster("team-b", []domain.RosterPlayer{{PlayerID: "p2"}}), nil)

	offer := &domain.CreateProposalRequest{
		LeagueID:        "league-1",
		ProposingTeamID: "team-b",
		Items: []domain.TradeItemInput{
			{FromTeamID: "team-b", ToTeamID: "team-a", ItemType: domain.ItemPlayer, PlayerID: "p99"},
		},
	}

	_, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionCounter, CounterOffer: offer})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidItems))
	f.repos.trade.AssertNotCalled(t, "CreateCounter", mock.Anything, mock.Anything, mock.Anything)
}

func TestRespondCounterOriginalAlreadyClosed(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)
	f.repos.league.On("GetSettings", mock.Anything, "league-1").Return(testSettings(), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-b").Return(teamFixture("team-b", "user-2"), nil)
	f.repos.roster.On("GetRoster", mock.Anything, "team-b").Return(
		domain.NewRoster("team-b", []domain.RosterPlayer{{PlayerID: "p2"}}), nil)
	f.repos.trade.On("CreateCounter", mock.Anything, mock.Anything, trade.ID).Return(false, nil)

	offer := &domain.CreateProposalRequest{
		LeagueID:        "league-1",
		ProposingTeamID: "team-b",
		Items: []domain.TradeItemInput{
			{FromTeamID: "team-b", ToTeamID: "team-a", ItemType: domain.ItemPlayer, PlayerID: "p2"},
		},
	}

	_, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionCounter, CounterOffer: offer})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAlreadyProcessed))
}

func TestRespondCounterRequiresOffer(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.stubResponseValidation(trade)

	_, err := f.svc.RespondToProposal(context.Background(), "user-2", trade.ID,
		&domain.RespondRequest{Action: domain.ActionCounter})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidRequest))
}

func TestRespondToMissingTrade(t *testing.T) {
	f := newTradeServiceFixture(t)
	f.repos.trade.On("GetByID", mock.Anything, "nope").Return(nil, nil)

	_, err := f.svc.RespondToProposal(context.Background(), "user-2", "nope",
		&domain.RespondRequest{Action: domain.ActionAccept})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCancelProposal(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.repos.trade.On("GetByID", mock.Anything, trade.ID).Return(trade, nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-b").Return(teamFixture("team-b", "user-2"), nil)
	f.repos.trade.On("UpdateStatusIf", mock.Anything, trade.ID, domain.TradePending, domain.TradeCancelled).
		Return(true, nil)

	err := f.svc.CancelProposal(context.Background(), "user-1", trade.ID)

	require.NoError(t, err)
}

func TestCancelProposalOnlyProposer(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := respondableTrade()
	f.repos.trade.On("GetByID", mock.Anything, trade.ID).Return(trade, nil)
	f.repos.league.On("GetTeam", mock.Anything, "team-a").Return(teamFixture("team-a", "user-1"), nil)

	err := f.svc.CancelProposal(context.Background(), "user-2", trade.ID)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	f.repos.trade.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTradeAppliesLazyExpiry(t *testing.T) {
	f := newTradeServiceFixture(t)
	trade := pendingTrade(time.Now().Add(-time.Hour))
	f.repos.trade.On("GetByID", mock.Anything, trade.ID).Return(trade, nil)
	f.repos.trade.On("UpdateStatusIf", mock.Anything, trade.ID, domain.TradePending, domain.TradeExpired).
		Return(true, nil)

	got, err := f.svc.GetTrade(context.Background(), trade.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.TradeExpired, got.Status)
	f.repos.trade.AssertExpectations(t)
}

var _ repository.TradeRepository = (*mockTradeRepo)(nil)
var _ repository.WaiverRepository = (*mockWaiverRepo)(nil)
var _ repository.VoteRepository = (*mockVoteRepo)(nil)
var _ repository.RosterRepository = (*mockRosterRepo)(nil)
var _ repository.LeagueRepository = (*mockLeagueRepo)(nil)
var _ repository.TransactionLogRepository = (*mockLogRepo)(nil)
