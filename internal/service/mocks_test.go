package service

import (
	"context"
	"time"

	"leagueops/internal/domain"
	"leagueops/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockTradeRepo struct{ mock.Mock }

func (m *mockTradeRepo) Create(ctx context.Context, trade *domain.Trade) error {
	return m.Called(ctx, trade).Error(0)
}

func (m *mockTradeRepo) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	args := m.Called(ctx, id)
	trade, _ := args.Get(0).(*domain.Trade)
	return trade, args.Error(1)
}

func (m *mockTradeRepo) ListByLeague(ctx context.Context, leagueID string, limit int) ([]*domain.Trade, error) {
	args := m.Called(ctx, leagueID, limit)
	trades, _ := args.Get(0).([]*domain.Trade)
	return trades, args.Error(1)
}

func (m *mockTradeRepo) UpdateStatusIf(ctx context.Context, id string, from, to domain.TradeStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockTradeRepo) MarkAccepted(ctx context.Context, id string, acceptedAt time.Time, reviewDeadline *time.Time) (bool, error) {
	args := m.Called(ctx, id, acceptedAt, reviewDeadline)
	return args.Bool(0), args.Error(1)
}

func (m *mockTradeRepo) MarkVetoed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTradeRepo) CreateCounter(ctx context.Context, counter *domain.Trade, originalID string) (bool, error) {
	args := m.Called(ctx, counter, originalID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTradeRepo) ListReviewExpired(ctx context.Context, leagueID string, now time.Time) ([]*domain.Trade, error) {
	args := m.Called(ctx, leagueID, now)
	trades, _ := args.Get(0).([]*domain.Trade)
	return trades, args.Error(1)
}

type mockWaiverRepo struct{ mock.Mock }

func (m *mockWaiverRepo) Create(ctx context.Context, claim *domain.WaiverClaim) error {
	return m.Called(ctx, claim).Error(0)
}

func (m *mockWaiverRepo) GetByID(ctx context.Context, id string) (*domain.WaiverClaim, error) {
	args := m.Called(ctx, id)
	claim, _ := args.Get(0).(*domain.WaiverClaim)
	return claim, args.Error(1)
}

func (m *mockWaiverRepo) ListPending(ctx context.Context, leagueID string) ([]*domain.WaiverClaim, error) {
	args := m.Called(ctx, leagueID)
	claims, _ := args.Get(0).([]*domain.WaiverClaim)
	return claims, args.Error(1)
}

func (m *mockWaiverRepo) MarkFailed(ctx context.Context, id, reason string, processedAt time.Time) error {
	return m.Called(ctx, id, reason, processedAt).Error(0)
}

func (m *mockWaiverRepo) DeletePending(ctx context.Context, id, teamID string) (bool, error) {
	args := m.Called(ctx, id, teamID)
	return args.Bool(0), args.Error(1)
}

type mockVoteRepo struct{ mock.Mock }

func (m *mockVoteRepo) Create(ctx context.Context, vote *domain.VetoVote) error {
	return m.Called(ctx, vote).Error(0)
}

func (m *mockVoteRepo) CountByTrade(ctx context.Context, tradeID string) (int, int, error) {
	args := m.Called(ctx, tradeID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type mockRosterRepo struct{ mock.Mock }

func (m *mockRosterRepo) GetRoster(ctx context.Context, teamID string) (*domain.Roster, error) {
	args := m.Called(ctx, teamID)
	roster, _ := args.Get(0).(*domain.Roster)
	return roster, args.Error(1)
}

func (m *mockRosterRepo) IsPlayerRostered(ctx context.Context, leagueID, playerID string) (bool, error) {
	args := m.Called(ctx, leagueID, playerID)
	return args.Bool(0), args.Error(1)
}

type mockLeagueRepo struct{ mock.Mock }

func (m *mockLeagueRepo) GetSettings(ctx context.Context, leagueID string) (*domain.LeagueSettings, error) {
	args := m.Called(ctx, leagueID)
	settings, _ := args.Get(0).(*domain.LeagueSettings)
	return settings, args.Error(1)
}

func (m *mockLeagueRepo) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	args := m.Called(ctx, teamID)
	team, _ := args.Get(0).(*domain.Team)
	return team, args.Error(1)
}

func (m *mockLeagueRepo) GetTeamByOwner(ctx context.Context, leagueID, userID string) (*domain.Team, error) {
	args := m.Called(ctx, leagueID, userID)
	team, _ := args.Get(0).(*domain.Team)
	return team, args.Error(1)
}

func (m *mockLeagueRepo) GetTeamBudget(ctx context.Context, teamID string) (*domain.TeamBudget, error) {
	args := m.Called(ctx, teamID)
	budget, _ := args.Get(0).(*domain.TeamBudget)
	return budget, args.Error(1)
}

func (m *mockLeagueRepo) CountTeams(ctx context.Context, leagueID string) (int, error) {
	args := m.Called(ctx, leagueID)
	return args.Int(0), args.Error(1)
}

type mockLogRepo struct{ mock.Mock }

func (m *mockLogRepo) ListByLeague(ctx context.Context, leagueID string, limit int) ([]*domain.TransactionLogEntry, error) {
	args := m.Called(ctx, leagueID, limit)
	entries, _ := args.Get(0).([]*domain.TransactionLogEntry)
	return entries, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, targets []string, message string) {
	m.Called(ctx, targets, message)
}

type mockRepos struct {
	trade  *mockTradeRepo
	waiver *mockWaiverRepo
	vote   *mockVoteRepo
	roster *mockRosterRepo
	league *mockLeagueRepo
	log    *mockLogRepo
}

func newMockRepos() (*repository.Repositories, *mockRepos) {
	m := &mockRepos{
		trade:  &mockTradeRepo{},
		waiver: &mockWaiverRepo{},
		vote:   &mockVoteRepo{},
		roster: &mockRosterRepo{},
		league: &mockLeagueRepo{},
		log:    &mockLogRepo{},
	}
	return &repository.Repositories{
		Trade:  m.trade,
		Waiver: m.waiver,
		Vote:   m.vote,
		Roster: m.roster,
		League: m.league,
		Log:    m.log,
	}, m
}
