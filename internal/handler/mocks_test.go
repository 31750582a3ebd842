package handler

import (
	"context"
	"net/http"

	"leagueops/internal/domain"
	"leagueops/internal/middleware"
	"leagueops/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

// requestWithParams attaches chi route params and an optional authenticated
// user to a request the way the router and auth middleware would.
func requestWithParams(r *http.Request, userID string, params map[string]string) *http.Request {
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	if userID != "" {
		r = r.WithContext(context.WithValue(r.Context(), middleware.UserIDContextKey, userID))
	}
	return r
}

type mockTradeService struct {
	mock.Mock
}

func (m *mockTradeService) CreateProposal(ctx context.Context, userID string, req *domain.CreateProposalRequest) (*domain.ProposalResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*domain.ProposalResponse)
	return resp, args.Error(1)
}

func (m *mockTradeService) RespondToProposal(ctx context.Context, userID, tradeID string, req *domain.RespondRequest) (*domain.RespondResponse, error) {
	args := m.Called(ctx, userID, tradeID, req)
	resp, _ := args.Get(0).(*domain.RespondResponse)
	return resp, args.Error(1)
}

func (m *mockTradeService) CancelProposal(ctx context.Context, userID, tradeID string) error {
	args := m.Called(ctx, userID, tradeID)
	return args.Error(0)
}

func (m *mockTradeService) GetTrade(ctx context.Context, tradeID string) (*domain.Trade, error) {
	args := m.Called(ctx, tradeID)
	trade, _ := args.Get(0).(*domain.Trade)
	return trade, args.Error(1)
}

func (m *mockTradeService) ListTrades(ctx context.Context, leagueID string, limit int) ([]*domain.Trade, error) {
	args := m.Called(ctx, leagueID, limit)
	trades, _ := args.Get(0).([]*domain.Trade)
	return trades, args.Error(1)
}

func (m *mockTradeService) ListTransactions(ctx context.Context, leagueID string, limit int) ([]*domain.TransactionLogEntry, error) {
	args := m.Called(ctx, leagueID, limit)
	entries, _ := args.Get(0).([]*domain.TransactionLogEntry)
	return entries, args.Error(1)
}

type mockWaiverService struct {
	mock.Mock
}

func (m *mockWaiverService) SubmitClaim(ctx context.Context, userID string, req *domain.SubmitClaimRequest) (*domain.WaiverClaim, error) {
	args := m.Called(ctx, userID, req)
	claim, _ := args.Get(0).(*domain.WaiverClaim)
	return claim, args.Error(1)
}

func (m *mockWaiverService) CancelClaim(ctx context.Context, userID, claimID string) error {
	args := m.Called(ctx, userID, claimID)
	return args.Error(0)
}

func (m *mockWaiverService) ListPendingClaims(ctx context.Context, leagueID string) ([]*domain.WaiverClaim, error) {
	args := m.Called(ctx, leagueID)
	claims, _ := args.Get(0).([]*domain.WaiverClaim)
	return claims, args.Error(1)
}

func (m *mockWaiverService) ProcessBatch(ctx context.Context, leagueID string) (*domain.BatchResult, error) {
	args := m.Called(ctx, leagueID)
	result, _ := args.Get(0).(*domain.BatchResult)
	return result, args.Error(1)
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) CastVote(ctx context.Context, userID, tradeID string, req *domain.CastVoteRequest) (*domain.CastVoteResponse, error) {
	args := m.Called(ctx, userID, tradeID, req)
	resp, _ := args.Get(0).(*domain.CastVoteResponse)
	return resp, args.Error(1)
}

func (m *mockReviewService) GetTally(ctx context.Context, tradeID string) (*domain.VoteTally, error) {
	args := m.Called(ctx, tradeID)
	tally, _ := args.Get(0).(*domain.VoteTally)
	return tally, args.Error(1)
}

func (m *mockReviewService) FinalizeExpiredReviews(ctx context.Context, leagueID string) (int, error) {
	args := m.Called(ctx, leagueID)
	return args.Int(0), args.Error(1)
}
