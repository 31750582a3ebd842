package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leagueops/internal/domain"
	apperrors "leagueops/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCastVoteHandler(t *testing.T) {
	svc := &mockReviewService{}
	h := NewReviewHandler(svc, testLogger())

	svc.On("CastVote", mock.Anything, "user-3", "trade-1", mock.AnythingOfType("*domain.CastVoteRequest")).
		Return(&domain.CastVoteResponse{
			Status: domain.TradeAccepted,
			Tally:  domain.VoteTally{Vetoes: 1, EligibleVoters: 8, VetoThreshold: 4},
		}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trades/trade-1/votes",
		strings.NewReader(`{"vote":"VETO"}`))
	req = requestWithParams(req, "user-3", map[string]string{"tradeID": "trade-1"})
	rec := httptest.NewRecorder()

	h.CastVote(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp domain.CastVoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.TradeAccepted, resp.Status)
	assert.Equal(t, 1, resp.Tally.Vetoes)
}

func TestCastVoteHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "duplicate vote",
			err:        apperrors.New(apperrors.KindAlreadyVoted, "user has already voted on this trade"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "involved party",
			err:        apperrors.New(apperrors.KindInvolvedParty, "teams involved in the trade cannot vote on it"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "not in review",
			err:        apperrors.New(apperrors.KindTradeNotInReview, "trade is not in its review window"),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockReviewService{}
			h := NewReviewHandler(svc, testLogger())
			svc.On("CastVote", mock.Anything, "user-3", "trade-1", mock.Anything).
				Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/trades/trade-1/votes",
				strings.NewReader(`{"vote":"VETO"}`))
			req = requestWithParams(req, "user-3", map[string]string{"tradeID": "trade-1"})
			rec := httptest.NewRecorder()

			h.CastVote(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetTallyHandler(t *testing.T) {
	svc := &mockReviewService{}
	h := NewReviewHandler(svc, testLogger())
	svc.On("GetTally", mock.Anything, "trade-1").
		Return(&domain.VoteTally{Vetoes: 3, Approvals: 2, EligibleVoters: 8, VetoThreshold: 4}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trades/trade-1/votes/tally", nil)
	req = requestWithParams(req, "", map[string]string{"tradeID": "trade-1"})
	rec := httptest.NewRecorder()

	h.GetTally(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var tally domain.VoteTally
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tally))
	assert.Equal(t, 3, tally.Vetoes)
	assert.Equal(t, 4, tally.VetoThreshold)
}

func TestFinalizeReviewsHandler(t *testing.T) {
	svc := &mockReviewService{}
	h := NewReviewHandler(svc, testLogger())
	svc.On("FinalizeExpiredReviews", mock.Anything, "league-1").Return(2, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leagues/league-1/reviews/finalize", nil)
	req = requestWithParams(req, "user-1", map[string]string{"leagueID": "league-1"})
	rec := httptest.NewRecorder()

	h.FinalizeReviews(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body["settled"])
}
