package handler

import (
	"encoding/json"
	"net/http"

	"leagueops/internal/domain"
	"leagueops/internal/service"
	apperrors "leagueops/pkg/errors"
	"leagueops/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// ReviewHandler exposes the trade review window over HTTP.
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService service.ReviewService, logger *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// CastVote handles POST /api/v1/trades/{tradeID}/votes
func (h *ReviewHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r, h.logger)
	if !ok {
		return
	}

	tradeID := chi.URLParam(r, "tradeID")
	if tradeID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Trade ID is required"))
		return
	}

	var req domain.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Invalid request body"))
		return
	}

	resp, err := h.reviewService.CastVote(r.Context(), userID, tradeID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// GetTally handles GET /api/v1/trades/{tradeID}/votes/tally
func (h *ReviewHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "tradeID")
	if tradeID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Trade ID is required"))
		return
	}

	tally, err := h.reviewService.GetTally(r.Context(), tradeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, tally)
}

// FinalizeReviews handles POST /api/v1/leagues/{leagueID}/reviews/finalize
func (h *ReviewHandler) FinalizeReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := authenticatedUser(w, r, h.logger); !ok {
		return
	}

	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "League ID is required"))
		return
	}

	settled, err := h.reviewService.FinalizeExpiredReviews(r.Context(), leagueID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"settled": settled})
}
