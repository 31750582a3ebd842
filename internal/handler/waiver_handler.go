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

// WaiverHandler exposes waiver claim intake and batch processing over HTTP.
type WaiverHandler struct {
	waiverService service.WaiverService
	logger        *logger.Logger
}

// NewWaiverHandler creates a new waiver handler
func NewWaiverHandler(waiverService service.WaiverService, logger *logger.Logger) *WaiverHandler {
	return &WaiverHandler{
		waiverService: waiverService,
		logger:        logger,
	}
}

// SubmitClaim handles POST /api/v1/waivers
func (h *WaiverHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r, h.logger)
	if !ok {
		return
	}

	var req domain.SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Invalid request body"))
		return
	}

	claim, err := h.waiverService.SubmitClaim(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, claim)
}

// CancelClaim handles DELETE /api/v1/waivers/{claimID}
func (h *WaiverHandler) CancelClaim(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r, h.logger)
	if !ok {
		return
	}

	claimID := chi.URLParam(r, "claimID")
	if claimID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Claim ID is required"))
		return
	}

	if err := h.waiverService.CancelClaim(r.Context(), userID, claimID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// ListPendingClaims handles GET /api/v1/leagues/{leagueID}/waivers
func (h *WaiverHandler) ListPendingClaims(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "League ID is required"))
		return
	}

	claims, err := h.waiverService.ListPendingClaims(r.Context(), leagueID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"claims": claims,
		"count":  len(claims),
	})
}

// ProcessBatch handles POST /api/v1/leagues/{leagueID}/waivers/process
func (h *WaiverHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	if _, ok := authenticatedUser(w, r, h.logger); !ok {
		return
	}

	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "League ID is required"))
		return
	}

	result, err := h.waiverService.ProcessBatch(r.Context(), leagueID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
