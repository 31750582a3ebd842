package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"leagueops/internal/domain"
	"leagueops/internal/service"
	apperrors "leagueops/pkg/errors"
	"leagueops/pkg/logger"

	"github.com/go-chi/chi/v5"
)

const defaultListLimit = 50

// TradeHandler exposes the trade proposal lifecycle over HTTP.
type TradeHandler struct {
	tradeService service.TradeService
	logger       *logger.Logger
}

// NewTradeHandler creates a new trade handler
func NewTradeHandler(tradeService service.TradeService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
		logger:       logger,
	}
}

// CreateProposal handles POST /api/v1/trades
func (h *TradeHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r, h.logger)
	if !ok {
		return
	}

	var req domain.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Invalid request body"))
		return
	}
	req.IdempotencyToken = r.Header.Get("Idempotency-Key")

	resp, err := h.tradeService.CreateProposal(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// RespondToProposal handles POST /api/v1/trades/{tradeID}/respond
func (h *TradeHandler) RespondToProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r, h.logger)
	if !ok {
		return
	}

	tradeID := chi.URLParam(r, "tradeID")
	if tradeID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Trade ID is required"))
		return
	}

	var req domain.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Invalid request body"))
		return
	}

	resp, err := h.tradeService.RespondToProposal(r.Context(), userID, tradeID, &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// CancelProposal handles POST /api/v1/trades/{tradeID}/cancel
func (h *TradeHandler) CancelProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r, h.logger)
	if !ok {
		return
	}

	tradeID := chi.URLParam(r, "tradeID")
	if tradeID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Trade ID is required"))
		return
	}

	if err := h.tradeService.CancelProposal(r.Context(), userID, tradeID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": string(domain.TradeCancelled)})
}

// GetTrade handles GET /api/v1/trades/{tradeID}
func (h *TradeHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "tradeID")
	if tradeID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "Trade ID is required"))
		return
	}

	trade, err := h.tradeService.GetTrade(r.Context(), tradeID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, trade)
}

// ListTrades handles GET /api/v1/leagues/{leagueID}/trades
func (h *TradeHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "League ID is required"))
		return
	}

	trades, err := h.tradeService.ListTrades(r.Context(), leagueID, listLimit(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
		"count":  len(trades),
	})
}

// ListTransactions handles GET /api/v1/leagues/{leagueID}/transactions
func (h *TradeHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	if leagueID == "" {
		respondError(w, h.logger, apperrors.New(apperrors.KindInvalidRequest, "League ID is required"))
		return
	}

	entries, err := h.tradeService.ListTransactions(r.Context(), leagueID, listLimit(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": entries,
		"count":        len(entries),
	})
}

// listLimit parses the optional limit query parameter.
func listLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 200 {
			return limit
		}
	}
	return defaultListLimit
}
