package service

import (
	"context"
	"fmt"
	"time"

	"leagueops/internal/domain"
	"leagueops/internal/repository"
	apperrors "leagueops/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TradeServiceConfig carries the tunables for proposal handling.
type TradeServiceConfig struct {
	MaxItems    int
	ExpiryHours int
}

// tradeService implements TradeService on top of the validator, the
// settlement engine, and the repositories.
type tradeService struct {
	repos      *repository.Repositories
	validator  *Validator
	settlement *SettlementEngine
	cache      *CacheService
	notifier   Notifier
	cfg        TradeServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewTradeService creates a new trade service
func NewTradeService(repos *repository.Repositories, validator *Validator, settlement *SettlementEngine,
	cache *CacheService, notifier Notifier, cfg TradeServiceConfig, logger *zap.Logger) TradeService {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 20
	}
	if cfg.ExpiryHours <= 0 {
		cfg.ExpiryHours = 72
	}
	return &tradeService{
		repos:      repos,
		validator:  validator,
		settlement: settlement,
		cache:      cache,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateProposal validates and persists a new trade proposal. A request
// carrying an idempotency token is accepted at most once per token.
func (s *tradeService) CreateProposal(ctx context.Context, userID string, req *domain.CreateProposalRequest) (*domain.ProposalResponse, error) {
	if req.IdempotencyToken != "" {
		fresh, err := s.cache.TryIdempotency(ctx, req.IdempotencyToken)
		if err != nil {
			return nil, apperrors.NewInternal("failed to check idempotency token", err)
		}
		if !fresh {
			return nil, apperrors.New(apperrors.KindAlreadyProcessed, "duplicate proposal submission")
		}
	}

	if _, err := s.validator.ValidateProposalCreation(ctx, userID, req, s.cfg.MaxItems); err != nil {
		return nil, err
	}

	trade := s.buildTrade(req)
	if err := s.repos.Trade.Create(ctx, trade); err != nil {
		return nil, apperrors.NewInternal("failed to persist proposal", err)
	}

	s.logger.Info("Trade proposal created",
		zap.String("trade_id", trade.ID),
		zap.String("league_id", trade.LeagueID),
		zap.String("proposing_team_id", trade.ProposingTeamID),
		zap.Int("items", len(trade.Items)))

	s.notifyTeams(ctx, trade.CounterpartyTeamIDs(),
		fmt.Sprintf("New trade proposal %s awaits your response", trade.ID))

	return &domain.ProposalResponse{ID: trade.ID, Status: trade.Status}, nil
}

// buildTrade assembles a PENDING trade with fresh identifiers.
func (s *tradeService) buildTrade(req *domain.CreateProposalRequest) *domain.Trade {
	trade := &domain.Trade{
		ID:              uuid.NewString(),
		LeagueID:        req.LeagueID,
		ProposingTeamID: req.ProposingTeamID,
		Status:          domain.TradePending,
		Notes:           req.Notes,
		ExpiresAt:       s.now().Add(time.Duration(s.cfg.ExpiryHours) * time.Hour),
	}
	for _, in := range req.Items {
		trade.Items = append(trade.Items, domain.TradeItem{
			ID:             uuid.NewString(),
			FromTeamID:     in.FromTeamID,
			ToTeamID:       in.ToTeamID,
			ItemType:       in.ItemType,
			PlayerID:       in.PlayerID,
			DraftPickRound: in.DraftPickRound,
			FAABAmount:     in.FAABAmount,
		})
	}
	return trade
}

// RespondToProposal applies a counterparty's accept, reject, or counter.
func (s *tradeService) RespondToProposal(ctx context.Context, userID, tradeID string, req *domain.RespondRequest) (*domain.RespondResponse, error) {
	trade, err := s.repos.Trade.GetByID(ctx, tradeID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load proposal", err)
	}
	if trade == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "proposal not found")
	}

	responder, err := s.validator.ValidateResponse(ctx, userID, trade, s.now())
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case domain.ActionAccept:
		return s.accept(ctx, trade)
	case domain.ActionReject:
		return s.reject(ctx, trade)
	case domain.ActionCounter:
		return s.counter(ctx, userID, trade, responder, req.CounterOffer)
	default:
		return nil, apperrors.Newf(apperrors.KindInvalidRequest, "unknown action %q", req.Action)
	}
}

// accept settles immediately when the league has no veto period; otherwise
// it opens the review window and defers settlement until the window closes.
func (s *tradeService) accept(ctx context.Context, trade *domain.Trade) (*domain.RespondResponse, error) {
	settings, err := s.leagueSettings(ctx, trade.LeagueID)
	if err != nil {
		return nil, err
	}

	if !settings.HasVetoPeriod {
		if err := s.settlement.SettleTradeOnAccept(ctx, trade); err != nil {
			return nil, err
		}
		s.notifyTeams(ctx, trade.InvolvedTeamIDs(),
			fmt.Sprintf("Trade %s accepted and settled", trade.ID))
		return &domain.RespondResponse{Status: domain.TradeAccepted}, nil
	}

	deadline := s.now().Add(settings.VetoWindow())
	ok, err := s.repos.Trade.MarkAccepted(ctx, trade.ID, s.now(), &deadline)
	if err != nil {
		return nil, apperrors.NewInternal("failed to accept proposal", err)
	}
	if !ok {
		return nil, apperrors.New(apperrors.KindAlreadyProcessed, "proposal was already processed")
	}

	s.logger.Info("Trade accepted, review window open",
		zap.String("trade_id", trade.ID),
		zap.Time("review_deadline", deadline))

	s.notifyTeams(ctx, trade.InvolvedTeamIDs(),
		fmt.Sprintf("Trade %s accepted; league review open until %s", trade.ID, deadline.Format(time.RFC3339)))

	return &domain.RespondResponse{Status: domain.TradeAccepted, ReviewDeadline: &deadline}, nil
}

func (s *tradeService) reject(ctx context.Context, trade *domain.Trade) (*domain.RespondResponse, error) {
	ok, err := s.repos.Trade.UpdateStatusIf(ctx, trade.ID, domain.TradePending, domain.TradeRejected)
	if err != nil {
		return nil, apperrors.NewInternal("failed to reject proposal", err)
	}
	if !ok {
		return nil, apperrors.New(apperrors.KindAlreadyProcessed, "proposal was already processed")
	}

	s.notifyTeams(ctx, []string{trade.ProposingTeamID},
		fmt.Sprintf("Trade %s was rejected", trade.ID))

	return &domain.RespondResponse{Status: domain.TradeRejected}, nil
}

// counter creates a counter proposal from the responder and closes the
// original in the same transaction. The original closes only once the
// counter is durably created.
func (s *tradeService) counter(ctx context.Context, userID string, trade *domain.Trade, responder *domain.Team, offer *domain.CreateProposalRequest) (*domain.RespondResponse, error) {
	if offer == nil {
		return nil, apperrors.New(apperrors.KindInvalidRequest, "counter action requires a counter offer")
	}
	if offer.LeagueID != trade.LeagueID {
		return nil, apperrors.New(apperrors.KindInvalidRequest, "counter offer must stay in the same league")
	}
	if offer.ProposingTeamID != responder.ID {
		return nil, apperrors.New(apperrors.KindUnauthorized, "counter offer must come from the responding team")
	}

	if _, err := s.validator.ValidateProposalCreation(ctx, userID, offer, s.cfg.MaxItems); err != nil {
		return nil, err
	}

	counter := s.buildTrade(offer)
	closed, err := s.repos.Trade.CreateCounter(ctx, counter, trade.ID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to create counter proposal", err)
	}
	if !closed {
		return nil, apperrors.New(apperrors.KindAlreadyProcessed, "proposal was already processed")
	}

	s.logger.Info("Counter proposal created",
		zap.String("original_trade_id", trade.ID),
		zap.String("counter_trade_id", counter.ID))

	s.notifyTeams(ctx, counter.CounterpartyTeamIDs(),
		fmt.Sprintf("Counter offer %s replaces trade %s", counter.ID, trade.ID))

	return &domain.RespondResponse{Status: domain.TradeRejected, CounterProposalID: counter.ID}, nil
}

// CancelProposal withdraws a still-pending proposal. Only the proposer may
// cancel.
func (s *tradeService) CancelProposal(ctx context.Context, userID, tradeID string) error {
	trade, err := s.repos.Trade.GetByID(ctx, tradeID)
	if err != nil {
		return apperrors.NewInternal("failed to load proposal", err)
	}
	if trade == nil {
		return apperrors.New(apperrors.KindNotFound, "proposal not found")
	}

	if _, err := s.validator.requireTeamOwner(ctx, trade.ProposingTeamID, userID); err != nil {
		return err
	}

	ok, err := s.repos.Trade.UpdateStatusIf(ctx, tradeID, domain.TradePending, domain.TradeCancelled)
	if err != nil {
		return apperrors.NewInternal("failed to cancel proposal", err)
	}
	if !ok {
		return apperrors.New(apperrors.KindAlreadyProcessed, "proposal was already processed")
	}

	s.notifyTeams(ctx, trade.CounterpartyTeamIDs(),
		fmt.Sprintf("Trade %s was withdrawn", trade.ID))
	return nil
}

// GetTrade retrieves a trade, applying lazy expiry to the returned view so
// callers never see an elapsed proposal as PENDING.
func (s *tradeService) GetTrade(ctx context.Context, tradeID string) (*domain.Trade, error) {
	trade, err := s.repos.Trade.GetByID(ctx, tradeID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load proposal", err)
	}
	if trade == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "proposal not found")
	}
	if trade.Status == domain.TradePending && trade.IsExpired(s.now()) {
		if _, err := s.repos.Trade.UpdateStatusIf(ctx, trade.ID, domain.TradePending, domain.TradeExpired); err != nil {
			s.logger.Warn("Failed to mark proposal expired",
				zap.String("trade_id", trade.ID),
				zap.Error(err))
		}
		trade.Status = domain.TradeExpired
	}
	return trade, nil
}

// ListTrades retrieves a league's trades, newest first.
func (s *tradeService) ListTrades(ctx context.Context, leagueID string, limit int) ([]*domain.Trade, error) {
	trades, err := s.repos.Trade.ListByLeague(ctx, leagueID, limit)
	if err != nil {
		return nil, apperrors.NewInternal("failed to list trades", err)
	}
	return trades, nil
}

// ListTransactions retrieves a league's settlement audit trail, newest first.
func (s *tradeService) ListTransactions(ctx context.Context, leagueID string, limit int) ([]*domain.TransactionLogEntry, error) {
	entries, err := s.repos.Log.ListByLeague(ctx, leagueID, limit)
	if err != nil {
		return nil, apperrors.NewInternal("failed to list transactions", err)
	}
	return entries, nil
}

func (s *tradeService) leagueSettings(ctx context.Context, leagueID string) (*domain.LeagueSettings, error) {
	settings, err := s.cache.GetLeagueSettingsWithCache(ctx, leagueID, s.repos.League.GetSettings)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load league settings", err)
	}
	if settings == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "league not found")
	}
	return settings, nil
}

// notifyTeams resolves team owners and hands the message to the notifier.
// Lookup failures only cost the notification, never the operation.
func (s *tradeService) notifyTeams(ctx context.Context, teamIDs []string, message string) {
	var targets []string
	for _, teamID := range teamIDs {
		team, err := s.repos.League.GetTeam(ctx, teamID)
		if err != nil || team == nil {
			s.logger.Warn("Failed to resolve notification target",
				zap.String("team_id", teamID),
				zap.Error(err))
			continue
		}
		targets = append(targets, team.OwnerUserID)
	}
	if len(targets) > 0 {
		s.notifier.Notify(ctx, targets, message)
	}
}
