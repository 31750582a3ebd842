package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leagueops/internal/domain"
	"leagueops/internal/repository"
	apperrors "leagueops/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const pgUniqueViolation = "23505"

// reviewService coordinates the veto window on accepted trades.
type reviewService struct {
	repos      *repository.Repositories
	settlement *SettlementEngine
	cache      *CacheService
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(repos *repository.Repositories, settlement *SettlementEngine,
	cache *CacheService, notifier Notifier, logger *zap.Logger) ReviewService {
	return &reviewService{
		repos:      repos,
		settlement: settlement,
		cache:      cache,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// CastVote records a vote on a trade under review and, when the veto quorum
// is reached, reverses the trade. Duplicate votes are rejected through the
// database unique constraint rather than a check-then-insert.
func (s *reviewService) CastVote(ctx context.Context, userID, tradeID string, req *domain.CastVoteRequest) (*domain.CastVoteResponse, error) {
	if req.Vote != domain.VoteVeto && req.Vote != domain.VoteApprove {
		return nil, apperrors.Newf(apperrors.KindInvalidRequest, "unknown vote value %q", req.Vote)
	}

	trade, err := s.repos.Trade.GetByID(ctx, tradeID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load trade", err)
	}
	if trade == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "trade not found")
	}
	if !trade.InReview(s.now()) {
		return nil, apperrors.New(apperrors.KindTradeNotInReview, "trade is not in its review window")
	}

	voter, err := s.repos.League.GetTeamByOwner(ctx, trade.LeagueID, userID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to look up voter", err)
	}
	if voter == nil {
		return nil, apperrors.New(apperrors.KindNotInLeague, "user has no team in this league")
	}
	if trade.Involves(voter.ID) {
		return nil, apperrors.New(apperrors.KindInvolvedParty, "teams involved in the trade cannot vote on it")
	}

	vote := &domain.VetoVote{
		ID:      uuid.NewString(),
		TradeID: tradeID,
		UserID:  userID,
		Vote:    req.Vote,
		Reason:  req.Reason,
	}
	if err := s.repos.Vote.Create(ctx, vote); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperrors.New(apperrors.KindAlreadyVoted, "user has already voted on this trade")
		}
		return nil, apperrors.NewInternal("failed to record vote", err)
	}

	s.cache.InvalidateTradeTally(ctx, tradeID)

	tally, err := s.computeTally(ctx, trade)
	if err != nil {
		return nil, err
	}

	status := trade.Status
	if tally.QuorumReached() {
		vetoed, err := s.repos.Trade.MarkVetoed(ctx, tradeID)
		if err != nil {
			return nil, apperrors.NewInternal("failed to veto trade", err)
		}
		if vetoed {
			status = domain.TradeVetoed
			s.logger.Info("Trade vetoed by league vote",
				zap.String("trade_id", tradeID),
				zap.Int("vetoes", tally.Vetoes),
				zap.Int("threshold", tally.VetoThreshold))
			s.notifyInvolved(ctx, trade,
				fmt.Sprintf("Trade %s was vetoed by league vote (%d vetoes)", tradeID, tally.Vetoes))
		}
	}

	return &domain.CastVoteResponse{Status: status, Tally: *tally}, nil
}

// GetTally returns the current veto arithmetic for a trade, serving from
// cache when a fresh tally is available.
func (s *reviewService) GetTally(ctx context.Context, tradeID string) (*domain.VoteTally, error) {
	if cached := s.cache.GetTradeTallyCached(ctx, tradeID); cached != nil {
		return cached, nil
	}

	trade, err := s.repos.Trade.GetByID(ctx, tradeID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load trade", err)
	}
	if trade == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "trade not found")
	}

	tally, err := s.computeTally(ctx, trade)
	if err != nil {
		return nil, err
	}
	s.cache.SetTradeTallyCached(ctx, tradeID, tally)
	return tally, nil
}

// FinalizeExpiredReviews settles accepted trades whose review deadline has
// passed without a veto quorum. The tally is recomputed per trade before
// any roster moves: a quorum already on record vetoes the trade here even
// if the status flip at vote time was lost. One failing trade never blocks
// the rest.
func (s *reviewService) FinalizeExpiredReviews(ctx context.Context, leagueID string) (int, error) {
	trades, err := s.repos.Trade.ListReviewExpired(ctx, leagueID, s.now())
	if err != nil {
		return 0, apperrors.NewInternal("failed to list trades awaiting settlement", err)
	}

	settled := 0
	for _, trade := range trades {
		tally, err := s.computeTally(ctx, trade)
		if err != nil {
			s.logger.Error("Failed to tally votes before settlement",
				zap.String("trade_id", trade.ID),
				zap.Error(err))
			continue
		}
		if tally.QuorumReached() {
			vetoed, err := s.repos.Trade.MarkVetoed(ctx, trade.ID)
			if err != nil {
				s.logger.Error("Failed to veto trade with quorum on record",
					zap.String("trade_id", trade.ID),
					zap.Error(err))
				continue
			}
			if vetoed {
				s.logger.Info("Trade vetoed at review close",
					zap.String("trade_id", trade.ID),
					zap.Int("vetoes", tally.Vetoes),
					zap.Int("threshold", tally.VetoThreshold))
				s.notifyInvolved(ctx, trade,
					fmt.Sprintf("Trade %s was vetoed by league vote (%d vetoes)", trade.ID, tally.Vetoes))
			}
			continue
		}

		if err := s.settlement.SettleTradeFinal(ctx, trade); err != nil {
			s.logger.Error("Failed to settle trade after review window",
				zap.String("trade_id", trade.ID),
				zap.Error(err))
			continue
		}
		settled++
		s.notifyInvolved(ctx, trade,
			fmt.Sprintf("Trade %s cleared league review and has been settled", trade.ID))
	}

	if settled > 0 {
		s.logger.Info("Review window settlements completed",
			zap.String("league_id", leagueID),
			zap.Int("settled", settled),
			zap.Int("candidates", len(trades)))
	}
	return settled, nil
}

func (s *reviewService) computeTally(ctx context.Context, trade *domain.Trade) (*domain.VoteTally, error) {
	vetoes, approvals, err := s.repos.Vote.CountByTrade(ctx, trade.ID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to count votes", err)
	}
	totalTeams, err := s.repos.League.CountTeams(ctx, trade.LeagueID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to count league teams", err)
	}

	eligible, threshold := domain.VetoThreshold(totalTeams, len(trade.InvolvedTeamIDs()))
	return &domain.VoteTally{
		Vetoes:         vetoes,
		Approvals:      approvals,
		EligibleVoters: eligible,
		VetoThreshold:  threshold,
	}, nil
}

func (s *reviewService) notifyInvolved(ctx context.Context, trade *domain.Trade, message string) {
	var targets []string
	for _, teamID := range trade.InvolvedTeamIDs() {
		team, err := s.repos.League.GetTeam(ctx, teamID)
		if err != nil || team == nil {
			continue
		}
		targets = append(targets, team.OwnerUserID)
	}
	if len(targets) > 0 {
		s.notifier.Notify(ctx, targets, message)
	}
}
