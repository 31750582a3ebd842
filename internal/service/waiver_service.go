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

// waiverService handles claim intake and the serialized processing batch.
type waiverService struct {
	repos      *repository.Repositories
	validator  *Validator
	settlement *SettlementEngine
	cache      *CacheService
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewWaiverService creates a new waiver service
func NewWaiverService(repos *repository.Repositories, validator *Validator, settlement *SettlementEngine,
	cache *CacheService, notifier Notifier, logger *zap.Logger) WaiverService {
	return &waiverService{
		repos:      repos,
		validator:  validator,
		settlement: settlement,
		cache:      cache,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitClaim validates and files a new waiver claim. The claim's priority
// snapshots the team's current waiver priority; FAAB leagues order by bid at
// processing time instead.
func (s *waiverService) SubmitClaim(ctx context.Context, userID string, req *domain.SubmitClaimRequest) (*domain.WaiverClaim, error) {
	settings, err := s.leagueSettings(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}

	team, err := s.validator.requireTeamOwner(ctx, req.TeamID, userID)
	if err != nil {
		return nil, err
	}
	if team.LeagueID != req.LeagueID {
		return nil, apperrors.New(apperrors.KindNotInLeague, "team does not belong to this league")
	}

	claim := &domain.WaiverClaim{
		ID:           uuid.NewString(),
		LeagueID:     req.LeagueID,
		TeamID:       req.TeamID,
		PlayerID:     req.PlayerID,
		DropPlayerID: req.DropPlayerID,
		FAABBid:      req.FAABBid,
		Priority:     team.WaiverPriority,
		Status:       domain.ClaimPending,
	}
	if err := s.validator.ValidateWaiverClaim(ctx, claim, settings); err != nil {
		return nil, err
	}

	if err := s.repos.Waiver.Create(ctx, claim); err != nil {
		return nil, apperrors.NewInternal("failed to file waiver claim", err)
	}

	s.logger.Info("Waiver claim filed",
		zap.String("claim_id", claim.ID),
		zap.String("league_id", claim.LeagueID),
		zap.String("team_id", claim.TeamID),
		zap.String("player_id", claim.PlayerID))

	return claim, nil
}

// CancelClaim withdraws a still-pending claim owned by the caller.
func (s *waiverService) CancelClaim(ctx context.Context, userID, claimID string) error {
	claim, err := s.repos.Waiver.GetByID(ctx, claimID)
	if err != nil {
		return apperrors.NewInternal("failed to load claim", err)
	}
	if claim == nil {
		return apperrors.New(apperrors.KindNotFound, "claim not found")
	}

	if _, err := s.validator.requireTeamOwner(ctx, claim.TeamID, userID); err != nil {
		return err
	}

	ok, err := s.repos.Waiver.DeletePending(ctx, claimID, claim.TeamID)
	if err != nil {
		return apperrors.NewInternal("failed to cancel claim", err)
	}
	if !ok {
		return apperrors.New(apperrors.KindAlreadyProcessed, "claim was already processed")
	}
	return nil
}

// ListPendingClaims retrieves a league's unprocessed claims in processing
// order.
func (s *waiverService) ListPendingClaims(ctx context.Context, leagueID string) ([]*domain.WaiverClaim, error) {
	claims, err := s.repos.Waiver.ListPending(ctx, leagueID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to list claims", err)
	}
	return claims, nil
}

// ProcessBatch runs one serialized waiver pass for a league. A Redis
// advisory lock keeps concurrent runs for the same league out; within the
// run each claim settles in its own transaction so one failure never rolls
// back earlier awards.
func (s *waiverService) ProcessBatch(ctx context.Context, leagueID string) (*domain.BatchResult, error) {
	settings, err := s.leagueSettings(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	acquired, err := s.cache.TryAcquireWaiverLock(ctx, leagueID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to acquire waiver processing lock", err)
	}
	if !acquired {
		return nil, apperrors.New(apperrors.KindAlreadyProcessed, "waiver processing is already running for this league")
	}
	defer s.cache.ReleaseWaiverLock(ctx, leagueID)

	claims, err := s.repos.Waiver.ListPending(ctx, leagueID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to list pending claims", err)
	}

	result := &domain.BatchResult{LeagueID: leagueID}
	granted := make(map[string]string) // playerID -> winning teamID within this batch

	for _, claim := range claims {
		reason := s.processClaim(ctx, claim, settings, granted)
		if reason == "" {
			granted[claim.PlayerID] = claim.TeamID
			result.Results = append(result.Results, domain.ClaimResult{
				ClaimID:  claim.ID,
				TeamID:   claim.TeamID,
				PlayerID: claim.PlayerID,
				Status:   domain.ClaimSuccessful,
			})
			result.Summary.Successful++
			s.notifyTeam(ctx, claim.TeamID,
				fmt.Sprintf("Waiver claim for player %s was awarded", claim.PlayerID))
			continue
		}

		if err := s.repos.Waiver.MarkFailed(ctx, claim.ID, reason, s.now()); err != nil {
			s.logger.Error("Failed to record claim failure",
				zap.String("claim_id", claim.ID),
				zap.Error(err))
		}
		result.Results = append(result.Results, domain.ClaimResult{
			ClaimID:  claim.ID,
			TeamID:   claim.TeamID,
			PlayerID: claim.PlayerID,
			Status:   domain.ClaimFailed,
			Reason:   reason,
		})
		result.Summary.Failed++
		s.notifyTeam(ctx, claim.TeamID,
			fmt.Sprintf("Waiver claim for player %s failed: %s", claim.PlayerID, reason))
	}

	result.Summary.Total = len(claims)
	s.logger.Info("Waiver batch processed",
		zap.String("league_id", leagueID),
		zap.Int("total", result.Summary.Total),
		zap.Int("successful", result.Summary.Successful),
		zap.Int("failed", result.Summary.Failed))

	return result, nil
}

// processClaim re-validates and settles one claim. It returns an empty
// string on success, otherwise the failure reason to record on the claim.
func (s *waiverService) processClaim(ctx context.Context, claim *domain.WaiverClaim, settings *domain.LeagueSettings, granted map[string]string) string {
	if _, taken := granted[claim.PlayerID]; taken {
		return "player already claimed by higher priority team"
	}

	// Conditions can drift between filing and processing; check again
	// against current state before moving anything.
	if err := s.validator.ValidateWaiverClaim(ctx, claim, settings); err != nil {
		if appErr, ok := apperrors.As(err); ok {
			return appErr.Message
		}
		s.logger.Error("Claim revalidation failed",
			zap.String("claim_id", claim.ID),
			zap.Error(err))
		return "claim could not be validated"
	}

	if err := s.settlement.ExecuteWaiverClaim(ctx, claim, settings); err != nil {
		if appErr, ok := apperrors.As(err); ok {
			return appErr.Message
		}
		s.logger.Error("Claim settlement failed",
			zap.String("claim_id", claim.ID),
			zap.Error(err))
		return "claim settlement failed"
	}
	return ""
}

func (s *waiverService) leagueSettings(ctx context.Context, leagueID string) (*domain.LeagueSettings, error) {
	settings, err := s.cache.GetLeagueSettingsWithCache(ctx, leagueID, s.repos.League.GetSettings)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load league settings", err)
	}
	if settings == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "league not found")
	}
	return settings, nil
}

func (s *waiverService) notifyTeam(ctx context.Context, teamID, message string) {
	team, err := s.repos.League.GetTeam(ctx, teamID)
	if err != nil || team == nil {
		return
	}
	s.notifier.Notify(ctx, []string{team.OwnerUserID}, message)
}
