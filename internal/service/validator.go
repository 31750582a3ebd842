package service

import (
	"context"
	"fmt"
	"time"

	"leagueops/internal/domain"
	"leagueops/internal/repository"
	apperrors "leagueops/pkg/errors"

	"go.uber.org/zap"
)

// Validator gatekeeps every mutating operation before it reaches the
// settlement engine. Creation-time checks are cheap; response-time and
// batch-time checks re-read the authoritative roster state because the
// world may have changed since the proposal was filed.
type Validator struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewValidator creates a new validator
func NewValidator(repos *repository.Repositories, logger *zap.Logger) *Validator {
	return &Validator{repos: repos, logger: logger}
}

// ValidateProposalCreation checks a new proposal against league membership,
// item bounds, and current roster contents. Returns the proposing team on
// success.
func (v *Validator) ValidateProposalCreation(ctx context.Context, userID string, req *domain.CreateProposalRequest, maxItems int) (*domain.Team, error) {
	settings, err := v.repos.League.GetSettings(ctx, req.LeagueID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load league", err)
	}
	if settings == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "league not found")
	}

	team, err := v.repos.League.GetTeam(ctx, req.ProposingTeamID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load proposing team", err)
	}
	if team == nil || team.LeagueID != req.LeagueID {
		return nil, apperrors.New(apperrors.KindNotFound, "proposing team not found in league")
	}
	if team.OwnerUserID != userID {
		return nil, apperrors.New(apperrors.KindUnauthorized, "user does not control the proposing team")
	}

	if len(req.Items) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidItems, "proposal has no items")
	}
	if len(req.Items) > maxItems {
		return nil, apperrors.Newf(apperrors.KindInvalidItems, "proposal exceeds %d items", maxItems)
	}
	if len(req.Notes) > domain.MaxNotesLength {
		return nil, apperrors.Newf(apperrors.KindInvalidRequest, "notes exceed %d characters", domain.MaxNotesLength)
	}

	// Ownership checks group items by their source team to avoid
	// re-reading the same roster per item.
	rosters := make(map[string]*domain.Roster)
	for _, item := range req.Items {
		if item.FromTeamID == item.ToTeamID {
			return nil, apperrors.New(apperrors.KindInvalidItems, "item moves between the same team")
		}
		if item.FromTeamID == "" || item.ToTeamID == "" {
			return nil, apperrors.New(apperrors.KindInvalidItems, "item is missing a team")
		}

		for _, teamID := range []string{item.FromTeamID, item.ToTeamID} {
			itemTeam, err := v.repos.League.GetTeam(ctx, teamID)
			if err != nil {
				return nil, apperrors.NewInternal("failed to load item team", err)
			}
			if itemTeam == nil || itemTeam.LeagueID != req.LeagueID {
				return nil, apperrors.New(apperrors.KindInvalidItems, "item references a team outside the league")
			}
		}

		switch item.ItemType {
		case domain.ItemPlayer:
			if item.PlayerID == "" {
				return nil, apperrors.New(apperrors.KindInvalidItems, "player item is missing a player id")
			}
			roster, ok := rosters[item.FromTeamID]
			if !ok {
				roster, err = v.repos.Roster.GetRoster(ctx, item.FromTeamID)
				if err != nil {
					return nil, apperrors.NewInternal("failed to load roster", err)
				}
				rosters[item.FromTeamID] = roster
			}
			if !roster.Has(item.PlayerID) {
				return nil, apperrors.Newf(apperrors.KindInvalidItems, "player %s is not on the sending roster", item.PlayerID)
			}
		case domain.ItemFAAB:
			if item.FAABAmount <= 0 {
				return nil, apperrors.New(apperrors.KindInvalidItems, "faab item amount must be positive")
			}
		case domain.ItemDraftPick:
			if item.DraftPickRound <= 0 {
				return nil, apperrors.New(apperrors.KindInvalidItems, "draft pick item is missing a round")
			}
		default:
			return nil, apperrors.Newf(apperrors.KindInvalidItems, "unknown item type %q", item.ItemType)
		}
	}

	return team, nil
}

// ValidateResponse checks that a response to a proposal is still possible:
// the proposal must not have expired (checked before anything else; lazy
// expiry marks the row as a side effect), must still be pending, the actor
// must be a counterparty, and every referenced player must still be where
// the proposal says it is.
func (v *Validator) ValidateResponse(ctx context.Context, userID string, trade *domain.Trade, now time.Time) (*domain.Team, error) {
	if trade.Status == domain.TradeExpired {
		return nil, apperrors.New(apperrors.KindExpired, "proposal has expired")
	}
	if trade.Status == domain.TradePending && trade.IsExpired(now) {
		// Lazy expiry: mark the row so later reads see EXPIRED even
		// without a background sweep. Losing the conditional update
		// means someone else already transitioned it; the response
		// fails either way.
		if _, err := v.repos.Trade.UpdateStatusIf(ctx, trade.ID, domain.TradePending, domain.TradeExpired); err != nil {
			v.logger.Warn("Failed to mark proposal expired",
				zap.String("trade_id", trade.ID),
				zap.Error(err))
		}
		return nil, apperrors.New(apperrors.KindExpired, "proposal has expired")
	}
	if trade.Status != domain.TradePending {
		return nil, apperrors.Newf(apperrors.KindAlreadyProcessed, "proposal is %s", trade.Status)
	}

	team, err := v.repos.League.GetTeamByOwner(ctx, trade.LeagueID, userID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load responder team", err)
	}
	if team == nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "user has no team in this league")
	}
	if team.ID == trade.ProposingTeamID {
		return nil, apperrors.New(apperrors.KindSelfResponse, "proposer cannot respond to their own proposal")
	}
	if !trade.Involves(team.ID) {
		return nil, apperrors.New(apperrors.KindUnauthorized, "team is not a counterparty to this proposal")
	}

	// Freshness: every player item must still be on its sending roster
	// and tradeable.
	rosters := make(map[string]*domain.Roster)
	for _, item := range trade.Items {
		if item.ItemType != domain.ItemPlayer {
			continue
		}
		roster, ok := rosters[item.FromTeamID]
		if !ok {
			roster, err = v.repos.Roster.GetRoster(ctx, item.FromTeamID)
			if err != nil {
				return nil, apperrors.NewInternal("failed to load roster", err)
			}
			rosters[item.FromTeamID] = roster
		}
		if !roster.Has(item.PlayerID) {
			return nil, apperrors.Newf(apperrors.KindStaleRoster, "player %s is no longer on the sending roster", item.PlayerID)
		}
		if roster.IsLocked(item.PlayerID) {
			return nil, apperrors.Newf(apperrors.KindPlayerLocked, "player %s is locked for trading", item.PlayerID)
		}
	}

	return team, nil
}

// ValidateWaiverClaim checks a claim against roster capacity and, in FAAB
// leagues, remaining budget. Used both at submission (cheap acceptance) and
// again during batch processing (authoritative re-check).
func (v *Validator) ValidateWaiverClaim(ctx context.Context, claim *domain.WaiverClaim, settings *domain.LeagueSettings) error {
	rostered, err := v.repos.Roster.IsPlayerRostered(ctx, claim.LeagueID, claim.PlayerID)
	if err != nil {
		return apperrors.NewInternal("failed to check player availability", err)
	}
	if rostered {
		return apperrors.Newf(apperrors.KindInvalidRequest, "player %s is already rostered in this league", claim.PlayerID)
	}

	roster, err := v.repos.Roster.GetRoster(ctx, claim.TeamID)
	if err != nil {
		return apperrors.NewInternal("failed to load roster", err)
	}

	if claim.DropPlayerID != "" {
		if !roster.Has(claim.DropPlayerID) {
			return apperrors.Newf(apperrors.KindDropPlayerNotFound, "drop player %s is not on the roster", claim.DropPlayerID)
		}
	} else if roster.Size()+1 > settings.MaxRosterSize {
		return apperrors.Newf(apperrors.KindRosterFull, "roster is full (%d/%d); a drop player is required", roster.Size(), settings.MaxRosterSize)
	}

	switch settings.WaiverMode {
	case domain.WaiverModeFAAB:
		bid := 0
		if claim.FAABBid != nil {
			bid = *claim.FAABBid
		}
		if bid < 0 {
			return apperrors.New(apperrors.KindInvalidRequest, "faab bid cannot be negative")
		}
		budget, err := v.repos.League.GetTeamBudget(ctx, claim.TeamID)
		if err != nil {
			return apperrors.NewInternal("failed to load team budget", err)
		}
		if budget == nil {
			return apperrors.New(apperrors.KindNotFound, "team not found")
		}
		if bid > budget.Remaining() {
			return apperrors.Newf(apperrors.KindInsufficientBudget,
				"bid %d exceeds remaining budget %d", bid, budget.Remaining())
		}
	case domain.WaiverModeRolling:
		if claim.FAABBid != nil {
			return apperrors.New(apperrors.KindInvalidRequest, "faab bids are not accepted in a rolling-waiver league")
		}
	default:
		return apperrors.Newf(apperrors.KindInternal, "unknown waiver mode %q", settings.WaiverMode)
	}

	return nil
}

// requireTeamOwner resolves a team and confirms the acting user controls it.
func (v *Validator) requireTeamOwner(ctx context.Context, teamID, userID string) (*domain.Team, error) {
	team, err := v.repos.League.GetTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to load team", err)
	}
	if team == nil {
		return nil, apperrors.New(apperrors.KindNotFound, "team not found")
	}
	if team.OwnerUserID != userID {
		return nil, apperrors.New(apperrors.KindUnauthorized, fmt.Sprintf("user does not control team %s", teamID))
	}
	return team, nil
}
