package repository

import (
	"context"
	"time"

	"leagueops/internal/domain"
)

// TradeRepository persists proposals, their items, and status transitions.
// All status transitions are conditional on the current status so that
// concurrent responders cannot both win.
type TradeRepository interface {
	// Create inserts a trade and its items atomically
	Create(ctx context.Context, trade *domain.Trade) error

	// GetByID retrieves a trade with its items; returns nil when absent
	GetByID(ctx context.Context, id string) (*domain.Trade, error)

	// ListByLeague retrieves trades for a league, newest first
	ListByLeague(ctx context.Context, leagueID string, limit int) ([]*domain.Trade, error)

	// UpdateStatusIf transitions status from→to; false when the row was
	// no longer in the expected status
	UpdateStatusIf(ctx context.Context, id string, from, to domain.TradeStatus) (bool, error)

	// MarkAccepted transitions PENDING→ACCEPTED recording the acceptance
	// time and, for leagues with a veto period, the review deadline
	MarkAccepted(ctx context.Context, id string, acceptedAt time.Time, reviewDeadline *time.Time) (bool, error)

	// MarkVetoed transitions ACCEPTED→VETOED while the trade is still
	// unsettled; false once settlement has stamped processed_at
	MarkVetoed(ctx context.Context, id string) (bool, error)

	// CreateCounter inserts the counter proposal and closes the original
	// in one transaction; the original closes only if the counter insert
	// succeeds, and only while still PENDING
	CreateCounter(ctx context.Context, counter *domain.Trade, originalID string) (originalClosed bool, err error)

	// ListReviewExpired retrieves accepted trades whose review window has
	// closed without settlement
	ListReviewExpired(ctx context.Context, leagueID string, now time.Time) ([]*domain.Trade, error)
}

// WaiverRepository persists waiver claims.
type WaiverRepository interface {
	// Create inserts a new pending claim
	Create(ctx context.Context, claim *domain.WaiverClaim) error

	// GetByID retrieves a claim; returns nil when absent
	GetByID(ctx context.Context, id string) (*domain.WaiverClaim, error)

	// ListPending retrieves a league's pending claims in processing
	// order: priority ascending, then creation time ascending
	ListPending(ctx context.Context, leagueID string) ([]*domain.WaiverClaim, error)

	// MarkFailed records a claim failure with its reason
	MarkFailed(ctx context.Context, id, reason string, processedAt time.Time) error

	// DeletePending removes a still-pending claim owned by the team;
	// false when the claim was already processed or not owned
	DeletePending(ctx context.Context, id, teamID string) (bool, error)
}

// VoteRepository persists veto votes. Uniqueness per (trade, user) is a
// database constraint; Create surfaces the violation for the service to map.
type VoteRepository interface {
	// Create inserts a vote
	Create(ctx context.Context, vote *domain.VetoVote) error

	// CountByTrade tallies vetoes and approvals for a trade
	CountByTrade(ctx context.Context, tradeID string) (vetoes, approvals int, err error)
}

// RosterRepository reads roster state. Mutations go through the settlement
// engine only.
type RosterRepository interface {
	// GetRoster retrieves a team's current roster
	GetRoster(ctx context.Context, teamID string) (*domain.Roster, error)

	// IsPlayerRostered reports whether any team in the league currently
	// rosters the player
	IsPlayerRostered(ctx context.Context, leagueID, playerID string) (bool, error)
}

// LeagueRepository reads league configuration and team data.
type LeagueRepository interface {
	// GetSettings retrieves a league's parsed settings; nil when absent
	GetSettings(ctx context.Context, leagueID string) (*domain.LeagueSettings, error)

	// GetTeam retrieves a team; nil when absent
	GetTeam(ctx context.Context, teamID string) (*domain.Team, error)

	// GetTeamByOwner retrieves the team a user controls in a league;
	// nil when the user has no team there
	GetTeamByOwner(ctx context.Context, leagueID, userID string) (*domain.Team, error)

	// GetTeamBudget retrieves a team's FAAB budget position
	GetTeamBudget(ctx context.Context, teamID string) (*domain.TeamBudget, error)

	// CountTeams returns the number of teams in a league
	CountTeams(ctx context.Context, leagueID string) (int, error)
}

// TransactionLogRepository reads the append-only audit trail. Writes happen
// only inside settlement engine transactions.
type TransactionLogRepository interface {
	// ListByLeague retrieves recent log entries, newest first
	ListByLeague(ctx context.Context, leagueID string, limit int) ([]*domain.TransactionLogEntry, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Trade  TradeRepository
	Waiver WaiverRepository
	Vote   VoteRepository
	Roster RosterRepository
	League LeagueRepository
	Log    TransactionLogRepository
}
