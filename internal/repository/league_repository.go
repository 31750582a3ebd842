package repository

import (
	"context"
	"fmt"

	"leagueops/internal/domain"
	"leagueops/pkg/database"

	"github.com/jackc/pgx/v5"
)

// leagueRepository reads league configuration and team data from PostgreSQL
type leagueRepository struct {
	db *database.PostgresDB
}

// NewLeagueRepository creates a new league repository
func NewLeagueRepository(db *database.PostgresDB) LeagueRepository {
	return &leagueRepository{db: db}
}

// GetSettings retrieves a league's parsed settings.
func (r *leagueRepository) GetSettings(ctx context.Context, leagueID string) (*domain.LeagueSettings, error) {
	var s domain.LeagueSettings
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, waiver_mode, has_veto_period, veto_window_hours, max_roster_size, faab_budget
		FROM leagues
		WHERE id = $1
	`, leagueID).Scan(
		&s.LeagueID,
		&s.Name,
		&s.WaiverMode,
		&s.HasVetoPeriod,
		&s.VetoWindowHours,
		&s.MaxRosterSize,
		&s.FAABBudget,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league settings: %w", err)
	}
	return &s, nil
}

// GetTeam retrieves a team.
func (r *leagueRepository) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, league_id, owner_user_id, name, waiver_priority, faab_spent, created_at
		FROM teams
		WHERE id = $1
	`, teamID).Scan(
		&team.ID,
		&team.LeagueID,
		&team.OwnerUserID,
		&team.Name,
		&team.WaiverPriority,
		&team.FAABSpent,
		&team.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// GetTeamByOwner retrieves the team a user controls in a league.
func (r *leagueRepository) GetTeamByOwner(ctx context.Context, leagueID, userID string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, league_id, owner_user_id, name, waiver_priority, faab_spent, created_at
		FROM teams
		WHERE league_id = $1 AND owner_user_id = $2
	`, leagueID, userID).Scan(
		&team.ID,
		&team.LeagueID,
		&team.OwnerUserID,
		&team.Name,
		&team.WaiverPriority,
		&team.FAABSpent,
		&team.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by owner: %w", err)
	}
	return &team, nil
}

// GetTeamBudget retrieves a team's FAAB position: the league budget and the
// team's cumulative successful spend.
func (r *leagueRepository) GetTeamBudget(ctx context.Context, teamID string) (*domain.TeamBudget, error) {
	var budget domain.TeamBudget
	err := r.db.Pool.QueryRow(ctx, `
		SELECT l.faab_budget, t.faab_spent
		FROM teams t
		JOIN leagues l ON l.id = t.league_id
		WHERE t.id = $1
	`, teamID).Scan(&budget.Budget, &budget.Spent)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team budget: %w", err)
	}
	return &budget, nil
}

// CountTeams returns the number of teams in a league.
func (r *leagueRepository) CountTeams(ctx context.Context, leagueID string) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM teams WHERE league_id = $1
	`, leagueID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
