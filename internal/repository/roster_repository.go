package repository

import (
	"context"
	"fmt"

	"leagueops/internal/domain"
	"leagueops/pkg/database"
)

// rosterRepository reads roster state from PostgreSQL
type rosterRepository struct {
	db *database.PostgresDB
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *database.PostgresDB) RosterRepository {
	return &rosterRepository{db: db}
}

// GetRoster retrieves a team's current roster.
func (r *rosterRepository) GetRoster(ctx context.Context, teamID string) (*domain.Roster, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, team_id, player_id, slot, locked, acquired_at
		FROM roster_players
		WHERE team_id = $1
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	defer rows.Close()

	var players []domain.RosterPlayer
	for rows.Next() {
		var p domain.RosterPlayer
		if err := rows.Scan(&p.ID, &p.TeamID, &p.PlayerID, &p.Slot, &p.Locked, &p.AcquiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	return domain.NewRoster(teamID, players), nil
}

// IsPlayerRostered reports whether any team in the league currently rosters
// the player.
func (r *rosterRepository) IsPlayerRostered(ctx context.Context, leagueID, playerID string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM roster_players rp
			JOIN teams t ON t.id = rp.team_id
			WHERE t.league_id = $1 AND rp.player_id = $2
		)
	`, leagueID, playerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check player ownership: %w", err)
	}
	return exists, nil
}
