package repository

import (
	"context"
	"fmt"

	"leagueops/internal/domain"
	"leagueops/pkg/database"
)

// logRepository reads the append-only transaction log from PostgreSQL
type logRepository struct {
	db *database.PostgresDB
}

// NewTransactionLogRepository creates a new transaction log repository
func NewTransactionLogRepository(db *database.PostgresDB) TransactionLogRepository {
	return &logRepository{db: db}
}

// ListByLeague retrieves recent log entries, newest first.
func (r *logRepository) ListByLeague(ctx context.Context, leagueID string, limit int) ([]*domain.TransactionLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, league_id, team_id, player_id, type, COALESCE(direction, ''),
		       COALESCE(counterparty_team_id::text, ''), COALESCE(reference_id::text, ''), created_at
		FROM transaction_log
		WHERE league_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction log: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TransactionLogEntry
	for rows.Next() {
		var e domain.TransactionLogEntry
		if err := rows.Scan(
			&e.ID,
			&e.LeagueID,
			&e.TeamID,
			&e.PlayerID,
			&e.Type,
			&e.Direction,
			&e.CounterpartyTeamID,
			&e.ReferenceID,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
