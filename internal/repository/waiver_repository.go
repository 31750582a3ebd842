package repository

import (
	"context"
	"fmt"
	"time"

	"leagueops/internal/domain"
	"leagueops/pkg/database"

	"github.com/jackc/pgx/v5"
)

// waiverRepository handles waiver claim persistence with PostgreSQL
type waiverRepository struct {
	db *database.PostgresDB
}

// NewWaiverRepository creates a new waiver repository
func NewWaiverRepository(db *database.PostgresDB) WaiverRepository {
	return &waiverRepository{db: db}
}

const claimColumns = `id, league_id, team_id, player_id, COALESCE(drop_player_id, ''),
	faab_bid, priority, status, COALESCE(failure_reason, ''), created_at, processed_at`

// Create inserts a new pending claim.
func (r *waiverRepository) Create(ctx context.Context, claim *domain.WaiverClaim) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO waiver_claims (id, league_id, team_id, player_id, drop_player_id, faab_bid, priority, status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		RETURNING created_at
	`, claim.ID, claim.LeagueID, claim.TeamID, claim.PlayerID, claim.DropPlayerID,
		claim.FAABBid, claim.Priority, claim.Status).Scan(&claim.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create waiver claim: %w", err)
	}
	return nil
}

// GetByID retrieves a claim.
func (r *waiverRepository) GetByID(ctx context.Context, id string) (*domain.WaiverClaim, error) {
	var claim domain.WaiverClaim
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+claimColumns+`
		FROM waiver_claims
		WHERE id = $1
	`, id).Scan(
		&claim.ID,
		&claim.LeagueID,
		&claim.TeamID,
		&claim.PlayerID,
		&claim.DropPlayerID,
		&claim.FAABBid,
		&claim.Priority,
		&claim.Status,
		&claim.FailureReason,
		&claim.CreatedAt,
		&claim.ProcessedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get waiver claim: %w", err)
	}
	return &claim, nil
}

// ListPending retrieves pending claims in processing order. Priority ties
// break by creation time, which makes batch outcomes deterministic.
func (r *waiverRepository) ListPending(ctx context.Context, leagueID string) ([]*domain.WaiverClaim, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+claimColumns+`
		FROM waiver_claims
		WHERE league_id = $1 AND status = $2
		ORDER BY priority ASC, created_at ASC
	`, leagueID, domain.ClaimPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending claims: %w", err)
	}
	defer rows.Close()

	var claims []*domain.WaiverClaim
	for rows.Next() {
		var claim domain.WaiverClaim
		if err := rows.Scan(
			&claim.ID,
			&claim.LeagueID,
			&claim.TeamID,
			&claim.PlayerID,
			&claim.DropPlayerID,
			&claim.FAABBid,
			&claim.Priority,
			&claim.Status,
			&claim.FailureReason,
			&claim.CreatedAt,
			&claim.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan waiver claim: %w", err)
		}
		claims = append(claims, &claim)
	}
	return claims, rows.Err()
}

// MarkFailed records a claim failure with its reason.
func (r *waiverRepository) MarkFailed(ctx context.Context, id, reason string, processedAt time.Time) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE waiver_claims
		SET status = $2, failure_reason = $3, processed_at = $4
		WHERE id = $1
	`, id, domain.ClaimFailed, reason, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark claim failed: %w", err)
	}
	return nil
}

// DeletePending removes a still-pending claim owned by the team.
func (r *waiverRepository) DeletePending(ctx context.Context, id, teamID string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM waiver_claims
		WHERE id = $1 AND team_id = $2 AND status = $3
	`, id, teamID, domain.ClaimPending)
	if err != nil {
		return false, fmt.Errorf("failed to delete claim: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
