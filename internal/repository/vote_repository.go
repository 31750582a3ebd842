package repository

import (
	"context"
	"fmt"

	"leagueops/internal/domain"
	"leagueops/pkg/database"
)

// voteRepository handles veto vote persistence with PostgreSQL
type voteRepository struct {
	db *database.PostgresDB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *database.PostgresDB) VoteRepository {
	return &voteRepository{db: db}
}

// Create inserts a vote. Duplicate submissions hit the (trade_id, user_id)
// unique constraint; the raw pg error is preserved in the chain so the
// service can map it to ALREADY_VOTED.
func (r *voteRepository) Create(ctx context.Context, vote *domain.VetoVote) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO veto_votes (id, trade_id, user_id, vote, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, vote.ID, vote.TradeID, vote.UserID, vote.Vote, vote.Reason).Scan(&vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create veto vote: %w", err)
	}
	return nil
}

// CountByTrade tallies vetoes and approvals for a trade.
func (r *voteRepository) CountByTrade(ctx context.Context, tradeID string) (int, int, error) {
	var vetoes, approvals int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE vote = $2),
			COUNT(*) FILTER (WHERE vote = $3)
		FROM veto_votes
		WHERE trade_id = $1
	`, tradeID, domain.VoteVeto, domain.VoteApprove).Scan(&vetoes, &approvals)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return vetoes, approvals, nil
}
