package repository

import (
	"context"
	"fmt"
	"time"

	"leagueops/internal/domain"
	"leagueops/pkg/database"

	"github.com/jackc/pgx/v5"
)

// tradeRepository handles trade proposal persistence with PostgreSQL
type tradeRepository struct {
	db *database.PostgresDB
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *database.PostgresDB) TradeRepository {
	return &tradeRepository{db: db}
}

const tradeColumns = `id, league_id, proposing_team_id, status, COALESCE(notes, ''),
	expires_at, accepted_at, review_deadline, processed_at, created_at`

const tradeItemColumns = `id, trade_id, from_team_id, to_team_id, item_type,
	COALESCE(player_id, ''), COALESCE(draft_pick_round, 0), COALESCE(faab_amount, 0), position`

// Create inserts a trade and its items in one transaction.
func (r *tradeRepository) Create(ctx context.Context, trade *domain.Trade) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO trades (id, league_id, proposing_team_id, status, notes, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, trade.ID, trade.LeagueID, trade.ProposingTeamID, trade.Status, trade.Notes, trade.ExpiresAt).
		Scan(&trade.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	for i := range trade.Items {
		item := &trade.Items[i]
		item.TradeID = trade.ID
		item.Position = i
		if err := insertTradeItem(ctx, tx, item); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}
	return nil
}

func insertTradeItem(ctx context.Context, tx pgx.Tx, item *domain.TradeItem) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO trade_items (id, trade_id, from_team_id, to_team_id, item_type, player_id, draft_pick_round, faab_amount, position)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, 0), $8, $9)
	`, item.ID, item.TradeID, item.FromTeamID, item.ToTeamID, item.ItemType,
		item.PlayerID, item.DraftPickRound, item.FAABAmount, item.Position)
	if err != nil {
		return fmt.Errorf("failed to insert trade item: %w", err)
	}
	return nil
}

// GetByID retrieves a trade with its items.
func (r *tradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	var trade domain.Trade
	err := r.db.Pool.QueryRow(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE id = $1
	`, id).Scan(
		&trade.ID,
		&trade.LeagueID,
		&trade.ProposingTeamID,
		&trade.Status,
		&trade.Notes,
		&trade.ExpiresAt,
		&trade.AcceptedAt,
		&trade.ReviewDeadline,
		&trade.ProcessedAt,
		&trade.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}

	items, err := r.itemsForTrade(ctx, trade.ID)
	if err != nil {
		return nil, err
	}
	trade.Items = items

	return &trade, nil
}

func (r *tradeRepository) itemsForTrade(ctx context.Context, tradeID string) ([]domain.TradeItem, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+tradeItemColumns+`
		FROM trade_items
		WHERE trade_id = $1
		ORDER BY position ASC
	`, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade items: %w", err)
	}
	defer rows.Close()

	var items []domain.TradeItem
	for rows.Next() {
		var item domain.TradeItem
		if err := rows.Scan(
			&item.ID,
			&item.TradeID,
			&item.FromTeamID,
			&item.ToTeamID,
			&item.ItemType,
			&item.PlayerID,
			&item.DraftPickRound,
			&item.FAABAmount,
			&item.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListByLeague retrieves trades for a league, newest first.
func (r *tradeRepository) ListByLeague(ctx context.Context, leagueID string, limit int) ([]*domain.Trade, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE league_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	trades, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}

	for _, trade := range trades {
		items, err := r.itemsForTrade(ctx, trade.ID)
		if err != nil {
			return nil, err
		}
		trade.Items = items
	}
	return trades, nil
}

func scanTrades(rows pgx.Rows) ([]*domain.Trade, error) {
	var trades []*domain.Trade
	for rows.Next() {
		var trade domain.Trade
		if err := rows.Scan(
			&trade.ID,
			&trade.LeagueID,
			&trade.ProposingTeamID,
			&trade.Status,
			&trade.Notes,
			&trade.ExpiresAt,
			&trade.AcceptedAt,
			&trade.ReviewDeadline,
			&trade.ProcessedAt,
			&trade.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, &trade)
	}
	return trades, rows.Err()
}

// UpdateStatusIf transitions a trade's status only when it still holds the
// expected one. The conditional WHERE is what guarantees a single winner
// under concurrent responses.
func (r *tradeRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.TradeStatus) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trades
		SET status = $3, processed_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to update trade status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkVetoed transitions ACCEPTED→VETOED, but only while the trade is
// still unsettled. Once settlement stamps processed_at the veto window is
// over for good; a vote that committed its quorum check before settlement
// must not flip a trade whose roster moves already stand.
func (r *tradeRepository) MarkVetoed(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trades
		SET status = $2, processed_at = NOW()
		WHERE id = $1 AND status = $3 AND processed_at IS NULL
	`, id, domain.TradeVetoed, domain.TradeAccepted)
	if err != nil {
		return false, fmt.Errorf("failed to veto trade: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkAccepted transitions PENDING→ACCEPTED. reviewDeadline is nil for
// leagues without a veto period; those trades settle immediately.
func (r *tradeRepository) MarkAccepted(ctx context.Context, id string, acceptedAt time.Time, reviewDeadline *time.Time) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE trades
		SET status = $2, accepted_at = $3, review_deadline = $4
		WHERE id = $1 AND status = $5
	`, id, domain.TradeAccepted, acceptedAt, reviewDeadline, domain.TradePending)
	if err != nil {
		return false, fmt.Errorf("failed to mark trade accepted: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CreateCounter inserts the counter proposal and closes the original in one
// transaction. The original is closed only after the counter insert
// succeeded, so a failed counter never orphans the original.
func (r *tradeRepository) CreateCounter(ctx context.Context, counter *domain.Trade, originalID string) (bool, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO trades (id, league_id, proposing_team_id, status, notes, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, counter.ID, counter.LeagueID, counter.ProposingTeamID, counter.Status, counter.Notes, counter.ExpiresAt).
		Scan(&counter.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert counter proposal: %w", err)
	}

	for i := range counter.Items {
		item := &counter.Items[i]
		item.TradeID = counter.ID
		item.Position = i
		if err := insertTradeItem(ctx, tx, item); err != nil {
			return false, err
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE trades
		SET status = $2, processed_at = NOW()
		WHERE id = $1 AND status = $3
	`, originalID, domain.TradeRejected, domain.TradePending)
	if err != nil {
		return false, fmt.Errorf("failed to close original proposal: %w", err)
	}
	if tag.RowsAffected() != 1 {
		// Someone else already processed the original; abort the counter too.
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit counter proposal: %w", err)
	}
	return true, nil
}

// ListReviewExpired retrieves accepted trades whose review window closed
// without settlement.
func (r *tradeRepository) ListReviewExpired(ctx context.Context, leagueID string, now time.Time) ([]*domain.Trade, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE league_id = $1
		  AND status = $2
		  AND review_deadline IS NOT NULL
		  AND review_deadline <= $3
		  AND processed_at IS NULL
		ORDER BY review_deadline ASC
	`, leagueID, domain.TradeAccepted, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list review-expired trades: %w", err)
	}
	defer rows.Close()

	trades, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}

	for _, trade := range trades {
		items, err := r.itemsForTrade(ctx, trade.ID)
		if err != nil {
			return nil, err
		}
		trade.Items = items
	}
	return trades, nil
}
