package service

import (
	"context"

	"leagueops/internal/domain"
	"leagueops/pkg/database"
	apperrors "leagueops/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SettlementEngine applies accepted proposals and successful claims as
// single atomic units. It is the only component that writes roster rows,
// team budget/priority fields, or transaction-log entries. Everything it
// does happens inside one pgx transaction per settlement action; any
// failure rolls the whole action back.
type SettlementEngine struct {
	db     *database.PostgresDB
	logger *zap.Logger
}

// NewSettlementEngine creates a new settlement engine
func NewSettlementEngine(db *database.PostgresDB, logger *zap.Logger) *SettlementEngine {
	return &SettlementEngine{db: db, logger: logger}
}

// SettleTradeOnAccept transitions a pending trade to ACCEPTED and applies
// its items in the same transaction. Used for leagues without a veto
// period, where acceptance and settlement are one step. The conditional
// status update makes concurrent responders race safely: the loser's
// transaction updates zero rows and fails with ALREADY_PROCESSED before
// touching any roster.
func (e *SettlementEngine) SettleTradeOnAccept(ctx context.Context, trade *domain.Trade) error {
	tx, err := e.db.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewInternal("failed to begin settlement", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE trades
		SET status = $2, accepted_at = NOW(), processed_at = NOW()
		WHERE id = $1 AND status = $3
	`, trade.ID, domain.TradeAccepted, domain.TradePending)
	if err != nil {
		return apperrors.NewInternal("failed to accept trade", err)
	}
	if tag.RowsAffected() != 1 {
		return apperrors.New(apperrors.KindAlreadyProcessed, "proposal was already processed")
	}

	if err := e.applyTradeItems(ctx, tx, trade); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewInternal("failed to commit trade settlement", err)
	}

	e.logger.Info("Trade settled",
		zap.String("trade_id", trade.ID),
		zap.String("league_id", trade.LeagueID),
		zap.Int("items", len(trade.Items)))
	return nil
}

// SettleTradeFinal applies an already-accepted trade after its review
// window closed without a veto quorum. The conditional update on
// processed_at makes finalization idempotent: a second run settles nothing.
func (e *SettlementEngine) SettleTradeFinal(ctx context.Context, trade *domain.Trade) error {
	tx, err := e.db.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewInternal("failed to begin settlement", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE trades
		SET processed_at = NOW()
		WHERE id = $1 AND status = $2 AND processed_at IS NULL
	`, trade.ID, domain.TradeAccepted)
	if err != nil {
		return apperrors.NewInternal("failed to finalize trade", err)
	}
	if tag.RowsAffected() != 1 {
		return apperrors.New(apperrors.KindAlreadyProcessed, "trade was already finalized or vetoed")
	}

	if err := e.applyTradeItems(ctx, tx, trade); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewInternal("failed to commit trade settlement", err)
	}

	e.logger.Info("Trade finalized after review",
		zap.String("trade_id", trade.ID),
		zap.String("league_id", trade.LeagueID))
	return nil
}

// applyTradeItems moves every item and writes the audit trail: one SENT
// entry for the sending team and one RECEIVED entry for the receiving team
// per player.
func (e *SettlementEngine) applyTradeItems(ctx context.Context, tx pgx.Tx, trade *domain.Trade) error {
	for _, item := range trade.Items {
		switch item.ItemType {
		case domain.ItemPlayer:
			if err := e.movePlayer(ctx, tx, trade, item); err != nil {
				return err
			}
		case domain.ItemFAAB:
			if err := e.moveFAAB(ctx, tx, item); err != nil {
				return err
			}
		case domain.ItemDraftPick:
			// Pick ownership lives in the draft subsystem; the item
			// rows on the accepted trade are its record of transfer.
		}
	}
	return nil
}

// movePlayer removes the player from the sending roster and benches them on
// the receiving roster. A zero-row delete means the roster changed after
// the last validation pass; the whole settlement aborts.
func (e *SettlementEngine) movePlayer(ctx context.Context, tx pgx.Tx, trade *domain.Trade, item domain.TradeItem) error {
	tag, err := tx.Exec(ctx, `
		DELETE FROM roster_players
		WHERE team_id = $1 AND player_id = $2
	`, item.FromTeamID, item.PlayerID)
	if err != nil {
		return apperrors.NewInternal("failed to remove player from roster", err)
	}
	if tag.RowsAffected() != 1 {
		return apperrors.Newf(apperrors.KindStaleRoster, "player %s is no longer on the sending roster", item.PlayerID)
	}

	// Incoming players land on the bench; lineup slotting is a separate
	// concern.
	_, err = tx.Exec(ctx, `
		INSERT INTO roster_players (id, team_id, player_id, slot)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), item.ToTeamID, item.PlayerID, domain.SlotBench)
	if err != nil {
		return apperrors.NewInternal("failed to add player to roster", err)
	}

	if err := e.logEntry(ctx, tx, trade.LeagueID, item.FromTeamID, item.PlayerID,
		domain.TransactionTrade, domain.DirectionSent, item.ToTeamID, trade.ID); err != nil {
		return err
	}
	return e.logEntry(ctx, tx, trade.LeagueID, item.ToTeamID, item.PlayerID,
		domain.TransactionTrade, domain.DirectionReceived, item.FromTeamID, trade.ID)
}

// moveFAAB shifts budget between teams. The sender's spend may not exceed
// the league budget; the receiver's spend floors at zero.
func (e *SettlementEngine) moveFAAB(ctx context.Context, tx pgx.Tx, item domain.TradeItem) error {
	tag, err := tx.Exec(ctx, `
		UPDATE teams t
		SET faab_spent = t.faab_spent + $2
		FROM leagues l
		WHERE t.id = $1 AND l.id = t.league_id AND t.faab_spent + $2 <= l.faab_budget
	`, item.FromTeamID, item.FAABAmount)
	if err != nil {
		return apperrors.NewInternal("failed to debit faab", err)
	}
	if tag.RowsAffected() != 1 {
		return apperrors.Newf(apperrors.KindInsufficientBudget, "team %s cannot cover %d faab", item.FromTeamID, item.FAABAmount)
	}

	_, err = tx.Exec(ctx, `
		UPDATE teams
		SET faab_spent = GREATEST(faab_spent - $2, 0)
		WHERE id = $1
	`, item.ToTeamID, item.FAABAmount)
	if err != nil {
		return apperrors.NewInternal("failed to credit faab", err)
	}
	return nil
}

// ExecuteWaiverClaim settles one successful claim: optional drop, the add,
// budget/priority bookkeeping, and the claim's own status flip, all in one
// transaction.
func (e *SettlementEngine) ExecuteWaiverClaim(ctx context.Context, claim *domain.WaiverClaim, settings *domain.LeagueSettings) error {
	tx, err := e.db.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewInternal("failed to begin settlement", err)
	}
	defer tx.Rollback(ctx)

	if claim.DropPlayerID != "" {
		tag, err := tx.Exec(ctx, `
			DELETE FROM roster_players
			WHERE team_id = $1 AND player_id = $2
		`, claim.TeamID, claim.DropPlayerID)
		if err != nil {
			return apperrors.NewInternal("failed to drop player", err)
		}
		if tag.RowsAffected() != 1 {
			return apperrors.Newf(apperrors.KindDropPlayerNotFound, "drop player %s is not on the roster", claim.DropPlayerID)
		}
		if err := e.logEntry(ctx, tx, claim.LeagueID, claim.TeamID, claim.DropPlayerID,
			domain.TransactionDrop, "", "", claim.ID); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO roster_players (id, team_id, player_id, slot)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), claim.TeamID, claim.PlayerID, domain.SlotBench)
	if err != nil {
		return apperrors.NewInternal("failed to add claimed player", err)
	}

	if err := e.logEntry(ctx, tx, claim.LeagueID, claim.TeamID, claim.PlayerID,
		domain.TransactionWaiver, "", "", claim.ID); err != nil {
		return err
	}

	if settings.WaiverMode == domain.WaiverModeFAAB && claim.FAABBid != nil && *claim.FAABBid > 0 {
		tag, err := tx.Exec(ctx, `
			UPDATE teams t
			SET faab_spent = t.faab_spent + $2
			FROM leagues l
			WHERE t.id = $1 AND l.id = t.league_id AND t.faab_spent + $2 <= l.faab_budget
		`, claim.TeamID, *claim.FAABBid)
		if err != nil {
			return apperrors.NewInternal("failed to record faab spend", err)
		}
		if tag.RowsAffected() != 1 {
			return apperrors.Newf(apperrors.KindInsufficientBudget, "bid %d exceeds remaining budget", *claim.FAABBid)
		}
	}

	if settings.WaiverMode == domain.WaiverModeRolling {
		// Winning a claim sends the team to the back of the order.
		_, err = tx.Exec(ctx, `
			UPDATE teams
			SET waiver_priority = (
				SELECT COALESCE(MAX(waiver_priority), 0) + 1
				FROM teams
				WHERE league_id = $2
			)
			WHERE id = $1
		`, claim.TeamID, claim.LeagueID)
		if err != nil {
			return apperrors.NewInternal("failed to rotate waiver priority", err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE waiver_claims
		SET status = $2, processed_at = NOW()
		WHERE id = $1
	`, claim.ID, domain.ClaimSuccessful)
	if err != nil {
		return apperrors.NewInternal("failed to mark claim successful", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewInternal("failed to commit waiver settlement", err)
	}

	e.logger.Info("Waiver claim settled",
		zap.String("claim_id", claim.ID),
		zap.String("team_id", claim.TeamID),
		zap.String("player_id", claim.PlayerID))
	return nil
}

// logEntry appends one audit record inside the settlement transaction.
func (e *SettlementEngine) logEntry(ctx context.Context, tx pgx.Tx, leagueID, teamID, playerID string,
	txType domain.TransactionType, direction domain.TransactionDirection, counterpartyID, referenceID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transaction_log (id, league_id, team_id, player_id, type, direction, counterparty_team_id, reference_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, '')::uuid, NULLIF($8, '')::uuid)
	`, uuid.NewString(), leagueID, teamID, playerID, txType, string(direction), counterpartyID, referenceID)
	if err != nil {
		return apperrors.NewInternal("failed to write transaction log", err)
	}
	return nil
}
