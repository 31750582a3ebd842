package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS leagues (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		waiver_mode VARCHAR(20) NOT NULL DEFAULT 'ROLLING',
		has_veto_period BOOLEAN NOT NULL DEFAULT false,
		veto_window_hours INT NOT NULL DEFAULT 24,
		max_roster_size INT NOT NULL DEFAULT 15,
		faab_budget INT NOT NULL DEFAULT 100,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK (waiver_mode IN ('ROLLING', 'FAAB'))
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
		owner_user_id VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		waiver_priority INT NOT NULL DEFAULT 1,
		faab_spent INT NOT NULL DEFAULT 0 CHECK (faab_spent >= 0),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS roster_players (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		player_id VARCHAR(64) NOT NULL,
		slot VARCHAR(20) NOT NULL DEFAULT 'BENCH',
		locked BOOLEAN NOT NULL DEFAULT false,
		acquired_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(team_id, player_id),
		CHECK (slot IN ('STARTER', 'BENCH', 'IR'))
	)`,

	`CREATE TABLE IF NOT EXISTS trades (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
		proposing_team_id UUID NOT NULL REFERENCES teams(id),
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		notes VARCHAR(1000),
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		accepted_at TIMESTAMP WITH TIME ZONE,
		review_deadline TIMESTAMP WITH TIME ZONE,
		processed_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED', 'CANCELLED', 'EXPIRED', 'VETOED'))
	)`,

	`CREATE TABLE IF NOT EXISTS trade_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trade_id UUID NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
		from_team_id UUID NOT NULL REFERENCES teams(id),
		to_team_id UUID NOT NULL REFERENCES teams(id),
		item_type VARCHAR(20) NOT NULL DEFAULT 'PLAYER',
		player_id VARCHAR(64),
		draft_pick_round INT,
		faab_amount INT,
		position INT NOT NULL DEFAULT 0,
		CHECK (item_type IN ('PLAYER', 'DRAFT_PICK', 'FAAB')),
		CHECK (from_team_id <> to_team_id)
	)`,

	`CREATE TABLE IF NOT EXISTS waiver_claims (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		player_id VARCHAR(64) NOT NULL,
		drop_player_id VARCHAR(64),
		faab_bid INT CHECK (faab_bid >= 0),
		priority INT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		failure_reason VARCHAR(500),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		processed_at TIMESTAMP WITH TIME ZONE,
		CHECK (status IN ('PENDING', 'SUCCESSFUL', 'FAILED'))
	)`,

	`CREATE TABLE IF NOT EXISTS veto_votes (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		trade_id UUID NOT NULL REFERENCES trades(id) ON DELETE CASCADE,
		user_id VARCHAR(255) NOT NULL,
		vote VARCHAR(10) NOT NULL,
		reason VARCHAR(500),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(trade_id, user_id),
		CHECK (vote IN ('VETO', 'APPROVE'))
	)`,

	// Append-only audit trail; nothing in the application updates or
	// deletes rows here.
	`CREATE TABLE IF NOT EXISTS transaction_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		league_id UUID NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
		team_id UUID NOT NULL REFERENCES teams(id),
		player_id VARCHAR(64) NOT NULL,
		type VARCHAR(20) NOT NULL,
		direction VARCHAR(10),
		counterparty_team_id UUID REFERENCES teams(id),
		reference_id UUID,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK (type IN ('TRADE', 'WAIVER', 'DROP')),
		CHECK (direction IN ('SENT', 'RECEIVED') OR direction IS NULL)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_teams_league_id ON teams(league_id)`,
	`CREATE INDEX IF NOT EXISTS idx_roster_players_team_id ON roster_players(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_league_status ON trades(league_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_trade_items_trade_id ON trade_items(trade_id)`,
	`CREATE INDEX IF NOT EXISTS idx_waiver_claims_league_status ON waiver_claims(league_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_veto_votes_trade_id ON veto_votes(trade_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transaction_log_league_id ON transaction_log(league_id, created_at)`,
}

// Migrate applies all schema migrations in order. Statements are idempotent
// so re-running against an existing database is safe.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
