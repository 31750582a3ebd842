package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"leagueops/pkg/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}

	command := os.Args[1]
	ctx := context.Background()

	switch command {
	case "up":
		db, err := database.NewPostgresDB(ctx, dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		fmt.Println("✅ All migrations applied successfully")

	case "drop":
		conn := connect(ctx, dbURL)
		defer conn.Close(ctx)

		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "seed":
		conn := connect(ctx, dbURL)
		defer conn.Close(ctx)

		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [up|drop|seed]")
		os.Exit(1)
	}
}

func connect(ctx context.Context, dbURL string) *pgx.Conn {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return conn
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS transaction_log CASCADE`,
		`DROP TABLE IF EXISTS veto_votes CASCADE`,
		`DROP TABLE IF EXISTS waiver_claims CASCADE`,
		`DROP TABLE IF EXISTS trade_items CASCADE`,
		`DROP TABLE IF EXISTS trades CASCADE`,
		`DROP TABLE IF EXISTS roster_players CASCADE`,
		`DROP TABLE IF EXISTS teams CASCADE`,
		`DROP TABLE IF EXISTS leagues CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

// seedData creates a demo league with four teams and starter rosters.
func seedData(ctx context.Context, conn *pgx.Conn) error {
	var leagueID string
	err := conn.QueryRow(ctx, `
		INSERT INTO leagues (name, waiver_mode, has_veto_period, veto_window_hours, max_roster_size, faab_budget)
		VALUES ('Demo Dynasty League', 'FAAB', true, 24, 15, 100)
		RETURNING id
	`).Scan(&leagueID)
	if err != nil {
		return fmt.Errorf("failed to seed league: %w", err)
	}
	fmt.Println("  Seeded league:", leagueID)

	teamNames := []string{"Gridiron Giants", "End Zone Elite", "Blitz Brigade", "Red Zone Raiders"}
	for i, name := range teamNames {
		var teamID string
		err := conn.QueryRow(ctx, `
			INSERT INTO teams (league_id, owner_user_id, name, waiver_priority)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, leagueID, fmt.Sprintf("user-%d", i+1), name, i+1).Scan(&teamID)
		if err != nil {
			return fmt.Errorf("failed to seed team %s: %w", name, err)
		}

		for p := 1; p <= 5; p++ {
			slot := "BENCH"
			if p <= 2 {
				slot = "STARTER"
			}
			_, err := conn.Exec(ctx, `
				INSERT INTO roster_players (team_id, player_id, slot)
				VALUES ($1, $2, $3)
			`, teamID, fmt.Sprintf("player-%d-%d", i+1, p), slot)
			if err != nil {
				return fmt.Errorf("failed to seed roster for %s: %w", name, err)
			}
		}
	}
	fmt.Printf("  Seeded %d teams with rosters\n", len(teamNames))

	return nil
}
