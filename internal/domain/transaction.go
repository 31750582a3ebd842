package domain

import "time"

// TransactionType classifies a roster-affecting side effect.
type TransactionType string

const (
	TransactionTrade  TransactionType = "TRADE"
	TransactionWaiver TransactionType = "WAIVER"
	TransactionDrop   TransactionType = "DROP"
)

// TransactionDirection records which side of a trade a log entry describes.
type TransactionDirection string

const (
	DirectionSent     TransactionDirection = "SENT"
	DirectionReceived TransactionDirection = "RECEIVED"
)

// TransactionLogEntry is one append-only audit record. Entries are written
// only by the settlement engine, inside the same transaction as the roster
// change they describe, and are never updated or deleted.
type TransactionLogEntry struct {
	ID                 string               `json:"id"`
	LeagueID           string               `json:"league_id"`
	TeamID             string               `json:"team_id"`
	PlayerID           string               `json:"player_id"`
	Type               TransactionType      `json:"type"`
	Direction          TransactionDirection `json:"direction,omitempty"`
	CounterpartyTeamID string               `json:"counterparty_team_id,omitempty"`
	ReferenceID        string               `json:"reference_id,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}
