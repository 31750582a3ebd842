package domain

import "time"

// ClaimStatus is the lifecycle state of a waiver claim.
type ClaimStatus string

const (
	ClaimPending    ClaimStatus = "PENDING"
	ClaimSuccessful ClaimStatus = "SUCCESSFUL"
	ClaimFailed     ClaimStatus = "FAILED"
)

// WaiverClaim is one team's request to acquire an unrostered player.
// FAABBid is set only in FAAB leagues; Priority only matters in ROLLING
// leagues. The two modes are mutually exclusive per league settings.
type WaiverClaim struct {
	ID            string      `json:"id"`
	LeagueID      string      `json:"league_id"`
	TeamID        string      `json:"team_id"`
	PlayerID      string      `json:"player_id"`
	DropPlayerID  string      `json:"drop_player_id,omitempty"`
	FAABBid       *int        `json:"faab_bid,omitempty"`
	Priority      int         `json:"priority"`
	Status        ClaimStatus `json:"status"`
	FailureReason string      `json:"failure_reason,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	ProcessedAt   *time.Time  `json:"processed_at,omitempty"`
}

// SubmitClaimRequest is the input for filing a waiver claim.
type SubmitClaimRequest struct {
	LeagueID     string `json:"league_id"`
	TeamID       string `json:"team_id"`
	PlayerID     string `json:"player_id"`
	DropPlayerID string `json:"drop_player_id,omitempty"`
	FAABBid      *int   `json:"faab_bid,omitempty"`
}

// ClaimResult is the outcome of one claim within a processing batch.
type ClaimResult struct {
	ClaimID  string      `json:"claim_id"`
	TeamID   string      `json:"team_id"`
	PlayerID string      `json:"player_id"`
	Status   ClaimStatus `json:"status"`
	Reason   string      `json:"reason,omitempty"`
}

// BatchSummary aggregates one waiver processing run.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchResult is the full outcome of a waiver processing run for a league.
type BatchResult struct {
	LeagueID string        `json:"league_id"`
	Results  []ClaimResult `json:"results"`
	Summary  BatchSummary  `json:"summary"`
}
