package domain

import "time"

// WaiverMode determines how competing waiver claims are ranked and paid for.
type WaiverMode string

const (
	WaiverModeRolling WaiverMode = "ROLLING"
	WaiverModeFAAB    WaiverMode = "FAAB"
)

// LeagueSettings is the explicit configuration for a league, parsed once at
// the system boundary. Waiver and veto behavior key off these fields.
type LeagueSettings struct {
	LeagueID        string     `json:"league_id"`
	Name            string     `json:"name"`
	WaiverMode      WaiverMode `json:"waiver_mode"`
	HasVetoPeriod   bool       `json:"has_veto_period"`
	VetoWindowHours int        `json:"veto_window_hours"`
	MaxRosterSize   int        `json:"max_roster_size"`
	FAABBudget      int        `json:"faab_budget"`
}

// VetoWindow returns the review window duration for accepted trades.
func (s *LeagueSettings) VetoWindow() time.Duration {
	return time.Duration(s.VetoWindowHours) * time.Hour
}

// Team is a fantasy team within a league.
type Team struct {
	ID             string    `json:"id"`
	LeagueID       string    `json:"league_id"`
	OwnerUserID    string    `json:"owner_user_id"`
	Name           string    `json:"name"`
	WaiverPriority int       `json:"waiver_priority"`
	FAABSpent      int       `json:"faab_spent"`
	CreatedAt      time.Time `json:"created_at"`
}

// TeamBudget is a team's FAAB position: total budget and cumulative spend.
type TeamBudget struct {
	Budget int `json:"budget"`
	Spent  int `json:"spent"`
}

// Remaining returns the budget left to bid with.
func (b TeamBudget) Remaining() int {
	return b.Budget - b.Spent
}
