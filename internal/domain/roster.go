package domain

import "time"

// RosterSlot is the lineup position a player occupies on a roster.
type RosterSlot string

const (
	SlotStarter RosterSlot = "STARTER"
	SlotBench   RosterSlot = "BENCH"
	SlotIR      RosterSlot = "IR"
)

// RosterPlayer is a single player's membership on a team's roster.
type RosterPlayer struct {
	ID         string     `json:"id"`
	TeamID     string     `json:"team_id"`
	PlayerID   string     `json:"player_id"`
	Slot       RosterSlot `json:"slot"`
	Locked     bool       `json:"locked"`
	AcquiredAt time.Time  `json:"acquired_at"`
}

// Roster is a team's full roster keyed by player id for ownership checks.
type Roster struct {
	TeamID  string
	Players map[string]RosterPlayer
}

// NewRoster builds a Roster from a list of roster rows.
func NewRoster(teamID string, players []RosterPlayer) *Roster {
	m := make(map[string]RosterPlayer, len(players))
	for _, p := range players {
		m[p.PlayerID] = p
	}
	return &Roster{TeamID: teamID, Players: m}
}

// Has reports whether the roster currently contains the player.
func (r *Roster) Has(playerID string) bool {
	_, ok := r.Players[playerID]
	return ok
}

// IsLocked reports whether the player is on the roster and locked for moves.
func (r *Roster) IsLocked(playerID string) bool {
	p, ok := r.Players[playerID]
	return ok && p.Locked
}

// Size returns the number of rostered players.
func (r *Roster) Size() int {
	return len(r.Players)
}
