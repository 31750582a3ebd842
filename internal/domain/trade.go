package domain

import "time"

// TradeStatus is the lifecycle state of a trade proposal. A trade reaches a
// terminal state exactly once; only ACCEPTED can move further (to VETOED).
type TradeStatus string

const (
	TradePending   TradeStatus = "PENDING"
	TradeAccepted  TradeStatus = "ACCEPTED"
	TradeRejected  TradeStatus = "REJECTED"
	TradeCancelled TradeStatus = "CANCELLED"
	TradeExpired   TradeStatus = "EXPIRED"
	TradeVetoed    TradeStatus = "VETOED"
)

// IsTerminal reports whether no further status transition is allowed.
// ACCEPTED is terminal for responders but may still transition to VETOED
// while the review window is open.
func (s TradeStatus) IsTerminal() bool {
	switch s {
	case TradeRejected, TradeCancelled, TradeExpired, TradeVetoed:
		return true
	}
	return false
}

// TradeItemType distinguishes what a trade item moves between teams.
type TradeItemType string

const (
	ItemPlayer    TradeItemType = "PLAYER"
	ItemDraftPick TradeItemType = "DRAFT_PICK"
	ItemFAAB      TradeItemType = "FAAB"
)

// TradeItem is one asset movement within a proposal.
type TradeItem struct {
	ID             string        `json:"id"`
	TradeID        string        `json:"trade_id"`
	FromTeamID     string        `json:"from_team_id"`
	ToTeamID       string        `json:"to_team_id"`
	ItemType       TradeItemType `json:"item_type"`
	PlayerID       string        `json:"player_id,omitempty"`
	DraftPickRound int           `json:"draft_pick_round,omitempty"`
	FAABAmount     int           `json:"faab_amount,omitempty"`
	Position       int           `json:"position"`
}

// Trade is a proposal to move assets between two or more teams.
type Trade struct {
	ID              string      `json:"id"`
	LeagueID        string      `json:"league_id"`
	ProposingTeamID string      `json:"proposing_team_id"`
	Status          TradeStatus `json:"status"`
	Notes           string      `json:"notes,omitempty"`
	Items           []TradeItem `json:"items"`
	ExpiresAt       time.Time   `json:"expires_at"`
	AcceptedAt      *time.Time  `json:"accepted_at,omitempty"`
	ReviewDeadline  *time.Time  `json:"review_deadline,omitempty"`
	ProcessedAt     *time.Time  `json:"processed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// IsExpired reports whether the proposal's lifetime has elapsed. Expiry is
// lazy: callers must treat an elapsed PENDING trade as EXPIRED even before
// any sweep has updated the row.
func (t *Trade) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// InReview reports whether the trade is accepted and its veto window is
// still open.
func (t *Trade) InReview(now time.Time) bool {
	return t.Status == TradeAccepted && t.ReviewDeadline != nil && now.Before(*t.ReviewDeadline)
}

// InvolvedTeamIDs returns the distinct set of teams appearing in any item,
// including the proposing team.
func (t *Trade) InvolvedTeamIDs() []string {
	seen := map[string]bool{t.ProposingTeamID: true}
	ids := []string{t.ProposingTeamID}
	for _, item := range t.Items {
		if !seen[item.FromTeamID] {
			seen[item.FromTeamID] = true
			ids = append(ids, item.FromTeamID)
		}
		if !seen[item.ToTeamID] {
			seen[item.ToTeamID] = true
			ids = append(ids, item.ToTeamID)
		}
	}
	return ids
}

// Involves reports whether the team participates in the trade.
func (t *Trade) Involves(teamID string) bool {
	if teamID == t.ProposingTeamID {
		return true
	}
	for _, item := range t.Items {
		if item.FromTeamID == teamID || item.ToTeamID == teamID {
			return true
		}
	}
	return false
}

// CounterpartyTeamIDs returns the involved teams other than the proposer.
func (t *Trade) CounterpartyTeamIDs() []string {
	var ids []string
	for _, id := range t.InvolvedTeamIDs() {
		if id != t.ProposingTeamID {
			ids = append(ids, id)
		}
	}
	return ids
}

// ResponseAction is what a counterparty does with a pending proposal.
type ResponseAction string

const (
	ActionAccept  ResponseAction = "ACCEPT"
	ActionReject  ResponseAction = "REJECT"
	ActionCounter ResponseAction = "COUNTER"
)

// TradeItemInput is one asset movement in a creation request.
type TradeItemInput struct {
	FromTeamID     string        `json:"from_team_id"`
	ToTeamID       string        `json:"to_team_id"`
	ItemType       TradeItemType `json:"item_type"`
	PlayerID       string        `json:"player_id,omitempty"`
	DraftPickRound int           `json:"draft_pick_round,omitempty"`
	FAABAmount     int           `json:"faab_amount,omitempty"`
}

// CreateProposalRequest is the input for proposing a trade.
type CreateProposalRequest struct {
	LeagueID        string           `json:"league_id"`
	ProposingTeamID string           `json:"proposing_team_id"`
	Items           []TradeItemInput `json:"items"`
	Notes           string           `json:"notes,omitempty"`

	// IdempotencyToken comes from the Idempotency-Key header, not the
	// body. Empty means the client opted out of duplicate protection.
	IdempotencyToken string `json:"-"`
}

// ProposalResponse is returned after creating a proposal.
type ProposalResponse struct {
	ID     string      `json:"id"`
	Status TradeStatus `json:"status"`
}

// RespondRequest is the input for answering a pending proposal.
type RespondRequest struct {
	Action       ResponseAction         `json:"action"`
	CounterOffer *CreateProposalRequest `json:"counter_offer,omitempty"`
}

// RespondResponse is returned after a response is applied.
type RespondResponse struct {
	Status            TradeStatus `json:"status"`
	CounterProposalID string      `json:"counter_proposal_id,omitempty"`
	ReviewDeadline    *time.Time  `json:"review_deadline,omitempty"`
}

// MaxNotesLength bounds the free-text notes on a proposal.
const MaxNotesLength = 1000
