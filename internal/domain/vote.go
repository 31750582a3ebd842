package domain

import "time"

// VoteValue is a league member's position on an accepted trade under review.
type VoteValue string

const (
	VoteVeto    VoteValue = "VETO"
	VoteApprove VoteValue = "APPROVE"
)

// VetoVote is one user's vote on one trade. Uniqueness per (trade, user) is
// enforced by the database, not by check-then-insert.
type VetoVote struct {
	ID        string    `json:"id"`
	TradeID   string    `json:"trade_id"`
	UserID    string    `json:"user_id"`
	Vote      VoteValue `json:"vote"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CastVoteRequest is the input for voting on a trade under review.
type CastVoteRequest struct {
	Vote   VoteValue `json:"vote"`
	Reason string    `json:"reason,omitempty"`
}

// VoteTally is the current veto arithmetic for a trade.
type VoteTally struct {
	Vetoes         int `json:"vetoes"`
	Approvals      int `json:"approvals"`
	EligibleVoters int `json:"eligible_voters"`
	VetoThreshold  int `json:"veto_threshold"`
}

// QuorumReached reports whether enough vetoes exist to reverse the trade.
func (t VoteTally) QuorumReached() bool {
	return t.VetoThreshold > 0 && t.Vetoes >= t.VetoThreshold
}

// VetoThreshold computes the quorum for a league: a majority (ceil of half)
// of teams not involved in the trade.
func VetoThreshold(totalTeams, involvedTeams int) (eligible, threshold int) {
	eligible = totalTeams - involvedTeams
	if eligible < 0 {
		eligible = 0
	}
	threshold = (eligible + 1) / 2
	return eligible, threshold
}

// CastVoteResponse is returned after a vote is recorded.
type CastVoteResponse struct {
	Status TradeStatus `json:"status"`
	Tally  VoteTally   `json:"tally"`
}
