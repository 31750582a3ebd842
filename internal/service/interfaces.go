package service

import (
	"context"

	"leagueops/internal/domain"
)

// TradeService defines the interface for trade proposal operations
type TradeService interface {
	// CreateProposal validates and persists a new trade proposal
	CreateProposal(ctx context.Context, userID string, req *domain.CreateProposalRequest) (*domain.ProposalResponse, error)

	// RespondToProposal applies a counterparty's accept/reject/counter
	RespondToProposal(ctx context.Context, userID, tradeID string, req *domain.RespondRequest) (*domain.RespondResponse, error)

	// CancelProposal withdraws a still-pending proposal
	CancelProposal(ctx context.Context, userID, tradeID string) error

	// GetTrade retrieves a trade with its items
	GetTrade(ctx context.Context, tradeID string) (*domain.Trade, error)

	// ListTrades retrieves a league's trades, newest first
	ListTrades(ctx context.Context, leagueID string, limit int) ([]*domain.Trade, error)

	// ListTransactions retrieves a league's settlement audit trail, newest
	// first
	ListTransactions(ctx context.Context, leagueID string, limit int) ([]*domain.TransactionLogEntry, error)
}

// WaiverService defines the interface for waiver claim operations
type WaiverService interface {
	// SubmitClaim validates and files a new waiver claim
	SubmitClaim(ctx context.Context, userID string, req *domain.SubmitClaimRequest) (*domain.WaiverClaim, error)

	// CancelClaim withdraws a still-pending claim
	CancelClaim(ctx context.Context, userID, claimID string) error

	// ListPendingClaims retrieves a league's unprocessed claims in
	// processing order
	ListPendingClaims(ctx context.Context, leagueID string) ([]*domain.WaiverClaim, error)

	// ProcessBatch runs one serialized waiver processing pass for a league
	ProcessBatch(ctx context.Context, leagueID string) (*domain.BatchResult, error)
}

// ReviewService defines the interface for the trade review/veto window
type ReviewService interface {
	// CastVote records a league member's vote on a trade under review
	CastVote(ctx context.Context, userID, tradeID string, req *domain.CastVoteRequest) (*domain.CastVoteResponse, error)

	// GetTally returns the current veto arithmetic for a trade
	GetTally(ctx context.Context, tradeID string) (*domain.VoteTally, error)

	// FinalizeExpiredReviews settles accepted trades whose review window
	// closed without a veto quorum; returns the number settled
	FinalizeExpiredReviews(ctx context.Context, leagueID string) (int, error)
}

// Notifier delivers settlement outcomes to affected users. Delivery is
// fire-and-forget: failures are logged and never block settlement.
type Notifier interface {
	Notify(ctx context.Context, targets []string, message string)
}

// Services aggregates all service interfaces
type Services struct {
	Trade  TradeService
	Waiver WaiverService
	Review ReviewService
}
