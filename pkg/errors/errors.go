package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a stable, user-facing error category. Handlers map kinds
// to HTTP status codes; services never expose raw internal errors.
type Kind string

const (
	KindUnauthorized       Kind = "UNAUTHORIZED"
	KindInvalidItems       Kind = "INVALID_ITEMS"
	KindInvalidRequest     Kind = "INVALID_REQUEST"
	KindNotFound           Kind = "NOT_FOUND"
	KindAlreadyProcessed   Kind = "ALREADY_PROCESSED"
	KindTradeNotInReview   Kind = "TRADE_NOT_IN_REVIEW"
	KindExpired            Kind = "EXPIRED"
	KindSelfResponse       Kind = "SELF_RESPONSE"
	KindStaleRoster        Kind = "STALE_ROSTER"
	KindPlayerLocked       Kind = "PLAYER_LOCKED"
	KindInsufficientBudget Kind = "INSUFFICIENT_BUDGET"
	KindRosterFull         Kind = "ROSTER_FULL"
	KindDropPlayerNotFound Kind = "DROP_PLAYER_NOT_FOUND"
	KindAlreadyVoted       Kind = "ALREADY_VOTED"
	KindInvolvedParty      Kind = "INVOLVED_PARTY"
	KindNotInLeague        Kind = "NOT_IN_LEAGUE"
	KindInternal           Kind = "INTERNAL"
)

// AppError is a structured application error carrying a stable kind and a
// human-readable message. Internal is never serialized.
type AppError struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the internal error for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// StatusCode maps the kind to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindInvalidItems, KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound, KindDropPlayerNotFound:
		return http.StatusNotFound
	case KindAlreadyProcessed, KindTradeNotInReview, KindExpired,
		KindAlreadyVoted, KindStaleRoster:
		return http.StatusConflict
	case KindUnauthorized, KindSelfResponse, KindInvolvedParty,
		KindNotInLeague, KindPlayerLocked:
		return http.StatusForbidden
	case KindInsufficientBudget, KindRosterFull:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError with the given kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Newf creates a new AppError with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewInternal creates an INTERNAL error wrapping an unexpected failure.
func NewInternal(message string, internal error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Internal: internal}
}

// As extracts an *AppError from an error chain, if present.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for unrecognized errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
