package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidItems, http.StatusBadRequest},
		{KindInvalidRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindDropPlayerNotFound, http.StatusNotFound},
		{KindAlreadyProcessed, http.StatusConflict},
		{KindExpired, http.StatusConflict},
		{KindAlreadyVoted, http.StatusConflict},
		{KindStaleRoster, http.StatusConflict},
		{KindTradeNotInReview, http.StatusConflict},
		{KindUnauthorized, http.StatusForbidden},
		{KindSelfResponse, http.StatusForbidden},
		{KindInvolvedParty, http.StatusForbidden},
		{KindNotInLeague, http.StatusForbidden},
		{KindPlayerLocked, http.StatusForbidden},
		{KindInsufficientBudget, http.StatusUnprocessableEntity},
		{KindRosterFull, http.StatusUnprocessableEntity},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := New(tt.kind, "boom")
		if got := err.StatusCode(); got != tt.want {
			t.Errorf("StatusCode(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewInternal("failed to settle", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped internal error")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	appErr, ok := As(wrapped)
	if !ok {
		t.Fatal("As should extract AppError from a wrapped chain")
	}
	if appErr.Kind != KindInternal {
		t.Errorf("Kind = %s, want %s", appErr.Kind, KindInternal)
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindExpired, "gone")); got != KindExpired {
		t.Errorf("KindOf = %s, want %s", got, KindExpired)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %s, want %s", got, KindInternal)
	}
	if !IsKind(Newf(KindRosterFull, "full at %d", 15), KindRosterFull) {
		t.Error("IsKind should match the error's kind")
	}
}
