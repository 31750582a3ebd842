package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"leagueops/internal/middleware"
	apperrors "leagueops/pkg/errors"
	"leagueops/pkg/logger"
)

// respondJSON writes data as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps an error to its HTTP status and writes the error body.
// Internal details are logged, never serialized.
func respondError(w http.ResponseWriter, log *logger.Logger, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternal("unexpected error", err)
	}

	if appErr.Kind == apperrors.KindInternal {
		log.WithError(err).Error("Request failed")
	} else {
		log.WithError(err).Debug("Request rejected")
	}

	respondJSON(w, appErr.StatusCode(), map[string]interface{}{
		"error": map[string]string{
			"kind":      string(appErr.Kind),
			"message":   appErr.Message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// authenticatedUser returns the user ID set by the auth middleware, writing
// an unauthorized response when missing.
func authenticatedUser(w http.ResponseWriter, r *http.Request, log *logger.Logger) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, log, apperrors.New(apperrors.KindUnauthorized, "Authentication required"))
		return "", false
	}
	return userID, true
}
