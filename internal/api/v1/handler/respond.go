package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/service"

	"github.com/rs/zerolog"
)

// writeJSON encodes v with the standard content type.
func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeServiceError maps service errors onto HTTP status codes. Upstream and
// database failures are logged and returned as the sanitized fallback
// message.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, err error, fallback string) {
	var limitErr *service.PlanLimitError
	switch {
	case errors.As(err, &limitErr):
		http.Error(w, limitErr.Message, http.StatusForbidden)
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrTechnicianNotFound),
		errors.Is(err, service.ErrRecommendationNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrRangeNotAllowed),
		errors.Is(err, service.ErrDemoModeDisabled):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidPriceID),
		errors.Is(err, service.ErrPaymentNotCompleted),
		errors.Is(err, service.ErrNoSubscription),
		errors.Is(err, service.ErrNoStripeCustomer):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Error().Err(err).Msg(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
