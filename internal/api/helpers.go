package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/mkrogh/academy/internal/errors"
	"github.com/mkrogh/academy/internal/logger"
	"github.com/mkrogh/academy/internal/season"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewBadRequestError("invalid request body")
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

// seasonParam parses the optional ?season= query. Absent means all time.
func seasonParam(r *http.Request) (season.Season, error) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		return season.AllTime, nil
	}
	if raw == "current" {
		return season.Current(), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return season.Season{}, apperrors.NewBadRequestError("invalid season")
	}
	target, err := season.FromNumber(n)
	if err != nil {
		return season.Season{}, apperrors.NewValidationError("season", err.Error())
	}
	return target, nil
}

func intQuery(r *http.Request, name, fallback string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		raw = fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
