package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/medpass/internal/db"
	"github.com/vytor/medpass/internal/errors"
	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/services"
)

type Server struct {
	DB              *db.DB
	LectureService  services.LectureService
	ReviewService   services.ReviewService
	SettingsService services.SettingsService
}

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON parses a request body into dst, rejecting unparseable payloads.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
