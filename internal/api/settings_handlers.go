package api

import (
	"net/http"

	"github.com/vytor/medpass/internal/models"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.SettingsService.Get(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var input models.SettingsInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	settings, err := s.SettingsService.Save(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, settings)
}
