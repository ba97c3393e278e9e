package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/medpass/internal/errors"
	"github.com/vytor/medpass/internal/models"
)

func (s *Server) handleSaveItem(w http.ResponseWriter, r *http.Request) {
	var input models.ItemInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	item, err := s.ReviewService.SaveItem(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.ReviewService.ListItems(r.Context(), r.URL.Query().Get("kind"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.ReviewService.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.ReviewService.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

type rateRequest struct {
	Rating string `json:"rating"`
}

func (s *Server) handleRateSection(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Rating == "" {
		handleError(w, r, errors.NewBadRequestError("rating is required"))
		return
	}

	state, err := s.ReviewService.Rate(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "key"), models.Rating(req.Rating))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleSectionSnapshot(w http.ResponseWriter, r *http.Request) {
	state, err := s.ReviewService.SectionSnapshot(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "key"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleDueSections(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ReviewService.DueSections(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"sections": entries})
}

func (s *Server) handleUpcomingSections(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			handleError(w, r, errors.NewBadRequestError("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	entries, err := s.ReviewService.UpcomingSections(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"sections": entries})
}
