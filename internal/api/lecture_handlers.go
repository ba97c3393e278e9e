package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/medpass/internal/errors"
	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
)

func (s *Server) handleSaveLecture(w http.ResponseWriter, r *http.Request) {
	var input models.LectureInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	record, err := s.LectureService.SaveLecture(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, record)
}

func (s *Server) handleListLectures(w http.ResponseWriter, r *http.Request) {
	filter := models.LectureFilter{
		BlockID: r.URL.Query().Get("block"),
		State:   r.URL.Query().Get("state"),
	}
	if raw := r.URL.Query().Get("dueBefore"); raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("dueBefore must be epoch milliseconds"))
			return
		}
		filter.DueBefore = &ts
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			handleError(w, r, errors.NewBadRequestError("limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	lectures, err := s.LectureService.ListLectures(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if lectures == nil {
		lectures = []models.LectureRecord{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"lectures": lectures})
}

func (s *Server) handleGetLecture(w http.ResponseWriter, r *http.Request) {
	record, err := s.LectureService.GetLecture(r.Context(), chi.URLParam(r, "block"), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, record)
}

func (s *Server) handleDeleteLecture(w http.ResponseWriter, r *http.Request) {
	if err := s.LectureService.DeleteLecture(r.Context(), chi.URLParam(r, "block"), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.LectureService.DeleteBlock(r.Context(), chi.URLParam(r, "block"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": deleted})
}

type completePassRequest struct {
	CompletedAt *int64 `json:"completedAt"`
}

func (s *Server) handleCompletePass(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("pass index must be an integer"))
		return
	}

	var req completePassRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	record, err := s.LectureService.CompletePass(r.Context(), chi.URLParam(r, "block"), chi.URLParam(r, "id"), index, req.CompletedAt)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, record)
}

type shiftRequest struct {
	TargetOrder      int     `json:"targetOrder"`
	DeltaMinutes     float64 `json:"deltaMinutes"`
	Scope            string  `json:"scope"`
	IncludeCompleted bool    `json:"includeCompleted"`
}

func (s *Server) handleShiftLecture(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req shiftRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	blockID := chi.URLParam(r, "block")
	lectureID := chi.URLParam(r, "id")

	// No scope means a whole-lecture shift.
	var record *models.LectureRecord
	var err error
	if req.Scope == "" {
		log.Debug("whole-lecture shift requested")
		record, err = s.LectureService.ShiftAll(r.Context(), blockID, lectureID, req.DeltaMinutes, req.IncludeCompleted)
	} else {
		record, err = s.LectureService.ShiftScope(r.Context(), blockID, lectureID, req.TargetOrder, req.DeltaMinutes, models.ShiftScope(req.Scope))
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, record)
}

func (s *Server) handleRecalcLecture(w http.ResponseWriter, r *http.Request) {
	record, err := s.LectureService.Recalc(r.Context(), chi.URLParam(r, "block"), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, record)
}

func (s *Server) handleBulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	updated, err := s.LectureService.BulkUpdateStatus(r.Context(), chi.URLParam(r, "block"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"updated": updated})
}

func (s *Server) handleQueues(w http.ResponseWriter, r *http.Request) {
	queues, err := s.LectureService.Queues(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, queues)
}
