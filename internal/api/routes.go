package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)

		r.Post("/lectures", s.handleSaveLecture)
		r.Get("/lectures", s.handleListLectures)
		r.Get("/lectures/{block}/{id}", s.handleGetLecture)
		r.Delete("/lectures/{block}/{id}", s.handleDeleteLecture)
		r.Delete("/blocks/{block}/lectures", s.handleDeleteBlock)
		r.Post("/lectures/{block}/{id}/passes/{index}/complete", s.handleCompletePass)
		r.Post("/lectures/{block}/{id}/shift", s.handleShiftLecture)
		r.Post("/lectures/{block}/{id}/recalc", s.handleRecalcLecture)
		r.Post("/blocks/{block}/status", s.handleBulkUpdateStatus)
		r.Get("/queues", s.handleQueues)

		r.Post("/items", s.handleSaveItem)
		r.Get("/items", s.handleListItems)
		r.Get("/items/{id}", s.handleGetItem)
		r.Delete("/items/{id}", s.handleDeleteItem)
		r.Post("/items/{id}/sections/{key}/rate", s.handleRateSection)
		r.Get("/items/{id}/sections/{key}", s.handleSectionSnapshot)

		r.Get("/review/due", s.handleDueSections)
		r.Get("/review/upcoming", s.handleUpcomingSections)
	})

	return r
}
