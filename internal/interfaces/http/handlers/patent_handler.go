package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	patentapp "github.com/turtacn/mini-spade/internal/application/patent"
	"github.com/turtacn/mini-spade/internal/application/patent_mining"
	domainPatent "github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
)

// PatentHandler serves /api/search, /api/similar and /api/patents/{id}.
type PatentHandler struct {
	patents         patentapp.Service
	similar         patent_mining.SimilaritySearchService
	logger          logging.Logger
	defaultPageSize int
}

// NewPatentHandler creates a PatentHandler.  A non-positive defaultPageSize
// falls back to 10.
func NewPatentHandler(patents patentapp.Service, similar patent_mining.SimilaritySearchService, logger logging.Logger, defaultPageSize int) *PatentHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = domainPatent.DefaultPageSize
	}
	return &PatentHandler{
		patents:         patents,
		similar:         similar,
		logger:          logger,
		defaultPageSize: defaultPageSize,
	}
}

// Search handles GET /api/search.
//
//	query, startDate, endDate (YYYY-MM-DD), inventors, page (=1), pageSize
func (h *PatentHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", h.defaultPageSize)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	result, err := h.patents.Search(r.Context(), &patentapp.SearchInput{
		Query:     q.Get("query"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Inventor:  q.Get("inventors"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Similar handles GET /api/similar?id=.
func (h *PatentHandler) Similar(w http.ResponseWriter, r *http.Request) {
	result, err := h.similar.FindSimilar(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /api/patents/{id}.
func (h *PatentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.patents.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

//Personal.AI order the ending
