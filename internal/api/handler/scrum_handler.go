package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/service"
	"github.com/go-chi/chi/v5"
)

type ScrumHandler struct {
	scrumService *service.ScrumService
	logger       *logger.Logger
	admin        func(http.Handler) http.Handler
}

// NewScrumHandler wires the scrum routes. The admin middleware guards the
// creation endpoint; reads are open to any authenticated session.
func NewScrumHandler(scrumService *service.ScrumService, admin func(http.Handler) http.Handler, logger *logger.Logger) *ScrumHandler {
	return &ScrumHandler{
		scrumService: scrumService,
		logger:       logger.Component("handler/scrum"),
		admin:        admin,
	}
}

func (h *ScrumHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListScrums)
	r.Get("/{id}", h.GetScrum)
	r.With(h.admin).Post("/", h.CreateScrum)

	return r
}

type ListScrumsResponse struct {
	Scrums []*domain.Scrum `json:"scrums"`
}

func (h *ScrumHandler) ListScrums(w http.ResponseWriter, r *http.Request) {
	scrums, err := h.scrumService.List(r.Context())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ListScrumsResponse{Scrums: scrums}, h.logger)
}

// GetScrum returns the scrum with its tasks for the dashboard drill-in.
func (h *ScrumHandler) GetScrum(w http.ResponseWriter, r *http.Request) {
	scrumID := chi.URLParam(r, "id")

	detail, err := h.scrumService.Get(r.Context(), scrumID)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail, h.logger)
}

type CreateScrumResponse struct {
	Scrum *domain.Scrum `json:"scrum"`
	Task  *domain.Task  `json:"task"`
}

// CreateScrum makes a scrum and its first task in one request. The two
// records are written atomically so a failed task never leaves an orphan
// scrum behind.
func (h *ScrumHandler) CreateScrum(w http.ResponseWriter, r *http.Request) {
	var req service.CreateScrumInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	scrum, task, err := h.scrumService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, CreateScrumResponse{Scrum: scrum, Task: task}, h.logger)
}
