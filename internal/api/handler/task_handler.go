package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/service"
	"github.com/ZertGraf/scrumboard/internal/session"
	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *logger.Logger
	admin       func(http.Handler) http.Handler
}

func NewTaskHandler(taskService *service.TaskService, admin func(http.Handler) http.Handler, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.Component("handler/task"),
		admin:       admin,
	}
}

func (h *TaskHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListTasks)
	r.With(h.admin).Post("/", h.CreateTask)
	r.Patch("/{id}/status", h.UpdateStatus)

	return r
}

type ListTasksResponse struct {
	AssignedTo string         `json:"assigned_to"`
	Tasks      []*domain.Task `json:"tasks"`
}

// ListTasks returns the task history for a user. Employees get their own
// tasks by default and cannot read anyone else's; admins must name a user.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	assignedTo := r.URL.Query().Get("assigned_to")

	tasks, err := h.taskService.ListForUser(r.Context(), sess, assignedTo)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	if assignedTo == "" {
		assignedTo = sess.UserID
	}

	writeJSON(w, http.StatusOK, ListTasksResponse{AssignedTo: assignedTo, Tasks: tasks}, h.logger)
}

type CreateTaskResponse struct {
	Task *domain.Task `json:"task"`
}

// CreateTask adds a task to an existing scrum.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, CreateTaskResponse{Task: task}, h.logger)
}

type UpdateStatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}

// UpdateStatus moves a task to a new status, appending one history entry.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	taskID := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), sess, taskID, req.Status)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, CreateTaskResponse{Task: task}, h.logger)
}
