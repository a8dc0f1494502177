package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/ZertGraf/scrumboard/internal/pkg/logger"
	"github.com/ZertGraf/scrumboard/internal/service"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
	logger      *logger.Logger
}

func NewUserHandler(userService *service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.Component("handler/user"),
	}
}

// Routes are mounted behind RequireAdmin: only admins list or create users.
func (h *UserHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListEmployees)
	r.Post("/", h.CreateUser)

	return r
}

type ListUsersResponse struct {
	Users []*domain.User `json:"users"`
}

// ListEmployees returns every non-admin user for the profile view.
func (h *UserHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListEmployees(r.Context())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ListUsersResponse{Users: users}, h.logger)
}

type CreateUserResponse struct {
	User *domain.User `json:"user"`
}

// CreateUser adds a user with an explicit role selector.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, CreateUserResponse{User: user}, h.logger)
}
