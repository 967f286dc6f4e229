package transport

import (
	"net/http"

	"inventory-api/internal/middleware"
	"inventory-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateUserRequest represents the user creation payload
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
	})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err, "failed to retrieve users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondError(w, r, h.logger, err, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		respondError(w, r, h.logger, err, "failed to create user")
		return
	}

	h.logger.Info("User created", zap.String("user_id", user.UserID))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}
