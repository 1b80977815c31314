package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/cqrs"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/middleware"
	"github.com/ilhamAmgoun200/E-BankingApp/pkg/models"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	CreateUser(context.Context, cqrs.CreateUserCommand) (*models.User, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) (*models.User, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) (bool, error)
	UpdateLastLogin(context.Context, cqrs.RecordLoginCommand) (*models.User, error)
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	GetUser(context.Context, cqrs.GetUserQuery) (*models.User, error)
	GetUserByEmail(context.Context, cqrs.GetUserByEmailQuery) (*models.User, error)
	ListUsers(context.Context) ([]models.User, error)
	ListUsersByRole(context.Context, cqrs.ListUsersByRoleQuery) ([]models.User, error)
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
	logger   *slog.Logger
}

type CreateUserRequest struct {
	FirstName   string  `json:"firstName" validate:"required,max=255"`
	LastName    string  `json:"lastName" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=50"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	Status      string  `json:"status" validate:"omitempty,max=50"`
	Role        string  `json:"role" validate:"omitempty,max=50"`
}

// UpdateUserRequest is a patch: absent fields stay untouched and an explicit
// null only clears phoneNumber and address.
type UpdateUserRequest struct {
	FirstName   models.Optional[string] `json:"firstName"`
	LastName    models.Optional[string] `json:"lastName"`
	Email       models.Optional[string] `json:"email"`
	Password    models.Optional[string] `json:"password"`
	PhoneNumber models.Optional[string] `json:"phoneNumber"`
	Address     models.Optional[string] `json:"address"`
	Status      models.Optional[string] `json:"status"`
	Role        models.Optional[string] `json:"role"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserHandler(commands UserCommander, queries UserQuerier, logger *slog.Logger) *UserHandler {
	return &UserHandler{commands: commands, queries: queries, logger: logger}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.CreateUser(c.Request.Context(), cqrs.CreateUserCommand{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Status:      req.Status,
		Role:        req.Role,
	})
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.queries.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	user, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: userID})
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.queries.GetUserByEmail(c.Request.Context(), cqrs.GetUserByEmailQuery{Email: c.Param("email")})
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsersByRole(c *gin.Context) {
	users, err := h.queries.ListUsersByRole(c.Request.Context(), cqrs.ListUsersByRoleQuery{Role: c.Param("role")})
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := req.validate(); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Status:      req.Status,
		Role:        req.Role,
	})
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	deleted, err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: userID})
	if err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to delete user")
		return
	}
	if !deleted {
		middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}

func (h *UserHandler) RecordLogin(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if _, err := h.commands.UpdateLastLogin(c.Request.Context(), cqrs.RecordLoginCommand{UserID: userID}); err != nil {
		respondError(c, h.logger, err, "User not found", "Failed to update last login")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Last login updated successfully"})
}

func (r UpdateUserRequest) validate() []middleware.ValidationError {
	var out []middleware.ValidationError
	if r.FirstName.Present() {
		out = append(out, middleware.ValidateVar("firstName", r.FirstName.Value, "required,max=255")...)
	}
	if r.LastName.Present() {
		out = append(out, middleware.ValidateVar("lastName", r.LastName.Value, "required,max=255")...)
	}
	if r.Email.Present() {
		out = append(out, middleware.ValidateVar("email", r.Email.Value, "required,email")...)
	}
	if r.Password.Present() {
		out = append(out, middleware.ValidateVar("password", r.Password.Value, "required,min=6")...)
	}
	return out
}
