package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"user-record-service/internal/usecase/user"
	pkgerrors "user-record-service/pkg/errors"
	"user-record-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response messages
const (
	MsgRecordNotFound    = "record not found"
	MsgEmailRegistered   = "email already registered"
	MsgAllFieldsRequired = user.MsgAllFieldsRequired
	MsgInvalidBody       = "invalid request body"
	MsgServerError       = "server error"
	MsgUserDeleted       = "user deleted"
)

// unmatchedID stands in for path ids that are not integers. Autoincrement ids start at 1.
const unmatchedID int64 = 0

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest represents the HTTP request body for creating or updating a user
type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse represents a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func toResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
	}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toResponse(&resp.Users[i])
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := h.bindUser(c)
	if !ok {
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(resp))
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: h.parseID(c)})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	req, ok := h.bindUser(c)
	if !ok {
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:       h.parseID(c),
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// DeleteUser handles DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if _, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: h.parseID(c)}); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: MsgUserDeleted})
}

// bindUser decodes the JSON body. An empty body binds as an empty request so
// that it is reported as missing fields rather than malformed JSON.
func (h *UserHandler) bindUser(c *gin.Context) (UserRequest, bool) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
		return UserRequest{}, false
	}
	return req, true
}

// parseID reads the :id path parameter. Anything that is not a base-10 int64
// becomes unmatchedID, which the store never assigns, so the lookup itself
// reports not found.
func (h *UserHandler) parseID(c *gin.Context) int64 {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Debug("non-numeric user id", zap.String("id", idStr))
		return unmatchedID
	}
	return id
}

// handleError converts usecase errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case pkgerrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgAllFieldsRequired})
	case pkgerrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: MsgRecordNotFound})
	case pkgerrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: MsgEmailRegistered})
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgServerError})
	}
}
