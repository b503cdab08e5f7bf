package user

import (
	"errors"
	"net/http"

	"esportfed/internal/api"
	"esportfed/internal/auth"
	"esportfed/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Login godoc
// @Summary      Operator login
// @Description  Authenticates an operator by email and password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      user.LoginRequest  true  "Operator credentials"
// @Success      200      {object}  user.LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	u, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid email or password"})
			return
		}
		logger.Error("operator login failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to generate tokens"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *u,
	})
}

// RefreshToken godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      user.RefreshRequest  true  "Refresh token payload"
// @Success      200      {object}  user.RefreshResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "refresh_token is required"})
		return
	}

	accessToken, u, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid or expired refresh token"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: accessToken, User: *u})
}

// GetMe godoc
// @Summary      Current operator
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  user.User
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// CreateOperator godoc
// @Summary      Create operator account
// @Description  Admin-only: creates a back-office account.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      user.CreateOperatorRequest  true  "Operator"
// @Success      201      {object}  user.User
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /admin/users [post]
func (h *Handler) CreateOperator(c *gin.Context) {
	var req CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	u, err := h.service.CreateOperator(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
			return
		}
		logger.Error("create operator failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, u)
}
