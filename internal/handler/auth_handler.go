package handler

import (
	"net/http"

	"github.com/Mukulraj109/rez-backend-sub002/internal/service"
	"github.com/Mukulraj109/rez-backend-sub002/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler serves merchant registration, login and profile
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a pending merchant account and returns a token
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req service.RegisterInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	result, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		log.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		return fail(c, err)
	}
	return okMessage(c, http.StatusCreated, "Merchant registered successfully", result)
}

// Login verifies credentials and returns a token
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}

	result, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return okMessage(c, http.StatusOK, "Login successful", result)
}

// Me returns the authenticated merchant
func (h *AuthHandler) Me(c echo.Context) error {
	merchant, err := h.auth.Me(c.Request().Context(), merchantID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, merchant)
}
