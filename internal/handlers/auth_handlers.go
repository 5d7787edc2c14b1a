package handlers

import (
	"errors"
	"net/http"

	"schedulepro/internal/common"
	"schedulepro/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	msgRegistered     = "Registration successful"
	msgLoggedIn       = "Login successful"
	msgLoggedOut      = "Logout successful"
	msgInvalidLogin   = "Invalid email or password"
	msgRegisterFailed = "Internal server error during registration"
	msgLoginFailed    = "Internal server error during login"
	msgLogoutFailed   = "Failed to logout"
	msgNoToken        = "No token provided"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register creates the company, its owner and the owner's login
func (h *AuthHandlers) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), &req)
	if err != nil {
		return serviceError(c, err, "", msgRegisterFailed)
	}
	return common.SendSuccess(c, http.StatusCreated, msgRegistered, result)
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req services.LoginInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), &req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidLogin)
	}
	if err != nil {
		return serviceError(c, err, msgProfileNotFound, msgLoginFailed)
	}
	return common.SendSuccess(c, http.StatusOK, msgLoggedIn, result)
}

// Logout ends the provider session and revokes the bearer token
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	token, ok := common.AccessTokenFromContext(ctx)
	principal, hasPrincipal := common.PrincipalFromContext(ctx)
	if !ok || !hasPrincipal {
		return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
	}

	if err := h.authService.Logout(ctx, token.Raw, principal.UserID, token.ExpiresAt); err != nil {
		return serviceError(c, err, "", msgLogoutFailed)
	}
	return common.SendSuccess(c, http.StatusOK, msgLoggedOut, nil)
}

// Me returns the caller's person row and company
func (h *AuthHandlers) Me(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
	}

	profile, err := h.authService.Me(c.Request().Context(), principal.UserID)
	if err != nil {
		return serviceError(c, err, msgProfileNotFound, MsgInternalError)
	}
	return common.SendData(c, http.StatusOK, profile)
}
