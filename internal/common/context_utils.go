package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"schedulepro/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	PrincipalKey   contextKey = "principal"
	AccessTokenKey contextKey = "access_token"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// AccessToken is the verified bearer token of the current request.
type AccessToken struct {
	Raw       string
	ExpiresAt time.Time
}

// SendData sends a success envelope carrying data
func SendData(c echo.Context, code int, data any) error {
	return c.JSON(code, Response{Status: StatusSuccess, Data: data})
}

// SendSuccess sends a success envelope with a message and optional data
func SendSuccess(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Response{Status: StatusSuccess, Message: message, Data: data})
}

// SendError sends an error envelope
func SendError(c echo.Context, code int, message string) error {
	return c.JSON(code, Response{Status: StatusError, Message: message})
}

// SendClientError sends a 400 error envelope
func SendClientError(c echo.Context, message string) error {
	return SendError(c, http.StatusBadRequest, message)
}

// SendNotFoundError sends a 404 error envelope
func SendNotFoundError(c echo.Context, message string) error {
	return SendError(c, http.StatusNotFound, message)
}

// SendServerError sends a 500 error envelope
func SendServerError(c echo.Context, message string) error {
	return SendError(c, http.StatusInternalServerError, message)
}

// SendUnauthorizedError sends a 401 error envelope
func SendUnauthorizedError(c echo.Context, message string) error {
	return SendError(c, http.StatusUnauthorized, message)
}

// ValidateUUID parses a path or query identifier.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID: %w", fieldName, err)
	}
	return id, nil
}

// WithPrincipal stores the authenticated principal on ctx.
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from the request context
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return principal, ok && principal != nil
}

// GetCompanyIDFromContext returns the caller's company, if the principal has one.
func GetCompanyIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok || principal.CompanyID == nil {
		return uuid.Nil, false
	}
	return *principal.CompanyID, true
}

func WithAccessToken(ctx context.Context, token AccessToken) context.Context {
	return context.WithValue(ctx, AccessTokenKey, token)
}

func AccessTokenFromContext(ctx context.Context) (AccessToken, bool) {
	token, ok := ctx.Value(AccessTokenKey).(AccessToken)
	return token, ok
}
