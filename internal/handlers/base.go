package handlers

import (
	"errors"
	"net/http"

	"schedulepro/internal/common"
	"schedulepro/internal/logger"
	"schedulepro/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	MsgCompanyMissing  = "Company ID not found. Please login again."
	MsgInvalidRequest  = "Invalid request format"
	MsgInternalError   = "Internal server error"
	MsgRouteNotFound   = "Route not found"
	msgProfileNotFound = "User profile not found"
)

// entityMessages are the user-facing messages of one company-scoped resource.
type entityMessages struct {
	NotFound     string
	NotOwned     string
	NotActive    string
	NotDeleted   string
	ListFailed   string
	CreateFailed string
	UpdateFailed string
	Created      string
	Updated      string
	Deleted      string
	Restored     string
}

func companyIDFrom(c echo.Context) (uuid.UUID, error) {
	companyID, ok := common.GetCompanyIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, MsgCompanyMissing)
	}
	return companyID, nil
}

// pathID parses the :id parameter. Malformed ids cannot match any row, so
// they answer with the resource's not-found message.
func pathID(c echo.Context, notFound string) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return id, nil
}

func bindJSON(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgInvalidRequest)
	}
	return nil
}

// serviceError maps a service error onto an HTTP error. Unexpected errors are
// logged and replaced by fallback.
func serviceError(c echo.Context, err error, notFound, fallback string) error {
	if vErr, ok := services.IsValidationError(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Message)
	}
	if notFound != "" && errors.Is(err, services.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	}

	logger.FromEcho(c).Error(fallback,
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}

// HTTPErrorHandler renders every error as the response envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := MsgInternalError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch {
		case code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound):
			message = MsgRouteNotFound
		case code == http.StatusMethodNotAllowed:
			code = http.StatusNotFound
			message = MsgRouteNotFound
		default:
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}
	} else {
		logger.FromEcho(c).Error("unhandled error", zap.Error(err))
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(code)
	} else {
		sendErr = common.SendError(c, code, message)
	}
	if sendErr != nil {
		logger.FromEcho(c).Error("failed to send error response", zap.Error(sendErr))
	}
}
