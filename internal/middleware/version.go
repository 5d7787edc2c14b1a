package middleware

import (
	"github.com/labstack/echo/v4"
)

const HeaderAPIVersion = "X-API-Version"

// APIVersion describes the version advertised on every response.
type APIVersion struct {
	Version string `json:"version"`
}

// VersionHeader adds the API version to response headers
func VersionHeader(v APIVersion) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(HeaderAPIVersion, v.Version)
			return next(c)
		}
	}
}
