package server

import (
	"schedulepro/internal/handlers"
	"schedulepro/internal/logger"
	"schedulepro/internal/metrics"
	"schedulepro/internal/middleware"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP surface is assembled from.
type Dependencies struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	AuthGate       *middleware.AuthGate
	Auth           *handlers.AuthHandlers
	People         *handlers.PersonHandlers
	Vehicles       *handlers.VehicleHandlers
	Equipment      *handlers.EquipmentHandlers
	Bookings       *handlers.BookingHandlers
	Health         *handlers.HealthHandlers
	AllowedOrigins []string
	APIVersion     string
}

// New builds the Echo instance with middleware and every route registered.
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(logger.Middleware(deps.Logger))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     deps.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.VersionHeader(middleware.APIVersion{Version: deps.APIVersion}))

	e.GET("/health", deps.Health.HealthCheck)
	e.GET("/health/ready", deps.Health.ReadinessCheck)
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)

	requireAuth := deps.AuthGate.Middleware()
	auth.POST("/logout", deps.Auth.Logout, requireAuth)
	auth.GET("/me", deps.Auth.Me, requireAuth)

	// Auth is attached per route so unknown /api paths still answer 404.
	protected := api.Group("")

	protected.GET("/people", deps.People.ListPeople, requireAuth)
	protected.POST("/people", deps.People.CreatePerson, requireAuth)
	protected.GET("/people/:id", deps.People.GetPerson, requireAuth)
	protected.PUT("/people/:id", deps.People.UpdatePerson, requireAuth)
	protected.DELETE("/people/:id", deps.People.DeletePerson, requireAuth)
	protected.POST("/people/:id/restore", deps.People.RestorePerson, requireAuth)

	protected.GET("/vehicles", deps.Vehicles.ListVehicles, requireAuth)
	protected.POST("/vehicles", deps.Vehicles.CreateVehicle, requireAuth)
	protected.GET("/vehicles/:id", deps.Vehicles.GetVehicle, requireAuth)
	protected.PUT("/vehicles/:id", deps.Vehicles.UpdateVehicle, requireAuth)
	protected.DELETE("/vehicles/:id", deps.Vehicles.DeleteVehicle, requireAuth)
	protected.POST("/vehicles/:id/restore", deps.Vehicles.RestoreVehicle, requireAuth)

	protected.GET("/equipment", deps.Equipment.ListEquipment, requireAuth)
	protected.POST("/equipment", deps.Equipment.CreateEquipment, requireAuth)
	protected.GET("/equipment/:id", deps.Equipment.GetEquipment, requireAuth)
	protected.PUT("/equipment/:id", deps.Equipment.UpdateEquipment, requireAuth)
	protected.DELETE("/equipment/:id", deps.Equipment.DeleteEquipment, requireAuth)
	protected.POST("/equipment/:id/restore", deps.Equipment.RestoreEquipment, requireAuth)

	protected.GET("/bookings", deps.Bookings.ListBookings, requireAuth)
	protected.POST("/bookings", deps.Bookings.CreateBooking, requireAuth)
	protected.POST("/bookings/export", deps.Bookings.ExportBookings, requireAuth)
	protected.GET("/bookings/:id", deps.Bookings.GetBooking, requireAuth)
	protected.PUT("/bookings/:id", deps.Bookings.UpdateBooking, requireAuth)
	protected.DELETE("/bookings/:id", deps.Bookings.DeleteBooking, requireAuth)
	protected.POST("/bookings/:id/restore", deps.Bookings.RestoreBooking, requireAuth)

	return e
}
