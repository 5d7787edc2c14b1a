package handlers

import (
	"net/http"
	"time"

	"schedulepro/internal/common"
	"schedulepro/internal/services"

	"github.com/labstack/echo/v4"
)

var bookingMessages = entityMessages{
	NotFound:     "Booking not found",
	NotOwned:     "Booking not found or does not belong to your company",
	NotActive:    "Booking not found or already deleted",
	NotDeleted:   "Booking not found or not deleted",
	ListFailed:   "Failed to fetch bookings",
	CreateFailed: "Failed to create booking",
	UpdateFailed: "Failed to update booking",
	Created:      "Booking created successfully",
	Updated:      "Booking updated successfully",
	Deleted:      "Booking deleted successfully",
	Restored:     "Booking restored successfully",
}

const (
	msgExportRange  = "Invalid export range. Use RFC 3339 timestamps or YYYY-MM-DD dates"
	msgExportFailed = "Failed to export bookings"
)

// BookingHandlers handles booking-related HTTP requests
type BookingHandlers struct {
	bookingService services.BookingService
	exportService  services.ExportService
}

// NewBookingHandlers creates a new booking handlers instance
func NewBookingHandlers(bookingService services.BookingService, exportService services.ExportService) *BookingHandlers {
	return &BookingHandlers{
		bookingService: bookingService,
		exportService:  exportService,
	}
}

func (h *BookingHandlers) ListBookings(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.List(c.Request().Context(), companyID)
	if err != nil {
		return serviceError(c, err, "", bookingMessages.ListFailed)
	}
	return common.SendData(c, http.StatusOK, bookings)
}

func (h *BookingHandlers) GetBooking(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, bookingMessages.NotFound)
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Get(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, bookingMessages.NotFound, MsgInternalError)
	}
	return common.SendData(c, http.StatusOK, booking)
}

// CreateBooking records the caller's person as the booking's creator.
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	var req services.BookingInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	principal, _ := common.PrincipalFromContext(c.Request().Context())
	booking, err := h.bookingService.Create(c.Request().Context(), companyID, principal.PersonID, &req)
	if err != nil {
		return serviceError(c, err, "", bookingMessages.CreateFailed)
	}
	return common.SendSuccess(c, http.StatusCreated, bookingMessages.Created, booking)
}

// UpdateBooking rewrites the booking and replaces its resource set.
func (h *BookingHandlers) UpdateBooking(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, bookingMessages.NotOwned)
	if err != nil {
		return err
	}

	var req services.BookingInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	booking, err := h.bookingService.Update(c.Request().Context(), companyID, id, &req)
	if err != nil {
		return serviceError(c, err, bookingMessages.NotOwned, bookingMessages.UpdateFailed)
	}
	return common.SendSuccess(c, http.StatusOK, bookingMessages.Updated, booking)
}

func (h *BookingHandlers) DeleteBooking(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, bookingMessages.NotActive)
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Delete(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, bookingMessages.NotActive, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, bookingMessages.Deleted, booking)
}

func (h *BookingHandlers) RestoreBooking(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, bookingMessages.NotDeleted)
	if err != nil {
		return err
	}

	booking, err := h.bookingService.Restore(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, bookingMessages.NotDeleted, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, bookingMessages.Restored, booking)
}

// ExportBookings uploads a CSV or PDF of the bookings starting in [from, to)
// and answers with a download link.
func (h *BookingHandlers) ExportBookings(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	var r services.ExportRange
	if r.From, err = parseRangeBound(c.QueryParam("from")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgExportRange)
	}
	if r.To, err = parseRangeBound(c.QueryParam("to")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgExportRange)
	}

	format, err := services.ParseExportFormat(c.QueryParam("format"))
	if err != nil {
		return serviceError(c, err, "", msgExportFailed)
	}

	result, err := h.exportService.ExportBookings(c.Request().Context(), companyID, r, format)
	if err != nil {
		return serviceError(c, err, "", msgExportFailed)
	}
	return common.SendData(c, http.StatusOK, result)
}

func parseRangeBound(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}
