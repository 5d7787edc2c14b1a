package handlers

import (
	"net/http"

	"schedulepro/internal/common"
	"schedulepro/internal/services"

	"github.com/labstack/echo/v4"
)

var vehicleMessages = entityMessages{
	NotFound:     "Vehicle not found",
	NotOwned:     "Vehicle not found or does not belong to your company",
	NotActive:    "Vehicle not found or already deleted",
	NotDeleted:   "Vehicle not found or not deleted",
	ListFailed:   "Failed to fetch vehicles",
	CreateFailed: "Failed to create vehicle",
	UpdateFailed: "Failed to update vehicle",
	Created:      "Vehicle created successfully",
	Updated:      "Vehicle updated successfully",
	Deleted:      "Vehicle deleted successfully",
	Restored:     "Vehicle restored successfully",
}

// VehicleHandlers handles vehicle-related HTTP requests
type VehicleHandlers struct {
	vehicleService services.VehicleService
}

// NewVehicleHandlers creates a new vehicle handlers instance
func NewVehicleHandlers(vehicleService services.VehicleService) *VehicleHandlers {
	return &VehicleHandlers{vehicleService: vehicleService}
}

// ListVehicles returns the company's active vehicles, newest first
func (h *VehicleHandlers) ListVehicles(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	vehicles, err := h.vehicleService.List(c.Request().Context(), companyID)
	if err != nil {
		return serviceError(c, err, "", vehicleMessages.ListFailed)
	}
	return common.SendData(c, http.StatusOK, vehicles)
}

// GetVehicle returns one active vehicle
func (h *VehicleHandlers) GetVehicle(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, vehicleMessages.NotFound)
	if err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Get(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, vehicleMessages.NotFound, MsgInternalError)
	}
	return common.SendData(c, http.StatusOK, vehicle)
}

// CreateVehicle adds a vehicle to the caller's company
func (h *VehicleHandlers) CreateVehicle(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	var req services.VehicleInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Create(c.Request().Context(), companyID, &req)
	if err != nil {
		return serviceError(c, err, "", vehicleMessages.CreateFailed)
	}
	return common.SendSuccess(c, http.StatusCreated, vehicleMessages.Created, vehicle)
}

// UpdateVehicle rewrites an active vehicle
func (h *VehicleHandlers) UpdateVehicle(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, vehicleMessages.NotOwned)
	if err != nil {
		return err
	}

	var req services.VehicleInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Update(c.Request().Context(), companyID, id, &req)
	if err != nil {
		return serviceError(c, err, vehicleMessages.NotOwned, vehicleMessages.UpdateFailed)
	}
	return common.SendSuccess(c, http.StatusOK, vehicleMessages.Updated, vehicle)
}

// DeleteVehicle soft-deletes an active vehicle
func (h *VehicleHandlers) DeleteVehicle(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, vehicleMessages.NotActive)
	if err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Delete(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, vehicleMessages.NotActive, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, vehicleMessages.Deleted, vehicle)
}

// RestoreVehicle brings a soft-deleted vehicle back
func (h *VehicleHandlers) RestoreVehicle(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, vehicleMessages.NotDeleted)
	if err != nil {
		return err
	}

	vehicle, err := h.vehicleService.Restore(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, vehicleMessages.NotDeleted, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, vehicleMessages.Restored, vehicle)
}
