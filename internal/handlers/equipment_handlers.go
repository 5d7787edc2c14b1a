package handlers

import (
	"net/http"

	"schedulepro/internal/common"
	"schedulepro/internal/services"

	"github.com/labstack/echo/v4"
)

var equipmentMessages = entityMessages{
	NotFound:     "Equipment not found",
	NotOwned:     "Equipment not found or does not belong to your company",
	NotActive:    "Equipment not found or already deleted",
	NotDeleted:   "Equipment not found or not deleted",
	ListFailed:   "Failed to fetch equipment",
	CreateFailed: "Failed to create equipment",
	UpdateFailed: "Failed to update equipment",
	Created:      "Equipment created successfully",
	Updated:      "Equipment updated successfully",
	Deleted:      "Equipment deleted successfully",
	Restored:     "Equipment restored successfully",
}

type EquipmentHandlers struct {
	equipmentService services.EquipmentService
}

func NewEquipmentHandlers(equipmentService services.EquipmentService) *EquipmentHandlers {
	return &EquipmentHandlers{equipmentService: equipmentService}
}

func (h *EquipmentHandlers) ListEquipment(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	items, err := h.equipmentService.List(c.Request().Context(), companyID)
	if err != nil {
		return serviceError(c, err, "", equipmentMessages.ListFailed)
	}
	return common.SendData(c, http.StatusOK, items)
}

func (h *EquipmentHandlers) GetEquipment(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, equipmentMessages.NotFound)
	if err != nil {
		return err
	}

	equipment, err := h.equipmentService.Get(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, equipmentMessages.NotFound, MsgInternalError)
	}
	return common.SendData(c, http.StatusOK, equipment)
}

func (h *EquipmentHandlers) CreateEquipment(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	var req services.EquipmentInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	equipment, err := h.equipmentService.Create(c.Request().Context(), companyID, &req)
	if err != nil {
		return serviceError(c, err, "", equipmentMessages.CreateFailed)
	}
	return common.SendSuccess(c, http.StatusCreated, equipmentMessages.Created, equipment)
}

func (h *EquipmentHandlers) UpdateEquipment(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, equipmentMessages.NotOwned)
	if err != nil {
		return err
	}

	var req services.EquipmentInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	equipment, err := h.equipmentService.Update(c.Request().Context(), companyID, id, &req)
	if err != nil {
		return serviceError(c, err, equipmentMessages.NotOwned, equipmentMessages.UpdateFailed)
	}
	return common.SendSuccess(c, http.StatusOK, equipmentMessages.Updated, equipment)
}

func (h *EquipmentHandlers) DeleteEquipment(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, equipmentMessages.NotActive)
	if err != nil {
		return err
	}

	equipment, err := h.equipmentService.Delete(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, equipmentMessages.NotActive, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, equipmentMessages.Deleted, equipment)
}

func (h *EquipmentHandlers) RestoreEquipment(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, equipmentMessages.NotDeleted)
	if err != nil {
		return err
	}

	equipment, err := h.equipmentService.Restore(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, equipmentMessages.NotDeleted, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, equipmentMessages.Restored, equipment)
}
