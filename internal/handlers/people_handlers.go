package handlers

import (
	"net/http"

	"schedulepro/internal/common"
	"schedulepro/internal/services"

	"github.com/labstack/echo/v4"
)

var personMessages = entityMessages{
	NotFound:     "Person not found",
	NotOwned:     "Person not found or does not belong to your company",
	NotActive:    "Person not found or already deleted",
	NotDeleted:   "Person not found or not deleted",
	ListFailed:   "Failed to fetch people",
	CreateFailed: "Failed to create person",
	UpdateFailed: "Failed to update person",
	Created:      "Person created successfully",
	Updated:      "Person updated successfully",
	Deleted:      "Person deleted successfully",
	Restored:     "Person restored successfully",
}

// PersonHandlers handles people-related HTTP requests
type PersonHandlers struct {
	personService services.PersonService
}

// NewPersonHandlers creates a new person handlers instance
func NewPersonHandlers(personService services.PersonService) *PersonHandlers {
	return &PersonHandlers{personService: personService}
}

// ListPeople returns the company's active people, newest first
func (h *PersonHandlers) ListPeople(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	people, err := h.personService.List(c.Request().Context(), companyID)
	if err != nil {
		return serviceError(c, err, "", personMessages.ListFailed)
	}
	return common.SendData(c, http.StatusOK, people)
}

// GetPerson returns one active person
func (h *PersonHandlers) GetPerson(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, personMessages.NotFound)
	if err != nil {
		return err
	}

	person, err := h.personService.Get(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, personMessages.NotFound, MsgInternalError)
	}
	return common.SendData(c, http.StatusOK, person)
}

// CreatePerson adds a person to the caller's company
func (h *PersonHandlers) CreatePerson(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}

	var req services.PersonInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	person, err := h.personService.Create(c.Request().Context(), companyID, &req)
	if err != nil {
		return serviceError(c, err, "", personMessages.CreateFailed)
	}
	return common.SendSuccess(c, http.StatusCreated, personMessages.Created, person)
}

// UpdatePerson rewrites an active person
func (h *PersonHandlers) UpdatePerson(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, personMessages.NotOwned)
	if err != nil {
		return err
	}

	var req services.PersonInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	person, err := h.personService.Update(c.Request().Context(), companyID, id, &req)
	if err != nil {
		return serviceError(c, err, personMessages.NotOwned, personMessages.UpdateFailed)
	}
	return common.SendSuccess(c, http.StatusOK, personMessages.Updated, person)
}

// DeletePerson soft-deletes an active person
func (h *PersonHandlers) DeletePerson(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, personMessages.NotActive)
	if err != nil {
		return err
	}

	person, err := h.personService.Delete(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, personMessages.NotActive, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, personMessages.Deleted, person)
}

// RestorePerson brings a soft-deleted person back
func (h *PersonHandlers) RestorePerson(c echo.Context) error {
	companyID, err := companyIDFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, personMessages.NotDeleted)
	if err != nil {
		return err
	}

	person, err := h.personService.Restore(c.Request().Context(), companyID, id)
	if err != nil {
		return serviceError(c, err, personMessages.NotDeleted, MsgInternalError)
	}
	return common.SendSuccess(c, http.StatusOK, personMessages.Restored, person)
}
