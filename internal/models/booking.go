package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	CompanyID    uuid.UUID    `json:"company_id" db:"company_id"`
	CreatedBy    *uuid.UUID   `json:"created_by" db:"created_by"`
	Title        string       `json:"title" db:"title"`
	Location     *string      `json:"location" db:"location"`
	StartTime    time.Time    `json:"start_time" db:"start_time"`
	EndTime      time.Time    `json:"end_time" db:"end_time"`
	Notes        *string      `json:"notes" db:"notes"`
	Requirements Requirements `json:"requirements" db:"requirements"`
	IsDeleted    bool         `json:"is_deleted" db:"is_deleted"`
	DeletedAt    *time.Time   `json:"deleted_at" db:"deleted_at"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`

	// Assigned resource ids, loaded from the junction tables.
	People    []uuid.UUID `json:"people"`
	Vehicles  []uuid.UUID `json:"vehicles"`
	Equipment []uuid.UUID `json:"equipment"`
}

// BookingResources is the resource set written to the junction tables.
type BookingResources struct {
	People    []uuid.UUID
	Vehicles  []uuid.UUID
	Equipment []uuid.UUID
}

// EnsureResourceSlices replaces nil id slices with empty ones so they encode as [].
func (b *Booking) EnsureResourceSlices() {
	if b.People == nil {
		b.People = []uuid.UUID{}
	}
	if b.Vehicles == nil {
		b.Vehicles = []uuid.UUID{}
	}
	if b.Equipment == nil {
		b.Equipment = []uuid.UUID{}
	}
}
