package models

import (
	"time"

	"github.com/google/uuid"
)

type Vehicle struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CompanyID    uuid.UUID  `json:"company_id" db:"company_id"`
	Name         string     `json:"name" db:"name"`
	LicensePlate string     `json:"license_plate" db:"license_plate"`
	Make         *string    `json:"make" db:"make"`
	Model        *string    `json:"model" db:"model"`
	Year         *int       `json:"year" db:"year"`
	Capacity     *int       `json:"capacity" db:"capacity"`
	Notes        *string    `json:"notes" db:"notes"`
	IsDeleted    bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
