package models

import (
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	CompanyID      uuid.UUID  `json:"company_id" db:"company_id"`
	UserID         *uuid.UUID `json:"user_id" db:"user_id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	Phone          *string    `json:"phone" db:"phone"`
	HomeAddress    *string    `json:"home_address" db:"home_address"`
	Skills         []string   `json:"skills" db:"skills"`
	Certifications []string   `json:"certifications" db:"certifications"`
	HourlyRate     *float64   `json:"hourly_rate" db:"hourly_rate"`
	IsDeleted      bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
