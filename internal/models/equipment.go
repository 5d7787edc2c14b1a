package models

import (
	"time"

	"github.com/google/uuid"
)

// Equipment conditions, best first.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// IsValidCondition reports whether c is one of the four equipment conditions.
func IsValidCondition(c string) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type Equipment struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CompanyID    uuid.UUID  `json:"company_id" db:"company_id"`
	Name         string     `json:"name" db:"name"`
	SerialNumber string     `json:"serial_number" db:"serial_number"`
	Type         *string    `json:"type" db:"type"`
	Condition    *string    `json:"condition" db:"condition"`
	Notes        *string    `json:"notes" db:"notes"`
	IsDeleted    bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
