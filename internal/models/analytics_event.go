package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsEvent struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	CompanyID *uuid.UUID     `json:"company_id" db:"company_id"`
	EventName string         `json:"event_name" db:"event_name"`
	Metadata  map[string]any `json:"metadata" db:"metadata"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
