package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"schedulepro/internal/models"

	"github.com/jackc/pgx/v5"
)

type AnalyticsRepository interface {
	InsertBatch(ctx context.Context, events []models.AnalyticsEvent) (int64, error)
}

type analyticsRepo struct {
	db Database
}

func NewAnalyticsRepository(db Database) AnalyticsRepository {
	return &analyticsRepo{db: db}
}

var analyticsEventColumns = []string{"id", "company_id", "event_name", "metadata", "created_at"}

// InsertBatch copies the events into analytics_events with the COPY protocol.
func (r *analyticsRepo) InsertBatch(ctx context.Context, events []models.AnalyticsEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(events))
	for _, ev := range events {
		metadata := ev.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		data, err := json.Marshal(metadata)
		if err != nil {
			return 0, fmt.Errorf("encode metadata for %s: %w", ev.EventName, err)
		}
		rows = append(rows, []any{ev.ID, ev.CompanyID, ev.EventName, data, ev.CreatedAt})
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"analytics_events"}, analyticsEventColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy analytics events: %w", err)
	}
	return n, nil
}
