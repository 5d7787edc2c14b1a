package analytics

import (
	"context"
	"sync"
	"time"

	"schedulepro/internal/models"
	"schedulepro/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker records product analytics events. Track must never block a
// request or report a failure to it.
type Tracker interface {
	Track(ctx context.Context, eventName string, companyID *uuid.UUID, metadata map[string]any)
}

// EventMetrics receives tracker counters. A nil EventMetrics is allowed.
type EventMetrics interface {
	EventTracked(eventName string)
	EventsDropped(n int)
	EventsFlushed(n int)
}

const DefaultBufferSize = 1000

// BufferedTracker keeps events in memory until Flush writes them in one batch.
// When the buffer is full new events are dropped.
type BufferedTracker struct {
	repo    repositories.AnalyticsRepository
	logger  *zap.Logger
	metrics EventMetrics
	limit   int
	now     func() time.Time

	mu     sync.Mutex
	buffer []models.AnalyticsEvent
}

func NewBufferedTracker(repo repositories.AnalyticsRepository, logger *zap.Logger, metrics EventMetrics, limit int) *BufferedTracker {
	if limit <= 0 {
		limit = DefaultBufferSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BufferedTracker{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		limit:   limit,
		now:     time.Now,
		buffer:  make([]models.AnalyticsEvent, 0, limit),
	}
}

func (t *BufferedTracker) Track(_ context.Context, eventName string, companyID *uuid.UUID, metadata map[string]any) {
	event := models.AnalyticsEvent{
		ID:        uuid.New(),
		CompanyID: companyID,
		EventName: eventName,
		Metadata:  metadata,
		CreatedAt: t.now().UTC(),
	}

	t.mu.Lock()
	full := len(t.buffer) >= t.limit
	if !full {
		t.buffer = append(t.buffer, event)
	}
	t.mu.Unlock()

	if full {
		t.logger.Warn("analytics buffer full, dropping event", zap.String("event", eventName))
		if t.metrics != nil {
			t.metrics.EventsDropped(1)
		}
		return
	}
	if t.metrics != nil {
		t.metrics.EventTracked(eventName)
	}
}

// Pending returns the number of buffered events.
func (t *BufferedTracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buffer)
}

// Flush writes the buffered events. A failed batch is logged and discarded.
func (t *BufferedTracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	batch := t.buffer
	t.buffer = make([]models.AnalyticsEvent, 0, t.limit)
	t.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	n, err := t.repo.InsertBatch(ctx, batch)
	if err != nil {
		t.logger.Error("failed to flush analytics events", zap.Int("events", len(batch)), zap.Error(err))
		if t.metrics != nil {
			t.metrics.EventsDropped(len(batch))
		}
		return err
	}

	t.logger.Debug("flushed analytics events", zap.Int64("events", n))
	if t.metrics != nil {
		t.metrics.EventsFlushed(int(n))
	}
	return nil
}
