package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Flusher drains an in-memory buffer to durable storage.
type Flusher interface {
	Flush(ctx context.Context) error
}

const analyticsFlushJob = "analytics-flush"

// JobScheduler runs the periodic background jobs of the API process.
type JobScheduler struct {
	scheduler     gocron.Scheduler
	flusher       Flusher
	flushInterval time.Duration
	logger        *zap.Logger
	jobs          map[string]gocron.Job
	mu            sync.RWMutex
}

// NewJobScheduler creates a scheduler that flushes analytics every flushInterval.
func NewJobScheduler(flusher Flusher, flushInterval time.Duration, logger *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		flusher:       flusher,
		flushInterval: flushInterval,
		logger:        logger,
		jobs:          make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Int("jobs", len(js.JobNames())))
	js.scheduler.Start()
}

// Stop shuts the scheduler down and flushes whatever is still buffered.
func (js *JobScheduler) Stop(ctx context.Context) error {
	js.logger.Info("stopping background job scheduler")
	if err := js.scheduler.Shutdown(); err != nil {
		return err
	}
	return js.flusher.Flush(ctx)
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.flushInterval),
		gocron.NewTask(js.flushAnalytics),
		gocron.WithName(analyticsFlushJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create %s job: %w", analyticsFlushJob, err)
	}

	js.mu.Lock()
	js.jobs[analyticsFlushJob] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) flushAnalytics() {
	ctx, cancel := context.WithTimeout(context.Background(), js.flushInterval)
	defer cancel()

	if err := js.flusher.Flush(ctx); err != nil {
		js.logger.Error("analytics flush job failed", zap.Error(err))
	}
}

// JobNames returns the registered job names in sorted order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
