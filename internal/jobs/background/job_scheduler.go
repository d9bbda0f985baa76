package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stocky/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	JobLowStockScan  = "low-stock-scan"
	JobReportArchive = "report-archive"
)

// Intervals configures how often each background job runs.
type Intervals struct {
	LowStock time.Duration
	Archive  time.Duration
}

// JobScheduler runs the periodic maintenance jobs in-process.
type JobScheduler struct {
	scheduler gocron.Scheduler
	alerts    *jobs.LowStockAlertService
	archiver  jobs.ArchiveDispatcher
	jobs      map[string]gocron.Job
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	log       *zap.Logger
}

// NewJobScheduler registers the low-stock scan and, when archiver is not nil,
// the report archive job.
func NewJobScheduler(alerts *jobs.LowStockAlertService, archiver jobs.ArchiveDispatcher, intervals Intervals, log *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	js := &JobScheduler{
		scheduler: scheduler,
		alerts:    alerts,
		archiver:  archiver,
		jobs:      make(map[string]gocron.Job),
		ctx:       ctx,
		cancel:    cancel,
		log:       log,
	}

	if err := js.registerJobs(intervals); err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info("Starting background job scheduler", zap.Strings("jobs", js.JobNames()))
	js.scheduler.Start()
}

// Stop cancels running jobs and waits for them to return.
func (js *JobScheduler) Stop() error {
	js.log.Info("Stopping background job scheduler")
	js.cancel()
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs(intervals Intervals) error {
	if intervals.LowStock > 0 {
		if err := js.AddJob(JobLowStockScan, intervals.LowStock, js.alerts.ScheduledLowStockCheck,
			gocron.WithStartAt(gocron.WithStartImmediately())); err != nil {
			return err
		}
	}

	if js.archiver != nil && intervals.Archive > 0 {
		if err := js.AddJob(JobReportArchive, intervals.Archive, js.archiver.DispatchArchive); err != nil {
			return err
		}
	}

	js.log.Info("Registered background jobs", zap.Int("count", len(js.jobs)))
	return nil
}

// AddJob runs fn every interval. A run still in progress when the next one is
// due makes the scheduler skip ahead instead of overlapping.
func (js *JobScheduler) AddJob(name string, interval time.Duration, fn func(context.Context) error, opts ...gocron.JobOption) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	opts = append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, opts...)

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.run(name, fn)),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}

	js.jobs[name] = job
	return nil
}

func (js *JobScheduler) run(name string, fn func(context.Context) error) func() {
	return func() {
		start := time.Now()
		if err := fn(js.ctx); err != nil {
			js.log.Error("Background job failed", zap.String("job", name), zap.Error(err))
			return
		}
		js.log.Debug("Background job completed", zap.String("job", name), zap.Duration("took", time.Since(start)))
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
