package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stocky/internal/export"
	"stocky/internal/services"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task type definitions
const (
	TypeReportArchive = "report:archive"
)

const archiveTaskTimeout = 5 * time.Minute

// ReportArchivePayload defines the payload for report archive tasks
type ReportArchivePayload struct {
	Format string `json:"format"`
}

// NewReportArchiveTask creates a new report archive task
func NewReportArchiveTask(format export.Format) (*asynq.Task, error) {
	data, err := json.Marshal(ReportArchivePayload{Format: string(format)})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReportArchive, data, asynq.MaxRetry(3), asynq.Timeout(archiveTaskTimeout)), nil
}

// ReportArchiver runs archive tasks on the asynq worker.
type ReportArchiver struct {
	archiveService services.ArchiveService
	log            *zap.Logger
}

func NewReportArchiver(archiveService services.ArchiveService, log *zap.Logger) *ReportArchiver {
	return &ReportArchiver{archiveService: archiveService, log: log}
}

// RegisterHandlers binds every task type this package handles.
func (r *ReportArchiver) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReportArchive, r.ReportArchiveHandler)
}

// ReportArchiveHandler handles report archive tasks
func (r *ReportArchiver) ReportArchiveHandler(ctx context.Context, t *asynq.Task) error {
	var payload ReportArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal archive payload: %v: %w", err, asynq.SkipRetry)
	}

	format, err := export.ParseFormat(payload.Format)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	r.log.Info("Starting report archive", zap.String("format", string(format)))
	archived, err := r.archiveService.Archive(ctx, format)
	if err != nil {
		r.log.Error("Report archive failed", zap.String("format", string(format)), zap.Error(err))
		return err
	}

	r.log.Info("Report archive completed", zap.String("object", archived.Object), zap.String("url", archived.URL))
	return nil
}

// ArchiveDispatcher starts an archive of the current report in every export format.
type ArchiveDispatcher interface {
	DispatchArchive(ctx context.Context) error
}

// TaskEnqueuer is the part of *asynq.Client the dispatcher needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type queuedArchiveDispatcher struct {
	client TaskEnqueuer
	log    *zap.Logger
}

// NewQueuedArchiveDispatcher enqueues one task per format for the asynq worker.
func NewQueuedArchiveDispatcher(client TaskEnqueuer, log *zap.Logger) ArchiveDispatcher {
	return &queuedArchiveDispatcher{client: client, log: log}
}

func (d *queuedArchiveDispatcher) DispatchArchive(ctx context.Context) error {
	var errs []error
	for _, format := range export.Formats {
		task, err := NewReportArchiveTask(format)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		info, err := d.client.EnqueueContext(ctx, task)
		if err != nil {
			d.log.Error("Failed to enqueue archive task", zap.String("format", string(format)), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		d.log.Info("Archive task queued", zap.String("format", string(format)), zap.String("task_id", info.ID))
	}
	return errors.Join(errs...)
}

type syncArchiveDispatcher struct {
	archiveService services.ArchiveService
	log            *zap.Logger
}

// NewSyncArchiveDispatcher archives in the calling goroutine. It is used when
// no Redis is configured for the task queue.
func NewSyncArchiveDispatcher(archiveService services.ArchiveService, log *zap.Logger) ArchiveDispatcher {
	return &syncArchiveDispatcher{archiveService: archiveService, log: log}
}

func (d *syncArchiveDispatcher) DispatchArchive(ctx context.Context) error {
	var errs []error
	for _, format := range export.Formats {
		archived, err := d.archiveService.Archive(ctx, format)
		if err != nil {
			d.log.Error("Report archive failed", zap.String("format", string(format)), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		d.log.Info("Report archived", zap.String("object", archived.Object))
	}
	return errors.Join(errs...)
}
