package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(resumeID uuid.UUID)
}

type worker struct {
	resumeRepo    repositories.ResumeRepository
	exportService ExportService
	cfg           config.WorkerConfig
	log           *zap.Logger

	jobQueue chan uuid.UUID
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once

	// inflight holds ids that are queued or being exported, so the poller
	// does not hand the same resume to two goroutines.
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

func NewWorker(
	resumeRepo repositories.ResumeRepository,
	exportService ExportService,
	cfg config.WorkerConfig,
	log *zap.Logger,
) Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.RetryMaxAttempts <= 0 {
		cfg.RetryMaxAttempts = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	return &worker{
		resumeRepo:    resumeRepo,
		exportService: exportService,
		cfg:           cfg,
		log:           log.Named("worker"),
		jobQueue:      make(chan uuid.UUID, 100),
		stopChan:      make(chan struct{}),
		inflight:      make(map[uuid.UUID]struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("starting worker", zap.Int("concurrency", w.cfg.Concurrency))

	for i := 0; i < w.cfg.Concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("stopping worker")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("worker stopped")
}

// EnqueueJob implements Worker. It never blocks.
func (w *worker) EnqueueJob(resumeID uuid.UUID) {
	if !w.claim(resumeID) {
		return
	}

	select {
	case w.jobQueue <- resumeID:
		w.log.Debug("job enqueued", zap.String("resume_id", resumeID.String()))
	case <-w.stopChan:
		w.release(resumeID)
		w.log.Warn("worker stopped, job left for the poller", zap.String("resume_id", resumeID.String()))
	default:
		// Queued rows are picked up again by the poller.
		w.release(resumeID)
		w.log.Warn("job queue full, job left for the poller", zap.String("resume_id", resumeID.String()))
	}
}

func (w *worker) claim(id uuid.UUID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.inflight[id]; ok {
		return false
	}
	w.inflight[id] = struct{}{}
	return true
}

func (w *worker) release(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inflight, id)
	w.mu.Unlock()
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case resumeID := <-w.jobQueue:
			w.process(ctx, log, resumeID)
			w.release(resumeID)
		}
	}
}

// process runs one export with exponential backoff between attempts.
func (w *worker) process(ctx context.Context, log *zap.Logger, resumeID uuid.UUID) {
	log = log.With(zap.String("resume_id", resumeID.String()))
	delay := w.cfg.RetryInitialDelay

	var err error
	for attempt := 1; attempt <= w.cfg.RetryMaxAttempts; attempt++ {
		if err = w.exportService.Export(ctx, resumeID); err == nil {
			return
		}
		log.Warn("export attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt == w.cfg.RetryMaxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-w.stopChan:
			w.requeue(log, resumeID)
			return
		case <-ctx.Done():
			w.requeue(log, resumeID)
			return
		}
		delay *= 2
	}

	log.Error("export failed", zap.Int("attempts", w.cfg.RetryMaxAttempts), zap.Error(err))
	if ferr := w.exportService.Fail(ctx, resumeID, err); ferr != nil {
		log.Error("failed to mark export as failed", zap.Error(ferr))
	}
}

// requeue hands an interrupted export back to the poller. Export has already
// moved it to processing, which the poller never selects.
func (w *worker) requeue(log *zap.Logger, resumeID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.resumeRepo.UpdateStatus(ctx, resumeID, models.StatusQueued); err != nil {
		log.Error("failed to requeue interrupted export", zap.Error(err))
		return
	}
	log.Info("export interrupted, job requeued")
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pendingJobs, err := w.resumeRepo.FindPendingJobs(ctx, 10)
			if err != nil {
				w.log.Warn("failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pendingJobs) > 0 {
				w.log.Debug("found pending jobs", zap.Int("count", len(pendingJobs)))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
