package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
)

func seedResume(repo *memResumeRepo) *models.Resume {
	r := &models.Resume{
		ID:         uuid.New(),
		UserID:     "user-1",
		TemplateID: "creative",
		Form:       datatypes.NewJSONType(sampleForm()),
		AnalysisID: uuid.New(),
		Status:     models.StatusQueued,
	}
	repo.resumes[r.ID] = r
	return r
}

func TestExportStoresArtifacts(t *testing.T) {
	repo := newMemResumeRepo()
	storage := NewLocalStorage(t.TempDir())
	events := &recordingPublisher{}
	exporter := NewExportService(repo, stubRenderer{}, storage, events, zap.NewNop())
	ctx := context.Background()

	resume := seedResume(repo)
	if err := exporter.Export(ctx, resume.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.get(resume.ID)
	if stored.Status != models.StatusCompleted || stored.Attempts != 1 {
		t.Fatalf("unexpected state %s after %d attempts", stored.Status, stored.Attempts)
	}
	if stored.PDFKey == nil || stored.HTMLKey == nil || stored.PreviewKey == nil {
		t.Fatalf("expected all artifact keys to be recorded")
	}

	pdf, err := exporter.OpenArtifact(ctx, stored, ArtifactPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Fatalf("unexpected pdf body %q", pdf)
	}

	if got := events.keys(); len(got) != 1 || got[0] != EventResumeExported {
		t.Fatalf("unexpected events %v", got)
	}

	// A completed export is not redone.
	if err := exporter.Export(ctx, resume.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.get(resume.ID).Attempts != 1 {
		t.Fatalf("completed export ran again")
	}
}

func TestExportToleratesPreviewFailure(t *testing.T) {
	repo := newMemResumeRepo()
	exporter := NewExportService(repo, stubRenderer{previewErr: errBoom}, NewLocalStorage(t.TempDir()), NewNoopPublisher(), zap.NewNop())

	resume := seedResume(repo)
	if err := exporter.Export(context.Background(), resume.ID); err != nil {
		t.Fatalf("preview failure must not fail the export: %v", err)
	}

	stored := repo.get(resume.ID)
	if stored.PreviewKey != nil {
		t.Fatalf("no preview key expected")
	}
	if _, err := exporter.OpenArtifact(context.Background(), stored, ArtifactPreview); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected missing preview, got %v", err)
	}
}

func TestExportFail(t *testing.T) {
	repo := newMemResumeRepo()
	events := &recordingPublisher{}
	exporter := NewExportService(repo, stubRenderer{}, NewLocalStorage(t.TempDir()), events, zap.NewNop())

	resume := seedResume(repo)
	if err := exporter.Fail(context.Background(), resume.ID, errBoom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.get(resume.ID)
	if stored.Status != models.StatusFailed || stored.ErrorMessage == nil || *stored.ErrorMessage != "boom" {
		t.Fatalf("unexpected state %+v", stored)
	}
	if got := events.keys(); len(got) != 1 || got[0] != EventResumeFailed {
		t.Fatalf("unexpected events %v", got)
	}
}

// flakyExporter fails until the given number of calls has been made.
type flakyExporter struct {
	failures int32
	calls    atomic.Int32
	failed   chan error
	done     chan uuid.UUID
}

func (e *flakyExporter) Export(_ context.Context, id uuid.UUID) error {
	if e.calls.Add(1) <= e.failures {
		return errBoom
	}
	e.done <- id
	return nil
}

func (e *flakyExporter) Fail(_ context.Context, _ uuid.UUID, cause error) error {
	e.failed <- cause
	return nil
}

func (e *flakyExporter) OpenArtifact(context.Context, *models.Resume, ArtifactKind) ([]byte, error) {
	return nil, ErrObjectNotFound
}

func newFlakyExporter(failures int32) *flakyExporter {
	return &flakyExporter{
		failures: failures,
		failed:   make(chan error, 1),
		done:     make(chan uuid.UUID, 1),
	}
}

func workerConfig(attempts int) config.WorkerConfig {
	return config.WorkerConfig{
		Concurrency:       2,
		RetryMaxAttempts:  attempts,
		RetryInitialDelay: time.Millisecond,
		PollInterval:      time.Hour,
	}
}

func TestWorkerRetriesUntilSuccess(t *testing.T) {
	exporter := newFlakyExporter(2)
	w := NewWorker(newMemResumeRepo(), exporter, workerConfig(3), zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	id := uuid.New()
	w.EnqueueJob(id)

	select {
	case got := <-exporter.done:
		if got != id {
			t.Fatalf("unexpected job %s", got)
		}
	case err := <-exporter.failed:
		t.Fatalf("job should have succeeded, failed with %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for export")
	}

	if got := exporter.calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestWorkerGivesUpAfterMaxAttempts(t *testing.T) {
	exporter := newFlakyExporter(10)
	w := NewWorker(newMemResumeRepo(), exporter, workerConfig(2), zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	w.EnqueueJob(uuid.New())

	select {
	case err := <-exporter.failed:
		if !errors.Is(err, errBoom) {
			t.Fatalf("unexpected cause %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for failure")
	}

	if got := exporter.calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestExportRemovesPartialArtifacts(t *testing.T) {
	repo := newMemResumeRepo()
	storage := NewLocalStorage(t.TempDir())
	exporter := NewExportService(repo, stubRenderer{}, failingStorage{StorageService: storage, suffix: ".pdf"}, NewNoopPublisher(), zap.NewNop())
	ctx := context.Background()

	resume := seedResume(repo)
	if err := exporter.Export(ctx, resume.ID); !errors.Is(err, errBoom) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if _, err := storage.Open(ctx, artifactKey(resume.ID, ArtifactHTML)); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("html artifact should be removed, got %v", err)
	}
	if status, _ := repo.state(resume.ID); status != models.StatusProcessing {
		t.Fatalf("unexpected status %s", status)
	}
}

func waitForState(t *testing.T, repo *memResumeRepo, id uuid.UUID, want func(models.ExportStatus, int) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if want(repo.state(id)) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	status, attempts := repo.state(id)
	t.Fatalf("timed out in state %s after %d attempts", status, attempts)
}

func TestWorkerRequeuesExportInterruptedByStop(t *testing.T) {
	repo := newMemResumeRepo()
	resume := seedResume(repo)

	cfg := workerConfig(3)
	cfg.RetryInitialDelay = time.Hour
	broken := NewExportService(repo, stubRenderer{pdfErr: errBoom}, NewLocalStorage(t.TempDir()), NewNoopPublisher(), zap.NewNop())
	w := NewWorker(repo, broken, cfg, zap.NewNop())
	w.Start(context.Background())

	w.EnqueueJob(resume.ID)
	waitForState(t, repo, resume.ID, func(_ models.ExportStatus, attempts int) bool { return attempts == 1 })
	w.Stop()

	if status, _ := repo.state(resume.ID); status != models.StatusQueued {
		t.Fatalf("stopped worker left the job %s", status)
	}

	// A restarted worker finds the job through the poller.
	cfg.RetryInitialDelay = time.Millisecond
	cfg.PollInterval = 10 * time.Millisecond
	healthy := NewExportService(repo, stubRenderer{}, NewLocalStorage(t.TempDir()), NewNoopPublisher(), zap.NewNop())
	w = NewWorker(repo, healthy, cfg, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	waitForState(t, repo, resume.ID, func(status models.ExportStatus, _ int) bool { return status == models.StatusCompleted })
	if _, attempts := repo.state(resume.ID); attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestWorkerEnqueueDoesNotBlockWhenFull(t *testing.T) {
	w := NewWorker(newMemResumeRepo(), newFlakyExporter(0), workerConfig(1), zap.NewNop()).(*worker)

	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(w.jobQueue)+5; i++ {
			w.EnqueueJob(uuid.New())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("EnqueueJob blocked on a full queue")
	}

	if got := len(w.jobQueue); got != cap(w.jobQueue) {
		t.Fatalf("expected a full queue, got %d", got)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if got := len(w.inflight); got != cap(w.jobQueue) {
		t.Fatalf("dropped jobs must be released, %d still claimed", got)
	}
}
