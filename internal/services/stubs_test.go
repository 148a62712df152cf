package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type memAnalysisRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*models.Analysis
	createErr error
	finds     int
}

func newMemAnalysisRepo() *memAnalysisRepo {
	return &memAnalysisRepo{items: make(map[uuid.UUID]*models.Analysis)}
}

func (r *memAnalysisRepo) Create(_ context.Context, a *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.items[a.ID] = a
	return nil
}

func (r *memAnalysisRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("analysis %s: %w", id, repositories.ErrNotFound)
	}
	return a, nil
}

func (r *memAnalysisRepo) FindByUser(_ context.Context, userID string, limit int) ([]models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Analysis
	for _, a := range r.items {
		if a.UserID == userID && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

type memResumeRepo struct {
	mu        sync.Mutex
	resumes   map[uuid.UUID]*models.Resume
	analyses  map[uuid.UUID]*models.Analysis
	createErr error
}

func newMemResumeRepo() *memResumeRepo {
	return &memResumeRepo{
		resumes:  make(map[uuid.UUID]*models.Resume),
		analyses: make(map[uuid.UUID]*models.Analysis),
	}
}

func (r *memResumeRepo) CreateWithAnalysis(_ context.Context, resume *models.Resume, analysis *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.resumes[resume.ID] = resume
	r.analyses[analysis.ID] = analysis
	return nil
}

func (r *memResumeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return nil, fmt.Errorf("resume %s: %w", id, repositories.ErrNotFound)
	}
	cp := *res
	return &cp, nil
}

func (r *memResumeRepo) get(id uuid.UUID) *models.Resume {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resumes[id]
}

// state reads the export status and attempt count under the lock.
func (r *memResumeRepo) state(id uuid.UUID) (models.ExportStatus, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return "", 0
	}
	return res.Status, res.Attempts
}

func (r *memResumeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ExportStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	res.Status = status
	if status == models.StatusProcessing {
		res.Attempts++
	}
	return nil
}

func (r *memResumeRepo) UpdateExport(_ context.Context, id uuid.UUID, keys *repositories.ExportKeys) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	res.Status = models.StatusCompleted
	res.ErrorMessage = nil
	if keys.HTML != "" {
		res.HTMLKey = &keys.HTML
	}
	if keys.PDF != "" {
		res.PDFKey = &keys.PDF
	}
	if keys.Preview != "" {
		res.PreviewKey = &keys.Preview
	}
	return nil
}

func (r *memResumeRepo) UpdateError(_ context.Context, id uuid.UUID, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return repositories.ErrNotFound
	}
	res.Status = models.StatusFailed
	res.ErrorMessage = &msg
	return nil
}

func (r *memResumeRepo) FindPendingJobs(_ context.Context, limit int) ([]models.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Resume
	for _, res := range r.resumes {
		if res.Status == models.StatusQueued && len(out) < limit {
			out = append(out, *res)
		}
	}
	return out, nil
}

type memCache struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Analysis
	hits  int
}

func newMemCache() *memCache {
	return &memCache{items: make(map[uuid.UUID]*models.Analysis)}
}

func (c *memCache) Get(_ context.Context, id uuid.UUID) (*models.Analysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.items[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	c.hits++
	return a, nil
}

func (c *memCache) Set(_ context.Context, a *models.Analysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[a.ID] = a
	return nil
}

type publishedEvent struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{key: key, payload: payload})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

type recordingQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *recordingQueue) EnqueueJob(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
}

// stubRenderer returns fixed artifacts so exports do not need cgo.
type stubRenderer struct {
	pdfErr     error
	previewErr error
}

func (stubRenderer) RenderHTML(r *models.Resume, _ ResumeTemplate) ([]byte, error) {
	return []byte("<html>" + r.Form.Data().PersonalInfo.FullName + "</html>"), nil
}

func (s stubRenderer) RenderPDF(*models.Resume, ResumeTemplate) ([]byte, error) {
	if s.pdfErr != nil {
		return nil, s.pdfErr
	}
	return []byte("%PDF-1.3 stub"), nil
}

func (s stubRenderer) RenderPreview([]byte) ([]byte, error) {
	if s.previewErr != nil {
		return nil, s.previewErr
	}
	return []byte{0xff, 0xd8, 0xff}, nil
}

// failingStorage rejects saves of keys with the given suffix.
type failingStorage struct {
	StorageService
	suffix string
}

func (s failingStorage) Save(ctx context.Context, key, contentType string, data []byte) error {
	if strings.HasSuffix(key, s.suffix) {
		return errBoom
	}
	return s.StorageService.Save(ctx, key, contentType, data)
}

var errBoom = errors.New("boom")
