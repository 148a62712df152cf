package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type ExportService interface {
	// Export renders a queued resume once and stores the artifacts.
	Export(ctx context.Context, resumeID uuid.UUID) error
	// Fail marks the resume as failed after the last attempt.
	Fail(ctx context.Context, resumeID uuid.UUID, cause error) error
	// OpenArtifact returns a stored artifact of a completed export.
	OpenArtifact(ctx context.Context, resume *models.Resume, kind ArtifactKind) ([]byte, error)
}

type ArtifactKind string

const (
	ArtifactHTML    ArtifactKind = "html"
	ArtifactPDF     ArtifactKind = "pdf"
	ArtifactPreview ArtifactKind = "preview"
)

// ExportEvent is published when an export finishes or gives up.
type ExportEvent struct {
	ResumeID   string              `json:"resumeId"`
	AnalysisID string              `json:"analysisId"`
	UserID     string              `json:"userId"`
	Status     models.ExportStatus `json:"status"`
	Error      string              `json:"error,omitempty"`
	At         time.Time           `json:"at"`
}

type exportService struct {
	repo     repositories.ResumeRepository
	renderer ExportRenderer
	storage  StorageService
	events   EventPublisher
	log      *zap.Logger
}

func NewExportService(
	repo repositories.ResumeRepository,
	renderer ExportRenderer,
	storage StorageService,
	events EventPublisher,
	log *zap.Logger,
) ExportService {
	return &exportService{
		repo:     repo,
		renderer: renderer,
		storage:  storage,
		events:   events,
		log:      log.Named("export"),
	}
}

func artifactKey(id uuid.UUID, kind ArtifactKind) string {
	switch kind {
	case ArtifactHTML:
		return "resumes/" + id.String() + "/resume.html"
	case ArtifactPDF:
		return "resumes/" + id.String() + "/resume.pdf"
	default:
		return "resumes/" + id.String() + "/preview.jpg"
	}
}

func (s *exportService) Export(ctx context.Context, resumeID uuid.UUID) error {
	resume, err := s.repo.FindByID(ctx, resumeID)
	if err != nil {
		return err
	}
	if resume.Status == models.StatusCompleted {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, resumeID, models.StatusProcessing); err != nil {
		return err
	}

	tmpl, ok := FindTemplate(resume.TemplateID)
	if !ok {
		tmpl, _ = FindTemplate(DefaultTemplateID)
	}

	htmlDoc, err := s.renderer.RenderHTML(resume, tmpl)
	if err != nil {
		return err
	}
	pdfDoc, err := s.renderer.RenderPDF(resume, tmpl)
	if err != nil {
		return err
	}

	keys := &repositories.ExportKeys{
		HTML: artifactKey(resumeID, ArtifactHTML),
		PDF:  artifactKey(resumeID, ArtifactPDF),
	}
	if err := s.storage.Save(ctx, keys.HTML, "text/html; charset=utf-8", htmlDoc); err != nil {
		return err
	}
	if err := s.storage.Save(ctx, keys.PDF, "application/pdf", pdfDoc); err != nil {
		s.discard(ctx, resumeID, keys.HTML)
		return err
	}

	// The thumbnail is optional; a missing rasterizer must not fail the export.
	if preview, err := s.renderer.RenderPreview(pdfDoc); err != nil {
		s.log.Warn("preview rendering failed", zap.String("resume_id", resumeID.String()), zap.Error(err))
	} else {
		key := artifactKey(resumeID, ArtifactPreview)
		if err := s.storage.Save(ctx, key, "image/jpeg", preview); err != nil {
			s.log.Warn("failed to store preview", zap.String("resume_id", resumeID.String()), zap.Error(err))
		} else {
			keys.Preview = key
		}
	}

	if err := s.repo.UpdateExport(ctx, resumeID, keys); err != nil {
		return err
	}

	s.publish(ctx, EventResumeExported, resume, models.StatusCompleted, "")
	s.log.Info("resume exported",
		zap.String("resume_id", resumeID.String()),
		zap.String("template", tmpl.ID),
		zap.Int("pdf_bytes", len(pdfDoc)),
	)
	return nil
}

// discard removes an artifact left behind by a failed export.
func (s *exportService) discard(ctx context.Context, resumeID uuid.UUID, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("failed to remove partial artifact",
			zap.String("resume_id", resumeID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func (s *exportService) Fail(ctx context.Context, resumeID uuid.UUID, cause error) error {
	msg := cause.Error()
	if err := s.repo.UpdateError(ctx, resumeID, msg); err != nil {
		return fmt.Errorf("failed to record export failure: %w", err)
	}

	if resume, err := s.repo.FindByID(ctx, resumeID); err == nil {
		s.publish(ctx, EventResumeFailed, resume, models.StatusFailed, msg)
	}
	return nil
}

func (s *exportService) publish(ctx context.Context, key string, resume *models.Resume, status models.ExportStatus, msg string) {
	event := ExportEvent{
		ResumeID:   resume.ID.String(),
		AnalysisID: resume.AnalysisID.String(),
		UserID:     resume.UserID,
		Status:     status,
		Error:      msg,
		At:         time.Now(),
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		s.log.Warn("failed to publish export event", zap.String("event", key), zap.Error(err))
	}
}

func (s *exportService) OpenArtifact(ctx context.Context, resume *models.Resume, kind ArtifactKind) ([]byte, error) {
	var key *string
	switch kind {
	case ArtifactHTML:
		key = resume.HTMLKey
	case ArtifactPDF:
		key = resume.PDFKey
	case ArtifactPreview:
		key = resume.PreviewKey
	default:
		return nil, fmt.Errorf("%w: unknown artifact %q", ErrInvalidInput, kind)
	}
	if key == nil || *key == "" {
		return nil, fmt.Errorf("%s artifact of resume %s: %w", kind, resume.ID, ErrObjectNotFound)
	}
	return s.storage.Open(ctx, *key)
}
