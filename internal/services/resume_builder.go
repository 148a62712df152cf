package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

// JobQueue accepts resume ids for background export.
type JobQueue interface {
	EnqueueJob(resumeID uuid.UUID)
}

type ResumeBuilder interface {
	Validate(form models.ResumeForm) error
	Compose(form models.ResumeForm) string
	Create(ctx context.Context, in CreateResumeInput) (*CreateResumeResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Resume, error)
}

type CreateResumeInput struct {
	UserID     string
	TemplateID string
	Form       models.ResumeForm
}

type CreateResumeResult struct {
	Resume   *models.Resume
	Analysis *models.Analysis
}

type resumeBuilder struct {
	repo   repositories.ResumeRepository
	engine *analyzer.Engine
	queue  JobQueue
	cache  ResultCache
	events EventPublisher
	log    *zap.Logger
}

func NewResumeBuilder(
	repo repositories.ResumeRepository,
	engine *analyzer.Engine,
	queue JobQueue,
	cache ResultCache,
	events EventPublisher,
	log *zap.Logger,
) ResumeBuilder {
	return &resumeBuilder{
		repo:   repo,
		engine: engine,
		queue:  queue,
		cache:  cache,
		events: events,
		log:    log.Named("resume_builder"),
	}
}

// Validate checks the minimum a generated resume needs: a name, a well
// formed email and at least one experience or education entry.
func (b *resumeBuilder) Validate(form models.ResumeForm) error {
	info := form.PersonalInfo
	if strings.TrimSpace(info.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(info.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !analyzer.EmailPattern.MatchString(info.Email) {
		return fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, info.Email)
	}
	if len(form.Experience) == 0 && len(form.Education) == 0 {
		return fmt.Errorf("%w: at least one experience or education entry is required", ErrInvalidInput)
	}
	return nil
}

// Compose lays the form out as plain text with the usual resume headings.
// Empty optional lines are left out.
func (b *resumeBuilder) Compose(form models.ResumeForm) string {
	var sb strings.Builder
	line := func(parts ...string) {
		s := joinNonEmpty(" | ", parts...)
		if s != "" {
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
	}
	heading := func(title string) {
		sb.WriteByte('\n')
		sb.WriteString(title)
		sb.WriteByte('\n')
	}

	info := form.PersonalInfo
	line(info.FullName)
	line(info.Email, info.Phone, info.Location)
	line(info.LinkedIn)
	line(info.Portfolio)

	if s := strings.TrimSpace(form.Summary); s != "" {
		heading("PROFESSIONAL SUMMARY")
		line(s)
	}

	if len(form.Experience) > 0 {
		heading("WORK EXPERIENCE")
		for i, exp := range form.Experience {
			if i > 0 {
				sb.WriteByte('\n')
			}
			line(exp.Title)
			line(exp.Company, exp.Location)
			line(dateRange(exp))
			for _, r := range exp.Responsibilities {
				line(bullet(r))
			}
		}
	}

	if len(form.Education) > 0 {
		heading("EDUCATION")
		for i, edu := range form.Education {
			if i > 0 {
				sb.WriteByte('\n')
			}
			line(edu.Degree)
			line(edu.School, edu.Location)
			if edu.GraduationDate != "" {
				line("Graduated: " + edu.GraduationDate)
			}
			if edu.GPA != "" {
				line("GPA: " + edu.GPA)
			}
			for _, h := range edu.Highlights {
				line(bullet(h))
			}
		}
	}

	if len(form.Skills.Technical) > 0 || len(form.Skills.Soft) > 0 {
		heading("SKILLS")
		if len(form.Skills.Technical) > 0 {
			line("Technical Skills:")
			line(strings.Join(form.Skills.Technical, ", "))
		}
		if len(form.Skills.Soft) > 0 {
			line("Professional Skills:")
			line(strings.Join(form.Skills.Soft, ", "))
		}
	}

	if len(form.Certifications) > 0 {
		heading("CERTIFICATIONS")
		for _, cert := range form.Certifications {
			line(cert.Name)
			line(cert.Issuer, cert.Date)
			line(cert.URL)
		}
	}

	return strings.TrimSpace(sb.String())
}

func dateRange(exp models.Experience) string {
	end := exp.EndDate
	if exp.Current {
		end = "Present"
	}
	if exp.StartDate == "" && end == "" {
		return ""
	}
	return exp.StartDate + " - " + end
}

func bullet(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return "• " + s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Create composes and scores the resume, stores it with its analysis and
// queues the export. The composed text is scored without the validity gate
// since its structure comes from the form.
func (b *resumeBuilder) Create(ctx context.Context, in CreateResumeInput) (*CreateResumeResult, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	tmpl, ok := FindTemplate(in.TemplateID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown template %q", ErrInvalidInput, in.TemplateID)
	}
	if err := b.Validate(in.Form); err != nil {
		return nil, err
	}

	content := b.Compose(in.Form)
	result := b.engine.Evaluate(content)

	resume := &models.Resume{
		ID:         uuid.New(),
		UserID:     in.UserID,
		TemplateID: tmpl.ID,
		Form:       datatypes.NewJSONType(in.Form),
		Content:    content,
		Status:     models.StatusQueued,
	}
	analysis := models.NewAnalysis(in.UserID, "", models.AnalysisCreated, result)
	analysis.ResumeID = &resume.ID
	resume.AnalysisID = analysis.ID
	resume.CreatedAt = analysis.CreatedAt
	resume.UpdatedAt = analysis.CreatedAt

	if err := b.repo.CreateWithAnalysis(ctx, resume, analysis); err != nil {
		b.log.Error("failed to store resume", zap.String("user_id", in.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := b.cache.Set(ctx, analysis); err != nil {
		b.log.Warn("failed to cache analysis", zap.String("analysis_id", analysis.ID.String()), zap.Error(err))
	}
	event := AnalysisEvent{
		AnalysisID: analysis.ID.String(),
		UserID:     analysis.UserID,
		Type:       analysis.Type,
		Score:      analysis.Score,
		CreatedAt:  analysis.CreatedAt,
	}
	if err := b.events.Publish(ctx, EventAnalysisCreated, event); err != nil {
		b.log.Warn("failed to publish analysis event", zap.String("analysis_id", analysis.ID.String()), zap.Error(err))
	}

	b.queue.EnqueueJob(resume.ID)

	b.log.Info("resume created",
		zap.String("resume_id", resume.ID.String()),
		zap.String("analysis_id", analysis.ID.String()),
		zap.String("template", tmpl.ID),
		zap.Int("score", analysis.Score),
	)

	return &CreateResumeResult{Resume: resume, Analysis: analysis}, nil
}

func (b *resumeBuilder) Get(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	return b.repo.FindByID(ctx, id)
}
