package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type ResumeRepository interface {
	CreateWithAnalysis(ctx context.Context, resume *models.Resume, analysis *models.Analysis) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ExportStatus) error
	UpdateExport(ctx context.Context, id uuid.UUID, keys *ExportKeys) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	FindPendingJobs(ctx context.Context, limit int) ([]models.Resume, error)
}

// ExportKeys are the storage keys of a rendered resume.
type ExportKeys struct {
	HTML    string
	PDF     string
	Preview string
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// CreateWithAnalysis stores a generated resume and its assessment atomically.
func (r *resumeRepository) CreateWithAnalysis(ctx context.Context, resume *models.Resume, analysis *models.Analysis) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(analysis).Error; err != nil {
			return fmt.Errorf("failed to create analysis: %w", err)
		}
		if err := tx.Create(resume).Error; err != nil {
			return fmt.Errorf("failed to create resume: %w", err)
		}
		return nil
	})
	return err
}

func (r *resumeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

func (r *resumeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ExportStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.StatusProcessing {
		updates["attempts"] = gorm.Expr("attempts + 1")
	}

	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *resumeRepository) UpdateExport(ctx context.Context, id uuid.UUID, keys *ExportKeys) error {
	updates := map[string]interface{}{
		"status":        models.StatusCompleted,
		"error_message": nil,
		"updated_at":    time.Now(),
	}
	if keys.HTML != "" {
		updates["html_key"] = keys.HTML
	}
	if keys.PDF != "" {
		updates["pdf_key"] = keys.PDF
	}
	if keys.Preview != "" {
		updates["preview_key"] = keys.Preview
	}

	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update export: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *resumeRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	result := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *resumeRepository) FindPendingJobs(ctx context.Context, limit int) ([]models.Resume, error) {
	var resumes []models.Resume
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&resumes).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}
	return resumes, nil
}
