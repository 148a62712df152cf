package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

var (
	// ErrInvalidInput marks requests rejected before any work is done.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersistence marks storage failures after a successful analysis.
	ErrPersistence = errors.New("failed to persist analysis")
)

type AnalysisService interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*models.Analysis, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Analysis, error)
}

type AnalyzeInput struct {
	UserID   string
	FileName string
	Data     []byte
}

// AnalysisEvent is published after an analysis is stored.
type AnalysisEvent struct {
	AnalysisID string              `json:"analysisId"`
	UserID     string              `json:"userId"`
	FileName   string              `json:"fileName,omitempty"`
	Type       models.AnalysisType `json:"type"`
	Score      int                 `json:"score"`
	CreatedAt  time.Time           `json:"createdAt"`
}

type analysisService struct {
	repo      repositories.AnalysisRepository
	engine    *analyzer.Engine
	extractor TextExtractor
	cache     ResultCache
	events    EventPublisher
	log       *zap.Logger
}

func NewAnalysisService(
	repo repositories.AnalysisRepository,
	engine *analyzer.Engine,
	extractor TextExtractor,
	cache ResultCache,
	events EventPublisher,
	log *zap.Logger,
) AnalysisService {
	return &analysisService{
		repo:      repo,
		engine:    engine,
		extractor: extractor,
		cache:     cache,
		events:    events,
		log:       log.Named("analysis"),
	}
}

// Analyze extracts the document text, scores it and stores the result.
// Gate rejections come back as *analyzer.ValidationError.
func (s *analysisService) Analyze(ctx context.Context, in AnalyzeInput) (*models.Analysis, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidInput)
	}

	log := s.log.With(zap.String("user_id", in.UserID), zap.String("file", logger.Truncate(in.FileName, 80)))

	extracted, err := s.extractor.Extract(in.FileName, in.Data)
	if err != nil {
		log.Info("text extraction failed", zap.Error(err))
		return nil, err
	}
	log.Debug("text extracted",
		zap.String("format", extracted.Format),
		zap.Int("pages", extracted.PageCount),
		zap.Int("chars", len(extracted.Text)),
	)

	result, err := s.engine.Analyze(extracted.Text)
	if err != nil {
		var verr *analyzer.ValidationError
		if errors.As(err, &verr) {
			log.Info("document rejected", zap.String("check", string(verr.Verdict.Check)))
		}
		return nil, err
	}

	analysis := models.NewAnalysis(in.UserID, in.FileName, models.AnalysisUploaded, result)
	if err := s.repo.Create(ctx, analysis); err != nil {
		log.Error("failed to store analysis", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.afterCreate(ctx, analysis)

	log.Info("analysis completed",
		zap.String("analysis_id", analysis.ID.String()),
		zap.Int("score", analysis.Score),
	)
	return analysis, nil
}

// afterCreate warms the cache and announces the analysis. Both are
// best-effort: the record is already stored.
func (s *analysisService) afterCreate(ctx context.Context, analysis *models.Analysis) {
	if err := s.cache.Set(ctx, analysis); err != nil {
		s.log.Warn("failed to cache analysis", zap.String("analysis_id", analysis.ID.String()), zap.Error(err))
	}

	event := AnalysisEvent{
		AnalysisID: analysis.ID.String(),
		UserID:     analysis.UserID,
		FileName:   analysis.FileName,
		Type:       analysis.Type,
		Score:      analysis.Score,
		CreatedAt:  analysis.CreatedAt,
	}
	if err := s.events.Publish(ctx, EventAnalysisCreated, event); err != nil {
		s.log.Warn("failed to publish analysis event", zap.String("analysis_id", analysis.ID.String()), zap.Error(err))
	}
}

func (s *analysisService) Get(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	cached, err := s.cache.Get(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn("cache read failed", zap.String("analysis_id", id.String()), zap.Error(err))
	}

	analysis, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, analysis); err != nil {
		s.log.Warn("failed to cache analysis", zap.String("analysis_id", id.String()), zap.Error(err))
	}
	return analysis, nil
}

func (s *analysisService) ListByUser(ctx context.Context, userID string, limit int) ([]models.Analysis, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.FindByUser(ctx, userID, limit)
}
