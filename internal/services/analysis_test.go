package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

const resumeHeader = `Jane Doe
jane.doe@example.com | +1 555 0100 | Berlin

Summary
Backend engineer focused on python services and postgresql.

Experience
Senior Engineer, Example Corp
Managed a team of five and improved latency by 35%.

Education
BSc Computer Science

Skills
docker, kubernetes, communication, agile
`

// sampleResume pads the header to a length the enhanced gate accepts.
func sampleResume() string {
	return resumeHeader + strings.Repeat("delivery ", 320)
}

type analysisFixture struct {
	service AnalysisService
	repo    *memAnalysisRepo
	cache   *memCache
	events  *recordingPublisher
}

func newAnalysisFixture(t *testing.T) *analysisFixture {
	t.Helper()
	f := &analysisFixture{
		repo:   newMemAnalysisRepo(),
		cache:  newMemCache(),
		events: &recordingPublisher{},
	}
	f.service = NewAnalysisService(
		f.repo,
		analyzer.Must(analyzer.EnhancedPolicy()),
		NewTextExtractor(),
		f.cache,
		f.events,
		zap.NewNop(),
	)
	return f
}

func TestAnalyzeStoresResult(t *testing.T) {
	f := newAnalysisFixture(t)

	analysis, err := f.service.Analyze(context.Background(), AnalyzeInput{
		UserID:   "user-1",
		FileName: "resume.txt",
		Data:     []byte(sampleResume()),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.Type != models.AnalysisUploaded {
		t.Fatalf("unexpected type %q", analysis.Type)
	}
	if analysis.Score < 50 {
		t.Fatalf("score below base: %d", analysis.Score)
	}
	if _, ok := f.repo.items[analysis.ID]; !ok {
		t.Fatalf("analysis was not stored")
	}
	if _, ok := f.cache.items[analysis.ID]; !ok {
		t.Fatalf("analysis was not cached")
	}
	if got := f.events.keys(); len(got) != 1 || got[0] != EventAnalysisCreated {
		t.Fatalf("unexpected events %v", got)
	}
	if !analysis.HasQuantifiableAchievements {
		t.Fatalf("expected quantifiable achievements from %q", "35%")
	}
}

func TestAnalyzeRejectsNonResume(t *testing.T) {
	f := newAnalysisFixture(t)

	_, err := f.service.Analyze(context.Background(), AnalyzeInput{
		UserID:   "user-1",
		FileName: "notes.txt",
		Data:     []byte("Shopping list: milk, eggs, bread and some coffee beans."),
	})

	var verr *analyzer.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Verdict.Check != analyzer.CheckLength {
		t.Fatalf("unexpected check %q", verr.Verdict.Check)
	}
	if len(f.repo.items) != 0 || len(f.events.keys()) != 0 {
		t.Fatalf("rejected document must not be stored or announced")
	}
}

func TestAnalyzeInputErrors(t *testing.T) {
	f := newAnalysisFixture(t)

	tests := []struct {
		name string
		in   AnalyzeInput
		want error
	}{
		{"missing user", AnalyzeInput{FileName: "a.txt", Data: []byte("x")}, ErrInvalidInput},
		{"empty file", AnalyzeInput{UserID: "u", FileName: "a.txt"}, ErrInvalidInput},
		{"unsupported type", AnalyzeInput{UserID: "u", FileName: "a.png", Data: []byte("png")}, ErrUnsupportedFile},
		{"blank text", AnalyzeInput{UserID: "u", FileName: "a.txt", Data: []byte("   \n  ")}, ErrExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Analyze(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAnalyzePersistenceFailure(t *testing.T) {
	f := newAnalysisFixture(t)
	f.repo.createErr = errBoom

	_, err := f.service.Analyze(context.Background(), AnalyzeInput{
		UserID:   "user-1",
		FileName: "resume.txt",
		Data:     []byte(sampleResume()),
	})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if len(f.events.keys()) != 0 {
		t.Fatalf("no event expected after a failed write")
	}
}

func TestAnalyzeIgnoresPublishFailure(t *testing.T) {
	f := newAnalysisFixture(t)
	f.events.err = errBoom

	if _, err := f.service.Analyze(context.Background(), AnalyzeInput{
		UserID:   "user-1",
		FileName: "resume.txt",
		Data:     []byte(sampleResume()),
	}); err != nil {
		t.Fatalf("publish failure must not fail the analysis: %v", err)
	}
}

func TestGetPrefersCache(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	stored := &models.Analysis{ID: uuid.New(), UserID: "user-1", Score: 70}
	f.repo.items[stored.ID] = stored

	got, err := f.service.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != stored.ID || f.repo.finds != 1 {
		t.Fatalf("expected one repository read, got %d", f.repo.finds)
	}

	if _, err := f.service.Get(ctx, stored.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repo.finds != 1 || f.cache.hits != 1 {
		t.Fatalf("second read should hit the cache (finds=%d hits=%d)", f.repo.finds, f.cache.hits)
	}

	if _, err := f.service.Get(ctx, uuid.New()); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByUserRequiresUser(t *testing.T) {
	f := newAnalysisFixture(t)

	if _, err := f.service.ListByUser(context.Background(), "", 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	f.repo.items[uuid.New()] = &models.Analysis{UserID: "a"}
	f.repo.items[uuid.New()] = &models.Analysis{UserID: "b"}

	got, err := f.service.ListByUser(context.Background(), "a", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "a" {
		t.Fatalf("unexpected analyses %+v", got)
	}
}
