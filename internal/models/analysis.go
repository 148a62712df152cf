package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
)

type AnalysisType string

const (
	AnalysisUploaded AnalysisType = "uploaded"
	AnalysisCreated  AnalysisType = "created"
)

// Analysis is a persisted assessment. It is written once and never updated.
type Analysis struct {
	ID                          uuid.UUID                              `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID                      string                                 `gorm:"type:text;not null;index" json:"userId"`
	FileName                    string                                 `gorm:"type:text" json:"fileName"`
	Type                        AnalysisType                           `gorm:"type:text;not null;default:'uploaded'" json:"type"`
	ResumeID                    *uuid.UUID                             `gorm:"type:uuid" json:"resumeId,omitempty"`
	Score                       int                                    `gorm:"not null" json:"score"`
	ProfessionalAssessment      string                                 `gorm:"type:text" json:"professionalAssessment"`
	Strengths                   datatypes.JSONSlice[string]            `gorm:"type:jsonb" json:"strengths"`
	Improvements                datatypes.JSONSlice[string]            `gorm:"type:jsonb" json:"improvements"`
	KeyDifferentiators          datatypes.JSONSlice[string]            `gorm:"type:jsonb" json:"keyDifferentiators"`
	Details                     datatypes.JSONType[analyzer.Details]   `gorm:"type:jsonb" json:"details"`
	ScoreBreakdown              datatypes.JSONType[analyzer.ScoreCard] `gorm:"type:jsonb" json:"scoreBreakdown"`
	HasQuantifiableAchievements bool                                   `gorm:"not null;default:false" json:"hasQuantifiableAchievements"`
	WordCount                   int                                    `json:"wordCount"`
	Policy                      string                                 `gorm:"type:text" json:"policy"`
	CreatedAt                   time.Time                              `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// NewAnalysis converts an engine result into a record owned by userID.
func NewAnalysis(userID, fileName string, kind AnalysisType, result *analyzer.Result) *Analysis {
	return &Analysis{
		ID:                          uuid.New(),
		UserID:                      userID,
		FileName:                    fileName,
		Type:                        kind,
		Score:                       result.Score,
		ProfessionalAssessment:      result.ProfessionalAssessment,
		Strengths:                   datatypes.JSONSlice[string](result.Strengths),
		Improvements:                datatypes.JSONSlice[string](result.Improvements),
		KeyDifferentiators:          datatypes.JSONSlice[string](result.KeyDifferentiators),
		Details:                     datatypes.NewJSONType(result.Details),
		ScoreBreakdown:              datatypes.NewJSONType(result.ScoreBreakdown),
		HasQuantifiableAchievements: result.Details.HasQuantifiableAchievements,
		WordCount:                   result.WordCount,
		Policy:                      result.Policy,
		CreatedAt:                   time.Now(),
	}
}
