package models

import (
	"time"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
)

type AnalysisResponse struct {
	AnalysisID                  string             `json:"analysisId"`
	UserID                      string             `json:"userId"`
	FileName                    string             `json:"fileName,omitempty"`
	Type                        AnalysisType       `json:"type"`
	Score                       int                `json:"score"`
	ProfessionalAssessment      string             `json:"professionalAssessment"`
	Strengths                   []string           `json:"strengths"`
	Improvements                []string           `json:"improvements"`
	KeyDifferentiators          []string           `json:"keyDifferentiators"`
	Details                     analyzer.Details   `json:"details"`
	ScoreBreakdown              analyzer.ScoreCard `json:"scoreBreakdown"`
	HasQuantifiableAchievements bool               `json:"hasQuantifiableAchievements"`
	Policy                      string             `json:"policy"`
	CreatedAt                   time.Time          `json:"createdAt"`
}

func NewAnalysisResponse(a *Analysis) AnalysisResponse {
	return AnalysisResponse{
		AnalysisID:                  a.ID.String(),
		UserID:                      a.UserID,
		FileName:                    a.FileName,
		Type:                        a.Type,
		Score:                       a.Score,
		ProfessionalAssessment:      a.ProfessionalAssessment,
		Strengths:                   nonNil(a.Strengths),
		Improvements:                nonNil(a.Improvements),
		KeyDifferentiators:          nonNil(a.KeyDifferentiators),
		Details:                     a.Details.Data(),
		ScoreBreakdown:              a.ScoreBreakdown.Data(),
		HasQuantifiableAchievements: a.HasQuantifiableAchievements,
		Policy:                      a.Policy,
		CreatedAt:                   a.CreatedAt,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

type AnalysisListResponse struct {
	UserID   string             `json:"userId"`
	Analyses []AnalysisResponse `json:"analyses"`
}

type ValidationErrorResponse struct {
	Error           string   `json:"error"`
	Type            string   `json:"type"`
	Check           string   `json:"check,omitempty"`
	MissingSections []string `json:"missingSections,omitempty"`
}

type CreateResumeRequest struct {
	UserID     string     `json:"userId"`
	TemplateID string     `json:"templateId"`
	FormData   ResumeForm `json:"formData"`
}

type CreateResumeResponse struct {
	ResumeID   string `json:"resumeId"`
	AnalysisID string `json:"analysisId"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type ResumeResponse struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	TemplateID   string       `json:"templateId"`
	AnalysisID   string       `json:"analysisId"`
	Status       string       `json:"status"`
	Content      string       `json:"resumeContent"`
	FormData     ResumeForm   `json:"formData"`
	Links        *ResumeLinks `json:"links,omitempty"`
	ErrorMessage *string      `json:"errorMessage,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type ResumeLinks struct {
	Preview   string `json:"preview"`
	Export    string `json:"export,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func NewResumeResponse(r *Resume, basePath string) ResumeResponse {
	resp := ResumeResponse{
		ID:         r.ID.String(),
		UserID:     r.UserID,
		TemplateID: r.TemplateID,
		AnalysisID: r.AnalysisID.String(),
		Status:     string(r.Status),
		Content:    r.Content,
		FormData:   r.Form.Data(),
		CreatedAt:  r.CreatedAt,
		Links: &ResumeLinks{
			Preview: basePath + "/resumes/" + r.ID.String() + "/preview",
		},
	}

	if r.Status == StatusCompleted {
		if r.PDFKey != nil {
			resp.Links.Export = basePath + "/resumes/" + r.ID.String() + "/export"
		}
		if r.PreviewKey != nil {
			resp.Links.Thumbnail = basePath + "/resumes/" + r.ID.String() + "/thumbnail"
		}
	}

	if r.Status == StatusFailed && r.ErrorMessage != nil {
		resp.ErrorMessage = r.ErrorMessage
	}

	return resp
}
