package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ExportStatus string

const (
	StatusQueued     ExportStatus = "queued"
	StatusProcessing ExportStatus = "processing"
	StatusCompleted  ExportStatus = "completed"
	StatusFailed     ExportStatus = "failed"
)

type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedIn,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type Experience struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Current          bool     `json:"current"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	Degree         string   `json:"degree"`
	School         string   `json:"school"`
	Location       string   `json:"location"`
	GraduationDate string   `json:"graduationDate"`
	GPA            string   `json:"gpa,omitempty"`
	Highlights     []string `json:"highlights"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty"`
}

type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// ResumeForm is the structured input of the resume builder.
type ResumeForm struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Summary        string          `json:"summary"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         Skills          `json:"skills"`
	Certifications []Certification `json:"certifications"`
}

// Resume is a document generated from a ResumeForm together with the state
// of its HTML/PDF export.
type Resume struct {
	ID           uuid.UUID                      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       string                         `gorm:"type:text;not null;index" json:"userId"`
	TemplateID   string                         `gorm:"type:text;not null" json:"templateId"`
	Form         datatypes.JSONType[ResumeForm] `gorm:"type:jsonb" json:"formData"`
	Content      string                         `gorm:"type:text" json:"resumeContent"`
	AnalysisID   uuid.UUID                      `gorm:"type:uuid" json:"analysisId"`
	Status       ExportStatus                   `gorm:"not null;default:'queued'" json:"status"`
	Attempts     int                            `gorm:"not null;default:0" json:"attempts"`
	HTMLKey      *string                        `gorm:"type:text" json:"-"`
	PDFKey       *string                        `gorm:"type:text" json:"-"`
	PreviewKey   *string                        `gorm:"type:text" json:"-"`
	ErrorMessage *string                        `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt    time.Time                      `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time                      `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Resume) TableName() string {
	return "resumes"
}
