// Package analyzer scores resume text against a keyword taxonomy.
//
// The engine is a pure function of its input and its Policy: it performs no
// I/O, holds no mutable state and is safe for concurrent use.
package analyzer

import (
	"fmt"
	"strings"
)

// Details is the full match breakdown stored with a result.
type Details struct {
	TechnicalSkills             Groups   `json:"technicalSkills"`
	SoftSkills                  Groups   `json:"softSkills"`
	Certifications              []string `json:"certifications"`
	Achievements                []string `json:"achievements"`
	Metrics                     []string `json:"metrics"`
	HasQuantifiableAchievements bool     `json:"hasQuantifiableAchievements"`
}

// Result is the assessment of one document.
type Result struct {
	Score                  int       `json:"score"`
	ProfessionalAssessment string    `json:"professionalAssessment"`
	Strengths              []string  `json:"strengths"`
	Improvements           []string  `json:"improvements"`
	KeyDifferentiators     []string  `json:"keyDifferentiators"`
	Details                Details   `json:"details"`
	ScoreBreakdown         ScoreCard `json:"scoreBreakdown"`
	WordCount              int       `json:"wordCount"`
	Policy                 string    `json:"policy"`
}

type Engine struct {
	policy Policy
}

// New builds an engine for a validated policy.
func New(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	return &Engine{policy: policy}, nil
}

// Must is New for built-in policies.
func Must(policy Policy) *Engine {
	e, err := New(policy)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) Taxonomy() *Taxonomy {
	return e.policy.Taxonomy
}

// Analyze gates the text and, if it looks like a resume, scores it.
// A rejected document yields a *ValidationError and no result.
func (e *Engine) Analyze(text string) (*Result, error) {
	lower := strings.ToLower(text)
	words := countWords(text)

	if verdict := e.validate(text, lower, words); !verdict.IsValid {
		return nil, &ValidationError{Verdict: verdict}
	}

	return e.evaluate(lower, words), nil
}

// Evaluate scores text without the validity gate.
func (e *Engine) Evaluate(text string) *Result {
	return e.evaluate(strings.ToLower(text), countWords(text))
}

func (e *Engine) evaluate(lower string, words int) *Result {
	matches := e.extract(lower)
	card := e.Score(matches, words)
	insights := e.Insights(matches)

	return &Result{
		Score:                  card.Total,
		ProfessionalAssessment: card.Label,
		Strengths:              insights.Strengths,
		Improvements:           insights.Improvements,
		KeyDifferentiators:     insights.KeyDifferentiators,
		Details: Details{
			TechnicalSkills:             matches.TechnicalSkills,
			SoftSkills:                  matches.SoftSkills,
			Certifications:              matches.Certifications,
			Achievements:                matches.Achievements,
			Metrics:                     matches.Metrics,
			HasQuantifiableAchievements: len(matches.Metrics) > 0,
		},
		ScoreBreakdown: card,
		WordCount:      words,
		Policy:         e.policy.Name,
	}
}
