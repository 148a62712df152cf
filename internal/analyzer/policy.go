package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// ContactRule selects how the gate decides that a resume is contactable.
type ContactRule string

const (
	// ContactEmail requires an email address matching EmailPattern.
	ContactEmail ContactRule = "email"
	// ContactIndicators accepts any of GatePolicy.ContactIndicators.
	ContactIndicators ContactRule = "indicators"
)

const (
	PolicyEnhanced = "enhanced"
	PolicySimple   = "simple"
)

type GatePolicy struct {
	MinWords          int
	MinSections       int
	Contact           ContactRule
	ContactIndicators []string
}

// Weight adds min(Cap, matches*PerMatch) to the score.
type Weight struct {
	PerMatch int
	Cap      int
}

func (w Weight) Apply(matches int) int {
	points := matches * w.PerMatch
	if points > w.Cap {
		return w.Cap
	}
	if points < 0 {
		return 0
	}
	return points
}

type LengthTier struct {
	MinWords int
	Bonus    int
}

// Band maps every score at or above MinScore to Label.
type Band struct {
	MinScore int
	Label    string
}

type ScorePolicy struct {
	Base           int
	Technical      Weight
	Soft           Weight
	Certifications Weight
	MetricsBonus   int
	Achievements   Weight
	LengthTiers    []LengthTier
	// MaxScore clamps the total when positive. Zero keeps the raw sum.
	MaxScore      int
	Bands         []Band
	FallbackLabel string
}

type Messages struct {
	TechnicalStrength        string
	TechnicalImprovement     string
	SoftStrength             string
	SoftImprovement          string
	MetricsStrength          string
	MetricsImprovement       string
	CertificationStrength    string
	CertificationImprovement string
}

type InsightPolicy struct {
	// Counts strictly below a threshold produce an improvement.
	TechnicalThreshold int
	SoftThreshold      int
	MaxStrengths       int
	MaxImprovements    int
	MaxDifferentiators int
	Messages           Messages
}

// Policy is one versioned configuration of the engine.
type Policy struct {
	Name     string
	Taxonomy *Taxonomy
	Gate     GatePolicy
	Score    ScorePolicy
	Insights InsightPolicy
}

func (p Policy) Validate() error {
	if err := p.Taxonomy.Validate(); err != nil {
		return err
	}
	if p.Gate.MinWords < 0 {
		return fmt.Errorf("policy %s: negative minimum word count", p.Name)
	}
	if p.Gate.MinSections > len(p.Taxonomy.EssentialSections) {
		return fmt.Errorf("policy %s: requires %d sections but only %d are declared",
			p.Name, p.Gate.MinSections, len(p.Taxonomy.EssentialSections))
	}
	switch p.Gate.Contact {
	case ContactEmail:
	case ContactIndicators:
		if len(p.Gate.ContactIndicators) == 0 {
			return fmt.Errorf("policy %s: indicator contact rule without indicators", p.Name)
		}
	default:
		return fmt.Errorf("policy %s: unknown contact rule %q", p.Name, p.Gate.Contact)
	}

	for _, w := range []Weight{p.Score.Technical, p.Score.Soft, p.Score.Certifications, p.Score.Achievements} {
		if w.PerMatch < 0 || w.Cap < 0 {
			return fmt.Errorf("policy %s: weights and caps must be non-negative", p.Name)
		}
	}
	if p.Score.MetricsBonus < 0 {
		return fmt.Errorf("policy %s: negative metrics bonus", p.Name)
	}
	if !sort.SliceIsSorted(p.Score.LengthTiers, func(i, j int) bool {
		return p.Score.LengthTiers[i].MinWords > p.Score.LengthTiers[j].MinWords
	}) {
		return fmt.Errorf("policy %s: length tiers must be ordered by descending word count", p.Name)
	}
	if !sort.SliceIsSorted(p.Score.Bands, func(i, j int) bool {
		return p.Score.Bands[i].MinScore > p.Score.Bands[j].MinScore
	}) {
		return fmt.Errorf("policy %s: label bands must be ordered by descending score", p.Name)
	}
	if p.Insights.MaxStrengths < 0 || p.Insights.MaxImprovements < 0 || p.Insights.MaxDifferentiators < 0 {
		return fmt.Errorf("policy %s: negative insight limit", p.Name)
	}

	return nil
}

// EnhancedPolicy is the canonical scoring configuration.
func EnhancedPolicy() Policy {
	return Policy{
		Name:     PolicyEnhanced,
		Taxonomy: EnhancedTaxonomy(),
		Gate: GatePolicy{
			MinWords: 300,
			// At most two of the five essential sections may be missing.
			MinSections:       3,
			Contact:           ContactEmail,
			ContactIndicators: []string{"email", "phone", "@", "linkedin", "github"},
		},
		Score: ScorePolicy{
			Base:           50,
			Technical:      Weight{PerMatch: 2, Cap: 25},
			Soft:           Weight{PerMatch: 2, Cap: 15},
			Certifications: Weight{PerMatch: 5, Cap: 10},
			MetricsBonus:   8,
			Achievements:   Weight{PerMatch: 1, Cap: 7},
			LengthTiers: []LengthTier{
				{MinWords: 400, Bonus: 5},
				{MinWords: 300, Bonus: 3},
			},
			Bands: []Band{
				{MinScore: 90, Label: "Outstanding professional profile"},
				{MinScore: 80, Label: "Strong candidate with proven expertise"},
				{MinScore: 70, Label: "Solid profile with room for enhancement"},
			},
			FallbackLabel: "Profile needs significant improvement",
		},
		Insights: InsightPolicy{
			TechnicalThreshold: 6,
			SoftThreshold:      4,
			MaxStrengths:       3,
			MaxImprovements:    3,
			MaxDifferentiators: 10,
			Messages: Messages{
				TechnicalStrength:        "Strong technical foundation across multiple domains",
				TechnicalImprovement:     "Enhance your technical skill set with more industry-relevant technologies",
				SoftStrength:             "Well-rounded soft skills profile",
				SoftImprovement:          "Incorporate more leadership and communication examples",
				MetricsStrength:          "Strong results-oriented profile with measurable achievements",
				MetricsImprovement:       "Add quantifiable achievements and metrics to demonstrate impact",
				CertificationStrength:    "Professional credentials demonstrate commitment to growth",
				CertificationImprovement: "Consider adding relevant professional certifications",
			},
		},
	}
}

// SimplePolicy is the lenient configuration: shorter resumes accepted, any
// contact hint accepted, coarser categories. Only the gate thresholds are
// fixed; the weights, bands and messages are tunable defaults.
func SimplePolicy() Policy {
	return Policy{
		Name:     PolicySimple,
		Taxonomy: SimpleTaxonomy(),
		Gate: GatePolicy{
			MinWords:          200,
			MinSections:       2,
			Contact:           ContactIndicators,
			ContactIndicators: []string{"email", "phone", "@", "linkedin", "github"},
		},
		Score: ScorePolicy{
			Base:           40,
			Technical:      Weight{PerMatch: 3, Cap: 30},
			Soft:           Weight{PerMatch: 3, Cap: 15},
			Certifications: Weight{PerMatch: 5, Cap: 10},
			MetricsBonus:   10,
			Achievements:   Weight{PerMatch: 1, Cap: 5},
			LengthTiers: []LengthTier{
				{MinWords: 300, Bonus: 5},
				{MinWords: 200, Bonus: 2},
			},
			Bands: []Band{
				{MinScore: 85, Label: "Excellent match for most roles"},
				{MinScore: 70, Label: "Good fit with minor gaps"},
				{MinScore: 55, Label: "Fair fit, needs refinement"},
			},
			FallbackLabel: "Needs significant work",
		},
		Insights: InsightPolicy{
			TechnicalThreshold: 5,
			SoftThreshold:      3,
			MaxStrengths:       3,
			MaxImprovements:    4,
			MaxDifferentiators: 8,
			Messages: Messages{
				TechnicalStrength:        "Good range of technical skills",
				TechnicalImprovement:     "Add more technical skills relevant to your target role",
				SoftStrength:             "Clear evidence of teamwork and leadership",
				SoftImprovement:          "Highlight soft skills such as leadership and communication",
				MetricsStrength:          "Achievements are backed by numbers",
				MetricsImprovement:       "Quantify your achievements with numbers and percentages",
				CertificationStrength:    "Relevant certifications listed",
				CertificationImprovement: "List any certifications you hold",
			},
		},
	}
}

// PolicyByName returns the built-in policy registered under name.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyEnhanced:
		return EnhancedPolicy(), nil
	case PolicySimple:
		return SimplePolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown scoring policy %q", name)
	}
}
