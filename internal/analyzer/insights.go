package analyzer

type outcomeKind int

const (
	noOutcome outcomeKind = iota
	strengthOutcome
	improvementOutcome
)

type outcome struct {
	kind    outcomeKind
	message string
}

// insightRule inspects a match set and yields at most one outcome.
type insightRule func(m MatchSet, p InsightPolicy) outcome

func either(ok bool, strength, improvement string) outcome {
	if ok {
		return outcome{kind: strengthOutcome, message: strength}
	}
	return outcome{kind: improvementOutcome, message: improvement}
}

// Evaluation order is the order strengths and improvements are reported in.
var insightRules = []insightRule{
	func(m MatchSet, p InsightPolicy) outcome {
		return either(m.TechnicalSkills.Count() >= p.TechnicalThreshold,
			p.Messages.TechnicalStrength, p.Messages.TechnicalImprovement)
	},
	func(m MatchSet, p InsightPolicy) outcome {
		return either(m.SoftSkills.Count() >= p.SoftThreshold,
			p.Messages.SoftStrength, p.Messages.SoftImprovement)
	},
	func(m MatchSet, p InsightPolicy) outcome {
		return either(len(m.Metrics) > 0,
			p.Messages.MetricsStrength, p.Messages.MetricsImprovement)
	},
	func(m MatchSet, p InsightPolicy) outcome {
		return either(len(m.Certifications) > 0,
			p.Messages.CertificationStrength, p.Messages.CertificationImprovement)
	},
}

// Insights are the natural-language findings derived from a match set.
type Insights struct {
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"improvements"`
	KeyDifferentiators []string `json:"keyDifferentiators"`
}

func (e *Engine) Insights(m MatchSet) Insights {
	p := e.policy.Insights
	in := Insights{
		Strengths:    make([]string, 0, len(insightRules)),
		Improvements: make([]string, 0, len(insightRules)),
	}

	for _, rule := range insightRules {
		out := rule(m, p)
		if out.message == "" {
			continue
		}
		switch out.kind {
		case strengthOutcome:
			in.Strengths = append(in.Strengths, out.message)
		case improvementOutcome:
			in.Improvements = append(in.Improvements, out.message)
		}
	}

	in.Strengths = truncate(in.Strengths, p.MaxStrengths)
	in.Improvements = truncate(in.Improvements, p.MaxImprovements)
	in.KeyDifferentiators = differentiators(m, p.MaxDifferentiators)

	return in
}

// differentiators is the de-duplicated union of technical skills, soft
// skills and certifications, in that order.
func differentiators(m MatchSet, limit int) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, limit)

	sources := [][]string{
		m.TechnicalSkills.Flatten(),
		m.SoftSkills.Flatten(),
		m.Certifications,
	}
	for _, source := range sources {
		for _, term := range source {
			if seen[term] {
				continue
			}
			seen[term] = true
			out = append(out, term)
		}
	}

	return truncate(out, limit)
}

func truncate(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
