package analyzer

// ScoreCard is the total score with the contribution of every term.
type ScoreCard struct {
	Base           int    `json:"base"`
	Technical      int    `json:"technical"`
	Soft           int    `json:"soft"`
	Certifications int    `json:"certifications"`
	Metrics        int    `json:"metrics"`
	Achievements   int    `json:"achievements"`
	Length         int    `json:"length"`
	Total          int    `json:"total"`
	Label          string `json:"label"`
}

// Score converts match counts and the document word count into a score.
// The total is the plain sum of its terms unless the policy sets MaxScore.
func (e *Engine) Score(m MatchSet, words int) ScoreCard {
	p := e.policy.Score

	card := ScoreCard{
		Base:           p.Base,
		Technical:      p.Technical.Apply(m.TechnicalSkills.Count()),
		Soft:           p.Soft.Apply(m.SoftSkills.Count()),
		Certifications: p.Certifications.Apply(len(m.Certifications)),
		Achievements:   p.Achievements.Apply(len(m.Achievements)),
		Length:         lengthBonus(p.LengthTiers, words),
	}
	if len(m.Metrics) > 0 {
		card.Metrics = p.MetricsBonus
	}

	card.Total = card.Base + card.Technical + card.Soft + card.Certifications +
		card.Metrics + card.Achievements + card.Length
	if p.MaxScore > 0 && card.Total > p.MaxScore {
		card.Total = p.MaxScore
	}
	card.Label = e.Label(card.Total)

	return card
}

// Label maps a score to the first band it reaches.
func (e *Engine) Label(score int) string {
	for _, band := range e.policy.Score.Bands {
		if score >= band.MinScore {
			return band.Label
		}
	}
	return e.policy.Score.FallbackLabel
}

func lengthBonus(tiers []LengthTier, words int) int {
	for _, tier := range tiers {
		if words >= tier.MinWords {
			return tier.Bonus
		}
	}
	return 0
}
