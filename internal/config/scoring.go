package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
)

// ScoringPolicy resolves the engine policy: the named built-in policy, an
// optional taxonomy file replacing its keyword catalog, then env overrides.
func (s ScoringConfig) ScoringPolicy() (analyzer.Policy, error) {
	policy, err := analyzer.PolicyByName(s.Policy)
	if err != nil {
		return analyzer.Policy{}, err
	}

	if s.TaxonomyFile != "" {
		taxonomy, err := LoadTaxonomy(s.TaxonomyFile)
		if err != nil {
			return analyzer.Policy{}, err
		}
		policy.Taxonomy = taxonomy
	}

	if s.MinWords > 0 {
		policy.Gate.MinWords = s.MinWords
	}
	if s.MinSections > 0 {
		policy.Gate.MinSections = s.MinSections
	}
	if s.MaxScore > 0 {
		policy.Score.MaxScore = s.MaxScore
	}

	if err := policy.Validate(); err != nil {
		return analyzer.Policy{}, err
	}
	return policy, nil
}

// LoadTaxonomy reads a versioned taxonomy (YAML, JSON or TOML) from path.
func LoadTaxonomy(path string) (*analyzer.Taxonomy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}

	return DecodeTaxonomy(v.AllSettings())
}

// DecodeTaxonomy converts a generic settings map into a validated taxonomy.
func DecodeTaxonomy(raw map[string]any) (*analyzer.Taxonomy, error) {
	var taxonomy analyzer.Taxonomy
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &taxonomy,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build taxonomy decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode taxonomy: %w", err)
	}

	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}
	return &taxonomy, nil
}
