package analyzer

import (
	"fmt"
	"strings"
)

// Subcategory is a named, ordered keyword list such as "programming" or
// "leadership". Keywords are matched case-insensitively as literal substrings.
type Subcategory struct {
	Name     string   `mapstructure:"name" json:"name" yaml:"name"`
	Keywords []string `mapstructure:"keywords" json:"keywords" yaml:"keywords"`
}

// Taxonomy is the static keyword catalog the engine matches against.
// Slices keep declaration order, which is the order matches are reported in.
type Taxonomy struct {
	Version           string        `mapstructure:"version" json:"version"`
	TechnicalSkills   []Subcategory `mapstructure:"technical_skills" json:"technicalSkills"`
	SoftSkills        []Subcategory `mapstructure:"soft_skills" json:"softSkills"`
	Certifications    []string      `mapstructure:"certifications" json:"certifications"`
	Achievements      []string      `mapstructure:"achievements" json:"achievements"`
	Metrics           []string      `mapstructure:"metrics" json:"metrics"`
	EssentialSections []string      `mapstructure:"essential_sections" json:"essentialSections"`
}

// Validate checks that every keyword list is non-empty and that no
// subcategory repeats a keyword.
func (t *Taxonomy) Validate() error {
	if t == nil {
		return fmt.Errorf("taxonomy is nil")
	}
	if len(t.TechnicalSkills) == 0 {
		return fmt.Errorf("taxonomy %q: no technical skill subcategories", t.Version)
	}
	if len(t.SoftSkills) == 0 {
		return fmt.Errorf("taxonomy %q: no soft skill subcategories", t.Version)
	}

	groups := []struct {
		name string
		subs []Subcategory
	}{
		{"technical_skills", t.TechnicalSkills},
		{"soft_skills", t.SoftSkills},
	}
	for _, g := range groups {
		group := g.name
		seen := make(map[string]bool, len(g.subs))
		for _, sub := range g.subs {
			if sub.Name == "" {
				return fmt.Errorf("taxonomy %q: unnamed subcategory in %s", t.Version, group)
			}
			if seen[sub.Name] {
				return fmt.Errorf("taxonomy %q: subcategory %s.%s declared twice", t.Version, group, sub.Name)
			}
			seen[sub.Name] = true

			if err := validateKeywords(group+"."+sub.Name, sub.Keywords); err != nil {
				return fmt.Errorf("taxonomy %q: %w", t.Version, err)
			}
		}
	}

	flat := []struct {
		name     string
		keywords []string
	}{
		{"certifications", t.Certifications},
		{"achievements", t.Achievements},
		{"metrics", t.Metrics},
		{"essential_sections", t.EssentialSections},
	}
	for _, list := range flat {
		if err := validateKeywords(list.name, list.keywords); err != nil {
			return fmt.Errorf("taxonomy %q: %w", t.Version, err)
		}
	}

	return nil
}

func validateKeywords(name string, keywords []string) error {
	if len(keywords) == 0 {
		return fmt.Errorf("%s has no keywords", name)
	}

	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" {
			return fmt.Errorf("%s contains an empty keyword", name)
		}
		if seen[key] {
			return fmt.Errorf("%s contains duplicate keyword %q", name, kw)
		}
		seen[key] = true
	}
	return nil
}

// EnhancedTaxonomy is the fine-grained catalog: five technical and four soft
// skill subcategories.
func EnhancedTaxonomy() *Taxonomy {
	return &Taxonomy{
		Version: "enhanced",
		TechnicalSkills: []Subcategory{
			{Name: "programming", Keywords: []string{
				"javascript", "python", "java", "c++", "ruby", "swift", "kotlin", "go",
				"rust", "php", "typescript", "scala", "r", "matlab",
			}},
			{Name: "webTechnologies", Keywords: []string{
				"react", "angular", "vue", "node.js", "express", "django", "flask",
				"html5", "css3", "sass", "webpack", "babel", "jquery", "bootstrap",
			}},
			{Name: "databases", Keywords: []string{
				"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch",
				"cassandra", "oracle", "dynamodb", "firebase",
			}},
			{Name: "cloud", Keywords: []string{
				"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins",
				"circleci", "github actions", "serverless", "lambda",
			}},
			{Name: "tools", Keywords: []string{
				"git", "jira", "confluence", "bitbucket", "gitlab", "vscode", "intellij",
				"postman", "swagger", "figma", "sketch",
			}},
		},
		SoftSkills: []Subcategory{
			{Name: "leadership", Keywords: []string{
				"leadership", "team lead", "managed", "supervised", "mentored", "directed",
				"coordinated", "spearheaded", "initiated",
			}},
			{Name: "communication", Keywords: []string{
				"communication", "presentation", "documentation", "client interaction",
				"stakeholder", "collaboration", "interpersonal", "public speaking",
			}},
			{Name: "projectManagement", Keywords: []string{
				"agile", "scrum", "kanban", "waterfall", "sprint planning", "roadmap",
				"project management", "risk management", "budget", "timeline",
			}},
			{Name: "problemSolving", Keywords: []string{
				"problem solving", "analytical", "troubleshooting", "debugging",
				"optimization", "innovation", "strategic thinking", "research",
			}},
		},
		Certifications: []string{
			"aws certified", "google certified", "microsoft certified", "cisco certified",
			"pmp", "scrum master", "comptia", "cka", "ceh", "cissp", "itil",
		},
		Achievements: []string{
			"achieved", "improved", "increased", "reduced", "saved", "awarded",
			"recognized", "delivered", "implemented", "launched", "developed",
		},
		Metrics: []string{
			"%", "percent", "million", "billion", "k", "users", "customers",
			"revenue", "cost", "budget", "roi", "kpi",
		},
		EssentialSections: []string{"summary", "experience", "education", "skills", "contact"},
	}
}

// SimpleTaxonomy is the coarse catalog used by the first version of the
// analyzer.
func SimpleTaxonomy() *Taxonomy {
	return &Taxonomy{
		Version: "simple",
		TechnicalSkills: []Subcategory{
			{Name: "languages", Keywords: []string{
				"javascript", "typescript", "python", "java", "golang", "ruby", "php", "c#",
			}},
			{Name: "frameworks", Keywords: []string{
				"react", "angular", "vue", "node", "django", "spring", "rails", ".net",
			}},
			{Name: "data", Keywords: []string{
				"sql", "postgresql", "mysql", "mongodb", "redis",
			}},
			{Name: "infrastructure", Keywords: []string{
				"aws", "azure", "gcp", "docker", "kubernetes", "ci/cd",
			}},
		},
		SoftSkills: []Subcategory{
			{Name: "leadership", Keywords: []string{
				"leadership", "led", "managed", "mentored",
			}},
			{Name: "communication", Keywords: []string{
				"communication", "presentation", "collaboration",
			}},
			{Name: "teamwork", Keywords: []string{
				"teamwork", "team player", "cross-functional",
			}},
		},
		Certifications: []string{
			"aws certified", "pmp", "scrum master", "cissp",
		},
		Achievements: []string{
			"improved", "increased", "reduced", "achieved", "launched",
		},
		Metrics: []string{
			"%", "$", "million", "users",
		},
		EssentialSections: []string{"experience", "education", "skills", "summary", "objective", "projects"},
	}
}
