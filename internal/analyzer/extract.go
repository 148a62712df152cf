package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CategoryMatches lists the keywords of one subcategory found in a text,
// in taxonomy order.
type CategoryMatches struct {
	Name    string
	Matched []string
}

// Groups is an ordered set of subcategory matches. It encodes to a JSON
// object whose keys keep the taxonomy order.
type Groups []CategoryMatches

// Count is the number of matched keywords across all subcategories.
func (g Groups) Count() int {
	n := 0
	for _, c := range g {
		n += len(c.Matched)
	}
	return n
}

// Flatten returns every matched keyword, subcategory by subcategory.
func (g Groups) Flatten() []string {
	out := make([]string, 0, g.Count())
	for _, c := range g {
		out = append(out, c.Matched...)
	}
	return out
}

func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		matched := c.Matched
		if matched == nil {
			matched = []string{}
		}
		val, err := json.Marshal(matched)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("groups: expected object, got %v", tok)
	}

	out := Groups{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("groups: expected key, got %v", tok)
		}
		var matched []string
		if err := dec.Decode(&matched); err != nil {
			return fmt.Errorf("groups: %s: %w", name, err)
		}
		if matched == nil {
			matched = []string{}
		}
		out = append(out, CategoryMatches{Name: name, Matched: matched})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*g = out
	return nil
}

// MatchSet holds every taxonomy keyword found in a document.
type MatchSet struct {
	TechnicalSkills Groups
	SoftSkills      Groups
	Certifications  []string
	Achievements    []string
	Metrics         []string
}

// Extract matches every taxonomy keyword against text. Matching is literal,
// case-insensitive substring containment.
func (e *Engine) Extract(text string) MatchSet {
	return e.extract(strings.ToLower(text))
}

func (e *Engine) extract(lower string) MatchSet {
	t := e.policy.Taxonomy
	return MatchSet{
		TechnicalSkills: matchGroups(lower, t.TechnicalSkills),
		SoftSkills:      matchGroups(lower, t.SoftSkills),
		Certifications:  matchKeywords(lower, t.Certifications),
		Achievements:    matchKeywords(lower, t.Achievements),
		Metrics:         matchKeywords(lower, t.Metrics),
	}
}

func matchGroups(lower string, subs []Subcategory) Groups {
	groups := make(Groups, 0, len(subs))
	for _, sub := range subs {
		groups = append(groups, CategoryMatches{
			Name:    sub.Name,
			Matched: matchKeywords(lower, sub.Keywords),
		})
	}
	return groups
}

func matchKeywords(lower string, keywords []string) []string {
	matched := make([]string, 0)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
