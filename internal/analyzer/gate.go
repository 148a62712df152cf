package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern matches local-part@domain.tld with a top-level label of at
// least two letters.
var EmailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// Check names the gate step that rejected a document.
type Check string

const (
	CheckLength   Check = "length"
	CheckSections Check = "sections"
	CheckContact  Check = "contact"
)

// Verdict is the outcome of the validity gate.
type Verdict struct {
	IsValid bool   `json:"isValid"`
	Check   Check  `json:"check,omitempty"`
	Reason  string `json:"reason,omitempty"`
	// MissingSections is set when the section check fails.
	MissingSections []string `json:"missingSections,omitempty"`
}

// ValidationError is returned by Analyze when the gate rejects a document.
type ValidationError struct {
	Verdict Verdict
}

func (e *ValidationError) Error() string {
	return e.Verdict.Reason
}

// Validate runs the gate checks in order (length, sections, contact) and
// stops at the first failure.
func (e *Engine) Validate(text string) Verdict {
	return e.validate(text, strings.ToLower(text), countWords(text))
}

func (e *Engine) validate(text, lower string, words int) Verdict {
	gate := e.policy.Gate

	if words < gate.MinWords {
		return Verdict{
			Check: CheckLength,
			Reason: fmt.Sprintf(
				"Resume appears too brief. A professional resume typically contains at least %d words.",
				gate.MinWords,
			),
		}
	}

	if missing, ok := e.checkSections(lower); !ok {
		return Verdict{
			Check:           CheckSections,
			Reason:          fmt.Sprintf("Resume is missing essential sections: %s", strings.Join(missing, ", ")),
			MissingSections: missing,
		}
	}

	if !e.hasContact(text, lower) {
		reason := "No valid email address found. Professional resumes should include contact information."
		if gate.Contact == ContactIndicators {
			reason = "No contact information found. Include an email address, phone number or profile link."
		}
		return Verdict{Check: CheckContact, Reason: reason}
	}

	return Verdict{IsValid: true}
}

func (e *Engine) checkSections(lower string) ([]string, bool) {
	sections := e.policy.Taxonomy.EssentialSections
	missing := make([]string, 0, len(sections))
	for _, section := range sections {
		if !strings.Contains(lower, strings.ToLower(section)) {
			missing = append(missing, section)
		}
	}
	present := len(sections) - len(missing)
	return missing, present >= e.policy.Gate.MinSections
}

func (e *Engine) hasContact(text, lower string) bool {
	if e.policy.Gate.Contact == ContactIndicators {
		for _, token := range e.policy.Gate.ContactIndicators {
			if strings.Contains(lower, strings.ToLower(token)) {
				return true
			}
		}
		return false
	}
	return EmailPattern.MatchString(text)
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
