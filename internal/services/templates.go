package services

import "strings"

// Palette holds the hex colours a template renders with.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

type ResumeTemplate struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Colors      Palette `json:"colors"`
	// Sidebar templates put contact, skills and certifications in a
	// coloured left column.
	Sidebar bool `json:"sidebar"`
}

const DefaultTemplateID = "modern"

var templateCatalog = []ResumeTemplate{
	{
		ID:          "modern",
		Name:        "Modern",
		Description: "A clean and modern design with a sidebar for key information",
		Colors:      Palette{Primary: "#2563eb", Secondary: "#1e40af", Text: "#1f2937", Background: "#ffffff"},
		Sidebar:     true,
	},
	{
		ID:          "professional",
		Name:        "Professional",
		Description: "Traditional layout perfect for corporate positions",
		Colors:      Palette{Primary: "#1e293b", Secondary: "#334155", Text: "#1f2937", Background: "#ffffff"},
	},
	{
		ID:          "creative",
		Name:        "Creative",
		Description: "Unique design for creative professionals",
		Colors:      Palette{Primary: "#059669", Secondary: "#047857", Text: "#1f2937", Background: "#ffffff"},
		Sidebar:     true,
	},
	{
		ID:          "minimal",
		Name:        "Minimal",
		Description: "Simple and elegant design that focuses on content",
		Colors:      Palette{Primary: "#6366f1", Secondary: "#4f46e5", Text: "#1f2937", Background: "#ffffff"},
	},
}

// Templates returns a copy of the catalog in display order.
func Templates() []ResumeTemplate {
	out := make([]ResumeTemplate, len(templateCatalog))
	copy(out, templateCatalog)
	return out
}

// FindTemplate looks a template up by id. An empty id selects the default.
func FindTemplate(id string) (ResumeTemplate, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = DefaultTemplateID
	}
	for _, t := range templateCatalog {
		if t.ID == id {
			return t, true
		}
	}
	return ResumeTemplate{}, false
}
