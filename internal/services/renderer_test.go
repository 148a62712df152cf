package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func renderFixture(form models.ResumeForm) *models.Resume {
	return &models.Resume{
		ID:         uuid.New(),
		TemplateID: "modern",
		Form:       datatypes.NewJSONType(form),
	}
}

func TestRenderHTML(t *testing.T) {
	r := NewExportRenderer()

	form := sampleForm()
	form.Summary = "Ships <script>alert(1)</script> safely"

	for _, tmpl := range Templates() {
		t.Run(tmpl.ID, func(t *testing.T) {
			page, err := r.RenderHTML(renderFixture(form), tmpl)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			html := string(page)

			for _, want := range []string{"Jane Doe", "WORK EXPERIENCE", "2020-01 - Present", tmpl.Colors.Primary} {
				if !strings.Contains(html, want) {
					t.Fatalf("page lacks %q", want)
				}
			}
			if strings.Contains(html, "<script>") {
				t.Fatalf("form content must be escaped")
			}
		})
	}
}

func TestRenderPDF(t *testing.T) {
	r := NewExportRenderer()
	tmpl, _ := FindTemplate("minimal")

	doc, err := r.RenderPDF(renderFixture(sampleForm()), tmpl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderPDFRejectsBadColour(t *testing.T) {
	r := NewExportRenderer()
	tmpl, _ := FindTemplate("modern")
	tmpl.Colors.Primary = "blue"

	if _, err := r.RenderPDF(renderFixture(sampleForm()), tmpl); err == nil {
		t.Fatalf("expected an error for a named colour")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want rgb
		ok   bool
	}{
		{"#2563eb", rgb{0x25, 0x63, 0xeb}, true},
		{"ffffff", rgb{255, 255, 255}, true},
		{"#fff", rgb{}, false},
		{"#zzzzzz", rgb{}, false},
	}

	for _, tt := range tests {
		got, err := parseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("parseHex(%q) error = %v", tt.in, err)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("parseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFindTemplate(t *testing.T) {
	if tmpl, ok := FindTemplate(""); !ok || tmpl.ID != DefaultTemplateID {
		t.Fatalf("empty id should select the default template")
	}
	if tmpl, ok := FindTemplate(" Creative "); !ok || tmpl.Colors.Primary != "#059669" {
		t.Fatalf("unexpected template %+v", tmpl)
	}
	if _, ok := FindTemplate("neon"); ok {
		t.Fatalf("unknown template should not resolve")
	}
}
