package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"image/jpeg"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/go-pdf/fpdf"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ErrRender wraps failures while producing an export artifact.
var ErrRender = errors.New("failed to render resume")

type ExportRenderer interface {
	RenderHTML(resume *models.Resume, tmpl ResumeTemplate) ([]byte, error)
	RenderPDF(resume *models.Resume, tmpl ResumeTemplate) ([]byte, error)
	RenderPreview(pdf []byte) ([]byte, error)
}

type exportRenderer struct {
	html *template.Template
}

func NewExportRenderer() ExportRenderer {
	return &exportRenderer{
		html: template.Must(template.New("resume").Funcs(template.FuncMap{
			"dates": dateRange,
		}).Parse(resumeHTML)),
	}
}

type htmlView struct {
	Form     models.ResumeForm
	Template ResumeTemplate
}

func (r *exportRenderer) RenderHTML(resume *models.Resume, tmpl ResumeTemplate) ([]byte, error) {
	var buf bytes.Buffer
	view := htmlView{Form: resume.Form.Data(), Template: tmpl}
	if err := r.html.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("%w: html: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

const (
	pageWidth    = 210.0
	pageMargin   = 15.0
	contentWidth = pageWidth - 2*pageMargin
	lineHeight   = 5.0
)

func (r *exportRenderer) RenderPDF(resume *models.Resume, tmpl ResumeTemplate) ([]byte, error) {
	form := resume.Form.Data()

	primary, err := parseHex(tmpl.Colors.Primary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	secondary, err := parseHex(tmpl.Colors.Secondary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	text, err := parseHex(tmpl.Colors.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(form.PersonalInfo.FullName, true)
	pdf.SetCreator("resume-analyzer", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header band.
	pdf.SetFillColor(primary.r, primary.g, primary.b)
	pdf.Rect(0, 0, pageWidth, 32, "F")
	if tmpl.Sidebar {
		pdf.SetFillColor(secondary.r, secondary.g, secondary.b)
		pdf.Rect(0, 32, 4, 265, "F")
	}

	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(pageMargin, 8)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentWidth, 9, tr(form.PersonalInfo.FullName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	info := form.PersonalInfo
	pdf.CellFormat(contentWidth, lineHeight, tr(joinNonEmpty(" | ", info.Email, info.Phone, info.Location)), "", 1, "L", false, 0, "")
	if links := joinNonEmpty(" | ", info.LinkedIn, info.Portfolio); links != "" {
		pdf.CellFormat(contentWidth, lineHeight, tr(links), "", 1, "L", false, 0, "")
	}
	pdf.SetY(38)

	section := func(title string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(primary.r, primary.g, primary.b)
		pdf.CellFormat(contentWidth, 7, title, "", 1, "L", false, 0, "")
		pdf.SetDrawColor(secondary.r, secondary.g, secondary.b)
		y := pdf.GetY()
		pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
		pdf.Ln(1.5)
		pdf.SetTextColor(text.r, text.g, text.b)
	}
	body := func(style, s string) {
		if s = strings.TrimSpace(s); s == "" {
			return
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.MultiCell(contentWidth, lineHeight, tr(s), "", "L", false)
	}
	bullets := func(items []string) {
		for _, item := range items {
			body("", bullet(item))
		}
	}

	if form.Summary != "" {
		section("PROFESSIONAL SUMMARY")
		body("", form.Summary)
	}

	if len(form.Experience) > 0 {
		section("WORK EXPERIENCE")
		for _, exp := range form.Experience {
			body("B", exp.Title)
			body("I", joinNonEmpty(" | ", exp.Company, exp.Location, dateRange(exp)))
			bullets(exp.Responsibilities)
			pdf.Ln(1.5)
		}
	}

	if len(form.Education) > 0 {
		section("EDUCATION")
		for _, edu := range form.Education {
			body("B", edu.Degree)
			graduated := ""
			if edu.GraduationDate != "" {
				graduated = "Graduated: " + edu.GraduationDate
			}
			body("I", joinNonEmpty(" | ", edu.School, edu.Location, graduated))
			if edu.GPA != "" {
				body("", "GPA: "+edu.GPA)
			}
			bullets(edu.Highlights)
			pdf.Ln(1.5)
		}
	}

	if len(form.Skills.Technical) > 0 || len(form.Skills.Soft) > 0 {
		section("SKILLS")
		if len(form.Skills.Technical) > 0 {
			body("B", "Technical")
			body("", strings.Join(form.Skills.Technical, ", "))
		}
		if len(form.Skills.Soft) > 0 {
			body("B", "Professional")
			body("", strings.Join(form.Skills.Soft, ", "))
		}
	}

	if len(form.Certifications) > 0 {
		section("CERTIFICATIONS")
		for _, cert := range form.Certifications {
			body("B", cert.Name)
			body("", joinNonEmpty(" | ", cert.Issuer, cert.Date))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// RenderPreview rasterizes the first page of a PDF to JPEG.
func (r *exportRenderer) RenderPreview(pdf []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", ErrRender, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrRender)
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to render first page: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("%w: failed to encode preview: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

type rgb struct{ r, g, b int }

func parseHex(s string) (rgb, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return rgb{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return rgb{r: int(v >> 16 & 0xff), g: int(v >> 8 & 0xff), b: int(v & 0xff)}, nil
}

const resumeHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Form.PersonalInfo.FullName}}</title>
<style>
body { margin: 0; font-family: Helvetica, Arial, sans-serif; color: {{.Template.Colors.Text}}; background: {{.Template.Colors.Background}}; }
.page { display: flex; max-width: 960px; margin: 0 auto; }
.side { width: 33%; padding: 32px; color: #ffffff; background: {{.Template.Colors.Primary}}; }
.main { flex: 1; padding: 32px; }
.side h2 { color: {{.Template.Colors.Secondary}}; }
.main h2 { color: {{.Template.Colors.Primary}}; border-bottom: 2px solid {{.Template.Colors.Secondary}}; }
header { padding: 24px 32px; color: #ffffff; background: {{.Template.Colors.Primary}}; }
.muted { color: #4b5563; }
</style>
</head>
<body>
{{- $f := .Form}}
{{- if .Template.Sidebar}}
<div class="page">
<aside class="side">
<h1>{{$f.PersonalInfo.FullName}}</h1>
{{template "contact" $f.PersonalInfo}}
{{template "skills" $f.Skills}}
{{template "certifications" $f.Certifications}}
</aside>
<main class="main">
{{template "body" $f}}
</main>
</div>
{{- else}}
<header>
<h1>{{$f.PersonalInfo.FullName}}</h1>
{{template "contact" $f.PersonalInfo}}
</header>
<main class="main">
{{template "body" $f}}
{{template "skills" $f.Skills}}
{{template "certifications" $f.Certifications}}
</main>
{{- end}}
</body>
</html>
{{define "contact"}}
<p>{{.Email}}</p>
{{- if .Phone}}<p>{{.Phone}}</p>{{end}}
{{- if .Location}}<p>{{.Location}}</p>{{end}}
{{- if .LinkedIn}}<p><a href="{{.LinkedIn}}">LinkedIn</a></p>{{end}}
{{- if .Portfolio}}<p><a href="{{.Portfolio}}">Portfolio</a></p>{{end}}
{{end}}
{{define "skills"}}
{{- if or .Technical .Soft}}
<section>
<h2>SKILLS</h2>
{{- if .Technical}}<h3>Technical</h3><ul>{{range .Technical}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- if .Soft}}<h3>Professional</h3><ul>{{range .Soft}}<li>{{.}}</li>{{end}}</ul>{{end}}
</section>
{{- end}}
{{end}}
{{define "certifications"}}
{{- if .}}
<section>
<h2>CERTIFICATIONS</h2>
{{- range .}}
<div><h3>{{.Name}}</h3><p>{{.Issuer}}</p><p class="muted">{{.Date}}</p></div>
{{- end}}
</section>
{{- end}}
{{end}}
{{define "body"}}
{{- if .Summary}}
<section>
<h2>PROFESSIONAL SUMMARY</h2>
<p>{{.Summary}}</p>
</section>
{{- end}}
{{- if .Experience}}
<section>
<h2>WORK EXPERIENCE</h2>
{{- range .Experience}}
<div>
<h3>{{.Title}}</h3>
<p class="muted">{{.Company}}{{if .Location}} | {{.Location}}{{end}} | {{dates .}}</p>
<ul>{{range .Responsibilities}}<li>{{.}}</li>{{end}}</ul>
</div>
{{- end}}
</section>
{{- end}}
{{- if .Education}}
<section>
<h2>EDUCATION</h2>
{{- range .Education}}
<div>
<h3>{{.Degree}}</h3>
<p class="muted">{{.School}}{{if .Location}} | {{.Location}}{{end}}{{if .GraduationDate}} | Graduated: {{.GraduationDate}}{{end}}</p>
{{- if .GPA}}<p>GPA: {{.GPA}}</p>{{end}}
{{- if .Highlights}}<ul>{{range .Highlights}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{- end}}
</section>
{{- end}}
{{end}}
`
