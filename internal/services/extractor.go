package services

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrUnsupportedFile is returned for document types we cannot read.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrExtraction is returned when a document yields no usable text.
	ErrExtraction = errors.New("failed to extract text")
)

// minExtractedChars is the shortest text accepted from a document.
const minExtractedChars = 10

type TextExtractor interface {
	Extract(filename string, data []byte) (*ExtractedText, error)
	ExtractFile(path string) (*ExtractedText, error)
}

type ExtractedText struct {
	Text      string
	PageCount int
	Format    string
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// Extract implements TextExtractor. The format is chosen by file extension.
func (e *textExtractor) Extract(filename string, data []byte) (*ExtractedText, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		out *ExtractedText
		err error
	)
	switch ext {
	case ".pdf":
		out, err = extractPDF(data)
	case ".docx":
		out, err = extractDocx(data)
	case ".txt":
		out = &ExtractedText{Text: string(data), PageCount: 1, Format: "txt"}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}

	if !utf8.ValidString(out.Text) {
		out.Text = strings.ToValidUTF8(out.Text, "�")
	}
	out.Text = CleanText(out.Text)
	if utf8.RuneCountInString(out.Text) < minExtractedChars {
		return nil, fmt.Errorf("%w: document is empty", ErrExtraction)
	}

	return out, nil
}

// ExtractFile implements TextExtractor.
func (e *textExtractor) ExtractFile(path string) (*ExtractedText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.Extract(filepath.Base(path), data)
}

func extractPDF(data []byte) (*ExtractedText, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", ErrExtraction, err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest of the document.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return &ExtractedText{
		Text:      textBuilder.String(),
		PageCount: totalPage,
		Format:    "pdf",
	}, nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
)

func extractDocx(data []byte) (*ExtractedText, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse docx: %v", ErrExtraction, err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTag.ReplaceAllString(content, " ")

	return &ExtractedText{
		Text:      html.UnescapeString(content),
		PageCount: 1,
		Format:    "docx",
	}, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
