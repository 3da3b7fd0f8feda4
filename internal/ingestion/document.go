package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format is a supported resume document format.
type Format string

// Supported document formats.
const (
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatYAML     Format = "yaml"
)

// UnsupportedFormatError is returned for files whose type cannot be read.
type UnsupportedFormatError struct {
	Name string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported file format for %q: missing extension", e.Name)
	}
	return fmt.Sprintf("unsupported file format %q for %q (expected pdf, docx, txt or md)", e.Ext, e.Name)
}

// ExtractionError is returned when a supported document cannot be decoded.
type ExtractionError struct {
	Name  string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Name, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// DetectFormat maps a file name to its format by extension.
func DetectFormat(name string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	case "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Name: name, Ext: ext}
	}
}

// IsStructured reports whether name refers to a structured resume record rather than a document.
func IsStructured(name string) bool {
	f, err := DetectFormat(name)
	return err == nil && f == FormatYAML
}

// ExtractFile reads a resume document from disk and returns its cleaned text.
func ExtractFile(path string) (string, error) {
	if _, err := DetectFormat(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return ExtractBytes(filepath.Base(path), data)
}

// ExtractBytes returns the cleaned text of a document held in memory.
// name is only used to pick the format.
func ExtractBytes(name string, data []byte) (string, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	case FormatText, FormatMarkdown:
		text = string(data)
	default:
		return "", &UnsupportedFormatError{Name: name, Ext: string(format)}
	}
	if err != nil {
		return "", &ExtractionError{Name: name, Cause: err}
	}
	// scanned PDFs decode without error but carry no text layer
	cleaned := CleanText(text)
	if cleaned == "" {
		return "", &ExtractionError{Name: name, Cause: errors.New("document contains no text")}
	}
	return cleaned, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

var (
	paragraphEndRe = regexp.MustCompile(`</w:p>`)
	lineBreakRe    = regexp.MustCompile(`<w:(br|cr)\s*/>`)
	tabRe          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTagRe       = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText reduces WordprocessingML body XML to plain text, one paragraph per line.
func docxXMLToText(content string) string {
	content = paragraphEndRe.ReplaceAllString(content, "\n")
	content = lineBreakRe.ReplaceAllString(content, "\n")
	content = tabRe.ReplaceAllString(content, "\t")
	content = xmlTagRe.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
