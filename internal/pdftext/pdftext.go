// Package pdftext is the PDF primitive the document extractors build on. It
// turns a PDF file into per-page plain text plus the tables detected on each
// page, and hides whether the text came from the pdftotext tool or from a
// pure-Go reader. Parsers depend on the Extractor interface so tests can feed
// prepared pages through a mock.
package pdftext

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Page is the text of one PDF page plus the tables detected on it.
// Tables are slices of rows, rows are slices of cell strings.
type Page struct {
	Text   string
	Tables [][][]string
}

// Extractor extracts the pages of a PDF document.
type Extractor interface {
	Pages(pdfPath string) ([]Page, error)
}

// NewExtractor returns the best available extractor: the pdftotext layout
// extractor when the tool is installed (its column-preserving output is what
// table detection needs), otherwise the pure-Go reader.
func NewExtractor() Extractor {
	if _, err := exec.LookPath("pdftotext"); err == nil {
		return &LayoutExtractor{}
	}
	log.Warn("pdftotext not found, falling back to pure-Go PDF reader without table detection")
	return &PlainExtractor{}
}

// LayoutExtractor extracts pages by running pdftotext with layout
// preservation. Column positions survive as runs of spaces, which is what
// DetectTables keys on.
type LayoutExtractor struct{}

// Pages runs pdftotext -layout over the whole document and splits its output
// into pages at the form-feed characters the tool emits.
func (e *LayoutExtractor) Pages(pdfPath string) ([]Page, error) {
	cmd := exec.Command("pdftotext", "-layout", pdfPath, "-")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed for %s: %w", pdfPath, err)
	}

	var pages []Page
	for _, pageText := range strings.Split(string(output), "\f") {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, Page{
			Text:   pageText,
			Tables: DetectTables(pageText),
		})
	}

	log.WithFields(logrus.Fields{
		"file":  pdfPath,
		"pages": len(pages),
	}).Debug("Extracted PDF pages via pdftotext")

	return pages, nil
}

// PlainExtractor extracts page text with a pure-Go PDF reader. Plain text
// extraction flattens columns, so pages carry no tables; the text heuristics
// still work.
type PlainExtractor struct{}

// Pages reads the document and returns one Page per PDF page.
func (e *PlainExtractor) Pages(pdfPath string) ([]Page, error) {
	reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", pdfPath, err)
	}

	var pages []Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.WithFields(logrus.Fields{
				"file": pdfPath,
				"page": i,
			}).WithError(err).Warn("Skipping unreadable PDF page")
			continue
		}
		pages = append(pages, Page{Text: text})
	}

	return pages, nil
}

// MockExtractor returns predefined pages instead of reading a file.
type MockExtractor struct {
	MockPages []Page
	MockErr   error
}

// NewMockExtractor creates a MockExtractor serving the given pages.
func NewMockExtractor(pages []Page, err error) *MockExtractor {
	return &MockExtractor{MockPages: pages, MockErr: err}
}

// Pages returns the predefined pages or error.
func (e *MockExtractor) Pages(pdfPath string) ([]Page, error) {
	if e.MockErr != nil {
		return nil, e.MockErr
	}
	return e.MockPages, nil
}
