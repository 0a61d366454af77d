// Package parsererror defines the error types the document extractors return.
// Only hard input failures surface as errors; fields a document simply does
// not contain are reported as absent values, not errors.
package parsererror

import "fmt"

// ParseError represents a failure to parse a single value out of a document.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an unreadable or wrong-format input document,
// e.g. a file that is not a PDF or a PDF with no extractable text.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ExtractionError represents a document that was readable but yielded none of
// the data a caller explicitly required.
type ExtractionError struct {
	FilePath string
	Document string
	Reason   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction from %s document '%s' produced no data: %s",
		e.Document, e.FilePath, e.Reason)
}

// AIError represents a failure of the AI extraction path: a refused request,
// an unparseable response, or a missing API key.
type AIError struct {
	Document string
	Err      error
}

func (e *AIError) Error() string {
	return fmt.Sprintf("AI extraction failed for %s document: %v", e.Document, e.Err)
}

func (e *AIError) Unwrap() error {
	return e.Err
}
