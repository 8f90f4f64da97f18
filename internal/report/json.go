package report

import (
	"encoding/json"
	"io"
)

// JSONFormatter renders summaries as JSON
type JSONFormatter struct {
	Indent bool
}

// Generate writes the summary as JSON
func (f *JSONFormatter) Generate(s *Summary, w io.Writer) error {
	encoder := json.NewEncoder(w)

	if f.Indent {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(s)
}

// Extension returns the file extension
func (f *JSONFormatter) Extension() string {
	return "json"
}
