package lint

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formatter writes warnings for humans or tools.
type Formatter interface {
	Format(w io.Writer, warnings []Warning) error
}

// TextFormatter prints one `filename | message` line per warning.
type TextFormatter struct{}

// Format implements Formatter.
func (TextFormatter) Format(w io.Writer, warnings []Warning) error {
	for _, warn := range warnings {
		if _, err := fmt.Fprintf(w, "%s | %s\n", warn.Filename, warn.Message); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter prints the warnings as an indented JSON document.
type JSONFormatter struct{}

type jsonOutput struct {
	Count    int       `json:"count"`
	Warnings []Warning `json:"warnings"`
}

// Format implements Formatter.
func (JSONFormatter) Format(w io.Writer, warnings []Warning) error {
	if warnings == nil {
		warnings = []Warning{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{Count: len(warnings), Warnings: warnings})
}

// NewFormatter returns the formatter for format ("text" or "json"); unknown
// formats fall back to text.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return JSONFormatter{}
	}
	return TextFormatter{}
}
