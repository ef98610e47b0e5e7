package update

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/naag/gh-project-fields/internal/github"
)

// Outcome is what happened to a single requested field
type Outcome string

const (
	OutcomeUpdated  Outcome = "updated"
	OutcomeNotFound Outcome = "not_found"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeFailed   Outcome = "failed"
	OutcomeDryRun   Outcome = "dry_run"
)

// Format selects how a Report is written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported output format %q: must be one of text, json, yaml", s)
}

// FieldResult records the outcome for one requested field
type FieldResult struct {
	Field   string  `json:"field" yaml:"field"`
	Value   string  `json:"value" yaml:"value"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	ItemID  string  `json:"itemId,omitempty" yaml:"itemId,omitempty"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Line renders the result as a human readable status line
func (r FieldResult) Line() string {
	switch r.Outcome {
	case OutcomeUpdated:
		return fmt.Sprintf("Successfully updated field '%s' with value '%s' for item: %s.", r.Field, r.Value, r.ItemID)
	case OutcomeDryRun:
		return fmt.Sprintf("Would update field '%s' with value '%s' for item: %s.", r.Field, r.Value, r.ItemID)
	case OutcomeNotFound:
		return fmt.Sprintf("Failed to find field with name '%s'.", r.Field)
	}
	return fmt.Sprintf("Failed to update field '%s' with value '%s'. %s", r.Field, r.Value, r.Error)
}

// Report collects per-field results of one update run
type Report struct {
	ProjectID string        `json:"projectId" yaml:"projectId"`
	ItemID    string        `json:"itemId" yaml:"itemId"`
	DryRun    bool          `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	Results   []FieldResult `json:"results" yaml:"results"`
}

func (r *Report) add(result FieldResult) {
	r.Results = append(r.Results, result)
}

// Count returns the number of results with the given outcome
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}

// Lines renders one status line per result
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Results))
	for _, result := range r.Results {
		lines = append(lines, result.Line())
	}
	return lines
}

// Write writes the report to w in the given format
func (r *Report) Write(w io.Writer, format Format) error {
	if format != FormatText && format != "" {
		return encode(w, format, r)
	}
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteFields writes a project's field definitions. The text form lists the
// indexes that can be used as [n] values for single select and iteration fields.
func WriteFields(w io.Writer, defs []github.FieldDefinition, format Format) error {
	if format != FormatText && format != "" {
		return encode(w, format, defs)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tID")
	for _, def := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, def.DataType, def.ID)
		for i, opt := range def.Options {
			fmt.Fprintf(tw, "  [%d] %s\t\t%s\n", i, opt.Name, opt.ID)
		}
		for i, it := range def.Iterations {
			fmt.Fprintf(tw, "  [%d] %s\t\t%s\n", i, it.StartDate, it.ID)
		}
	}
	return tw.Flush()
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format %q", format)
}
