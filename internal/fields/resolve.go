package fields

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/naag/gh-project-fields/internal/github"
)

var (
	// ErrFieldNotFound is returned when a project has no field with the requested name
	ErrFieldNotFound = errors.New("field not found")
	// ErrInvalidValue is returned when a value cannot be encoded for the field's data type
	ErrInvalidValue = errors.New("invalid field value")
)

var (
	// indexRef matches positional references such as [2]
	indexRef = regexp.MustCompile(`^\[(.*)\]$`)
	// decimal matches plain decimal numbers with an optional exponent. Hex floats,
	// digit separators, NaN and Inf are not numbers here.
	decimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// Schema is a read-only lookup of a project's field definitions by name
type Schema struct {
	byName map[string]github.FieldDefinition
}

// NewSchema indexes field definitions by name. If two fields share a name the first one wins.
func NewSchema(defs []github.FieldDefinition) *Schema {
	byName := make(map[string]github.FieldDefinition, len(defs))
	for _, def := range defs {
		if _, ok := byName[def.Name]; !ok {
			byName[def.Name] = def
		}
	}
	return &Schema{byName: byName}
}

// Lookup returns the field with exactly the given name
func (s *Schema) Lookup(name string) (github.FieldDefinition, error) {
	def, ok := s.byName[name]
	if !ok {
		return github.FieldDefinition{}, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}
	return def, nil
}

// Resolve converts a raw value into the typed value for field def.
//
// Single select and iteration fields accept either a positional reference ("[1]")
// or a case-insensitive option name / iteration start date; anything else is sent
// as-is so raw option and iteration IDs keep working.
//
// It returns github.ErrUnsupportedDataType for fields that cannot be updated and
// ErrInvalidValue for numbers and dates that do not parse.
func Resolve(def github.FieldDefinition, raw string) (github.FieldValue, error) {
	value := raw
	switch def.Kind {
	case github.FieldKindSingleSelect:
		if i, ok := match(raw, len(def.Options), func(i int) string { return def.Options[i].Name }); ok {
			value = def.Options[i].ID
		}
	case github.FieldKindIteration:
		if i, ok := match(raw, len(def.Iterations), func(i int) string { return def.Iterations[i].StartDate }); ok {
			value = def.Iterations[i].ID
		}
	}

	key, err := def.DataType.PayloadKey()
	if err != nil {
		return github.FieldValue{}, fmt.Errorf("field %s: %w", def.Name, err)
	}

	switch key {
	case github.PayloadNumber:
		s := strings.TrimSpace(value)
		if !decimal.MatchString(s) {
			return github.FieldValue{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, value)
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return github.FieldValue{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, value)
		}
		return github.NumberValue(n), nil
	case github.PayloadDate:
		d, err := parseDate(value)
		if err != nil {
			return github.FieldValue{}, fmt.Errorf("%w: %q is not a date (want YYYY-MM-DD)", ErrInvalidValue, value)
		}
		return github.DateValue(d), nil
	case github.PayloadSingleSelect:
		return github.SingleSelectValue(value), nil
	case github.PayloadIteration:
		return github.IterationValue(value), nil
	default:
		return github.TextValue(value), nil
	}
}

// match finds the entry referenced by raw, either by "[index]" or by a case-insensitive
// comparison against name(i). A bracketed value never falls back to name matching.
func match(raw string, n int, name func(i int) string) (int, bool) {
	if m := indexRef.FindStringSubmatch(raw); m != nil {
		i, err := strconv.Atoi(strings.TrimSpace(m[1]))
		if err != nil || i < 0 || i >= n {
			return 0, false
		}
		return i, true
	}
	for i := 0; i < n; i++ {
		if strings.EqualFold(name(i), raw) {
			return i, true
		}
	}
	return 0, false
}

// parseDate returns the calendar date of s. RFC 3339 timestamps keep the date as
// written, in their own offset.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, err
		}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
