package github

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrUnsupportedOwnerType is returned for project owners other than orgs and users
	ErrUnsupportedOwnerType = errors.New("unsupported owner type")
	// ErrUnsupportedDataType is returned for field data types that cannot be updated
	ErrUnsupportedDataType = errors.New("unsupported data type")
)

// ProjectInfo contains the parsed information from a GitHub project URL
type ProjectInfo struct {
	OwnerType     OwnerType
	OwnerLogin    string
	ProjectNumber int
}

// OwnerType represents the type of project owner (user or organization)
type OwnerType int

const (
	// OwnerTypeUser represents a user-owned project
	OwnerTypeUser OwnerType = iota
	// OwnerTypeOrg represents an organization-owned project
	OwnerTypeOrg
)

// ParseOwnerType maps the owner segment of a project URL ("orgs" or "users") to an OwnerType
func ParseOwnerType(segment string) (OwnerType, error) {
	switch segment {
	case "orgs":
		return OwnerTypeOrg, nil
	case "users":
		return OwnerTypeUser, nil
	}
	return 0, fmt.Errorf("%w: %s. Must be one of 'orgs' or 'users'", ErrUnsupportedOwnerType, segment)
}

// QueryField returns the GraphQL root field used to look up projects of this owner type
func (o OwnerType) QueryField() string {
	if o == OwnerTypeOrg {
		return "organization"
	}
	return "user"
}

func (o OwnerType) String() string {
	return o.QueryField()
}

// DataType is the dataType reported by GitHub for a project field
type DataType string

const (
	DataTypeText         DataType = "TEXT"
	DataTypeNumber       DataType = "NUMBER"
	DataTypeDate         DataType = "DATE"
	DataTypeIteration    DataType = "ITERATION"
	DataTypeSingleSelect DataType = "SINGLE_SELECT"
)

// PayloadKey names the member of the update mutation's value input that carries a field value
type PayloadKey string

const (
	PayloadText         PayloadKey = "text"
	PayloadNumber       PayloadKey = "number"
	PayloadDate         PayloadKey = "date"
	PayloadSingleSelect PayloadKey = "singleSelectOptionId"
	PayloadIteration    PayloadKey = "iterationId"
)

// PayloadKey returns the update payload key for the data type. Types other than
// the five updatable ones return ErrUnsupportedDataType.
func (d DataType) PayloadKey() (PayloadKey, error) {
	switch d {
	case DataTypeText:
		return PayloadText, nil
	case DataTypeNumber:
		return PayloadNumber, nil
	case DataTypeDate:
		return PayloadDate, nil
	case DataTypeIteration:
		return PayloadIteration, nil
	case DataTypeSingleSelect:
		return PayloadSingleSelect, nil
	}
	return "", fmt.Errorf("%w: %s. Must be one of 'text', 'number', 'date', 'singleSelectOptionId', 'iterationId'",
		ErrUnsupportedDataType, d)
}

// FieldKind tells which metadata a field definition carries
type FieldKind int

const (
	FieldKindPlain FieldKind = iota
	FieldKindSingleSelect
	FieldKindIteration
)

// Option is a single select option
type Option struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Iteration is an iteration of an iteration field
type Iteration struct {
	ID        string `json:"id" yaml:"id"`
	StartDate string `json:"startDate" yaml:"startDate"`
}

// FieldDefinition represents a field configuration in a GitHub project
type FieldDefinition struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	DataType   DataType    `json:"dataType" yaml:"dataType"`
	Kind       FieldKind   `json:"-" yaml:"-"`
	Options    []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Iterations []Iteration `json:"iterations,omitempty" yaml:"iterations,omitempty"`
}

// FieldValue is a typed value for the update mutation. The zero value is invalid;
// build one with TextValue, NumberValue, DateValue, SingleSelectValue or IterationValue.
type FieldValue struct {
	key    PayloadKey
	text   string
	number float64
	date   time.Time
}

// TextValue returns a value for TEXT fields
func TextValue(s string) FieldValue {
	return FieldValue{key: PayloadText, text: s}
}

// NumberValue returns a value for NUMBER fields
func NumberValue(n float64) FieldValue {
	return FieldValue{key: PayloadNumber, number: n}
}

// DateValue returns a value for DATE fields. Only the calendar date of t, in t's own
// location, is kept; it is sent as midnight UTC.
func DateValue(t time.Time) FieldValue {
	y, m, d := t.Date()
	return FieldValue{key: PayloadDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// SingleSelectValue returns a value selecting the given option id
func SingleSelectValue(optionID string) FieldValue {
	return FieldValue{key: PayloadSingleSelect, text: optionID}
}

// IterationValue returns a value selecting the given iteration id
func IterationValue(iterationID string) FieldValue {
	return FieldValue{key: PayloadIteration, text: iterationID}
}

// Key returns the payload key the value is sent under
func (v FieldValue) Key() PayloadKey {
	return v.key
}

// Number returns the numeric value; only meaningful for PayloadNumber
func (v FieldValue) Number() float64 {
	return v.number
}

// Date returns the date value; only meaningful for PayloadDate
func (v FieldValue) Date() time.Time {
	return v.date
}

// String renders the value as it is reported to users
func (v FieldValue) String() string {
	switch v.key {
	case PayloadNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case PayloadDate:
		return v.date.Format(time.DateOnly)
	}
	return v.text
}
