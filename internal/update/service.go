// Package update applies requested field values to a single GitHub project item.
package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/naag/gh-project-fields/internal/fields"
	"github.com/naag/gh-project-fields/internal/github"
	"github.com/naag/gh-project-fields/internal/github/projecturl"
	"github.com/naag/gh-project-fields/internal/telemetry"
)

// ErrRemoteLookup wraps failures of the project lookup and field schema queries
var ErrRemoteLookup = errors.New("remote lookup failed")

// Request describes one update run
type Request struct {
	ProjectURL string
	ItemID     string
	Fields     []fields.FieldUpdate
}

// Service provides functionality for updating project item fields
type Service struct {
	client  github.Client
	dryRun  bool
	tracer  trace.Tracer
	updates metric.Int64Counter
}

// NewService creates a new update service
func NewService(client github.Client, dryRun bool) *Service {
	s := &Service{
		client: client,
		dryRun: dryRun,
		tracer: telemetry.Tracer(),
	}
	counter, err := telemetry.Meter().Int64Counter("project.field_updates",
		metric.WithDescription("Field update results by outcome"))
	if err != nil {
		slog.Warn("failed to create field update counter", "error", err)
	}
	s.updates = counter
	return s
}

// UpdateFields sets the requested field values on the item. Unknown fields, values
// that cannot be encoded and rejected updates are recorded in the report and do not
// stop the run. Lookup failures and unsupported field types abort it; the report
// gathered up to that point is returned alongside the error.
func (s *Service) UpdateFields(ctx context.Context, req Request) (*Report, error) {
	project, err := projecturl.Parse(req.ProjectURL)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "project.update_fields", trace.WithAttributes(
		attribute.String("project.owner", project.OwnerLogin),
		attribute.Int("project.number", project.ProjectNumber),
		attribute.Int("fields.requested", len(req.Fields)),
	))
	defer span.End()

	projectID, err := s.getProjectID(ctx, project)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	report := &Report{
		ProjectID: projectID,
		ItemID:    req.ItemID,
		DryRun:    s.dryRun,
		Results:   []FieldResult{},
	}
	if len(req.Fields) == 0 {
		slog.Info("no field values to update", "project_id", projectID)
		return report, nil
	}

	defs, err := s.getFields(ctx, projectID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	schema := fields.NewSchema(defs)

	for _, update := range req.Fields {
		if err := s.applyFieldUpdate(ctx, schema, projectID, req.ItemID, update, report); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return report, err
		}
	}

	span.SetAttributes(attribute.Int("fields.updated", report.Count(OutcomeUpdated)))
	return report, nil
}

// Fields returns the field definitions of the project behind projectURL
func (s *Service) Fields(ctx context.Context, projectURL string) ([]github.FieldDefinition, error) {
	project, err := projecturl.Parse(projectURL)
	if err != nil {
		return nil, err
	}

	projectID, err := s.getProjectID(ctx, project)
	if err != nil {
		return nil, err
	}
	return s.getFields(ctx, projectID)
}

// getProjectID resolves the node ID of the project
func (s *Service) getProjectID(ctx context.Context, project *github.ProjectInfo) (string, error) {
	ctx, span := s.tracer.Start(ctx, "project.lookup")
	defer span.End()

	projectID, err := s.client.GetProjectID(ctx, project)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: failed to get project ID: %w", ErrRemoteLookup, err)
	}
	return projectID, nil
}

// getFields fetches the project's field definitions
func (s *Service) getFields(ctx context.Context, projectID string) ([]github.FieldDefinition, error) {
	ctx, span := s.tracer.Start(ctx, "project.fields")
	defer span.End()

	defs, err := s.client.GetProjectFields(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: failed to get project fields: %w", ErrRemoteLookup, err)
	}
	span.SetAttributes(attribute.Int("fields.count", len(defs)))
	return defs, nil
}

// applyFieldUpdate resolves and sends a single field value. Only errors that must
// abort the run are returned; everything else ends up in the report.
func (s *Service) applyFieldUpdate(ctx context.Context, schema *fields.Schema, projectID, itemID string, update fields.FieldUpdate, report *Report) error {
	field, err := schema.Lookup(update.Key)
	if err != nil {
		slog.Info("skipping field",
			"message", "field not found",
			"field", update.Key,
		)
		s.record(ctx, report, FieldResult{Field: update.Key, Value: update.Value, Outcome: OutcomeNotFound})
		return nil
	}

	value, err := fields.Resolve(field, update.Value)
	switch {
	case errors.Is(err, fields.ErrInvalidValue):
		slog.Warn("skipping field",
			"message", "invalid value",
			"field", update.Key,
			"value", update.Value,
			"error", err,
		)
		s.record(ctx, report, FieldResult{Field: update.Key, Value: update.Value, Outcome: OutcomeInvalid, Error: err.Error()})
		return nil
	case err != nil:
		return err
	}

	if s.dryRun {
		slog.Info("dry run: skipping field update",
			"field", update.Key,
			"value", value.String(),
			"payload_key", string(value.Key()),
		)
		s.record(ctx, report, FieldResult{Field: update.Key, Value: value.String(), Outcome: OutcomeDryRun, ItemID: itemID})
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "project.update_field", trace.WithAttributes(
		attribute.String("field.name", field.Name),
		attribute.String("field.payload_key", string(value.Key())),
	))
	defer span.End()

	slog.Debug("updating field",
		"field", update.Key,
		"field_id", field.ID,
		"payload_key", string(value.Key()),
		"value", value.String(),
	)
	updatedItemID, err := s.client.UpdateProjectField(ctx, projectID, itemID, field.ID, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("failed to update field",
			"message", "field update failed",
			"field", update.Key,
			"value", value.String(),
			"error", err,
		)
		s.record(ctx, report, FieldResult{Field: update.Key, Value: value.String(), Outcome: OutcomeFailed, Error: err.Error()})
		return nil
	}

	s.record(ctx, report, FieldResult{Field: update.Key, Value: value.String(), Outcome: OutcomeUpdated, ItemID: updatedItemID})
	return nil
}

func (s *Service) record(ctx context.Context, report *Report, result FieldResult) {
	report.add(result)
	if s.updates != nil {
		s.updates.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(result.Outcome))))
	}
}
