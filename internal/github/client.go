package github

import (
	"context"
)

// Client defines the interface for interacting with GitHub
type Client interface {
	// GetProjectID retrieves the globally unique node ID for a project
	GetProjectID(ctx context.Context, project *ProjectInfo) (string, error)

	// GetProjectFields retrieves the field definitions of a project (first 100 only)
	GetProjectFields(ctx context.Context, projectID string) ([]FieldDefinition, error)

	// UpdateProjectField sets a field value on a project item and returns the ID of the updated item
	UpdateProjectField(ctx context.Context, projectID, itemID, fieldID string, value FieldValue) (string, error)
}
