package github

import (
	"context"
)

// MockClient implements the Client interface for testing
type MockClient struct {
	GetProjectIDFunc       func(ctx context.Context, project *ProjectInfo) (string, error)
	GetProjectFieldsFunc   func(ctx context.Context, projectID string) ([]FieldDefinition, error)
	UpdateProjectFieldFunc func(ctx context.Context, projectID, itemID, fieldID string, value FieldValue) (string, error)
}

// GetProjectID implements the Client interface
func (c *MockClient) GetProjectID(ctx context.Context, project *ProjectInfo) (string, error) {
	if c.GetProjectIDFunc != nil {
		return c.GetProjectIDFunc(ctx, project)
	}
	return "", nil
}

// GetProjectFields implements the Client interface
func (c *MockClient) GetProjectFields(ctx context.Context, projectID string) ([]FieldDefinition, error) {
	if c.GetProjectFieldsFunc != nil {
		return c.GetProjectFieldsFunc(ctx, projectID)
	}
	return nil, nil
}

// UpdateProjectField implements the Client interface
func (c *MockClient) UpdateProjectField(ctx context.Context, projectID, itemID, fieldID string, value FieldValue) (string, error) {
	if c.UpdateProjectFieldFunc != nil {
		return c.UpdateProjectFieldFunc(ctx, projectID, itemID, fieldID, value)
	}
	return itemID, nil
}
