package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// GraphQLClient implements the Client interface using GitHub's GraphQL API
type GraphQLClient struct {
	client *githubv4.Client
}

// NewGraphQLClient creates a new GitHub GraphQL client authenticated with token.
// An empty endpoint targets github.com; verbose dumps HTTP traffic at debug level.
func NewGraphQLClient(token, endpoint string, verbose bool) (*GraphQLClient, error) {
	if token == "" {
		return nil, fmt.Errorf("github token not set")
	}

	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), src)

	if verbose {
		httpClient.Transport = &debugTransport{
			transport: httpClient.Transport,
		}
	}

	if endpoint == "" {
		return &GraphQLClient{client: githubv4.NewClient(httpClient)}, nil
	}
	return &GraphQLClient{client: githubv4.NewEnterpriseClient(endpoint, httpClient)}, nil
}

// GraphQL query types for GitHub's API
type (
	// projectV2Node holds the node ID of a project looked up by owner and number
	projectV2Node struct {
		ID string
	}

	// projectV2FieldConfiguration is one entry of a project's fields connection
	projectV2FieldConfiguration struct {
		TypeName string `graphql:"__typename"`
		Field    struct {
			ID       string
			Name     string
			DataType string
		} `graphql:"... on ProjectV2Field"`
		IterationField struct {
			ID            string
			Name          string
			DataType      string
			Configuration struct {
				Iterations []struct {
					ID        string
					StartDate string
				}
			}
		} `graphql:"... on ProjectV2IterationField"`
		SingleSelectField struct {
			ID       string
			Name     string
			DataType string
			Options  []struct {
				ID   string
				Name string
			}
		} `graphql:"... on ProjectV2SingleSelectField"`
	}
)

func (c *GraphQLClient) getOrgProjectID(ctx context.Context, login string, projectNumber int) (string, error) {
	var query struct {
		Organization struct {
			ProjectV2 projectV2Node `graphql:"projectV2(number: $projectNumber)"`
		} `graphql:"organization(login: $login)"`
	}

	variables := map[string]interface{}{
		"login":         githubv4.String(login),
		"projectNumber": githubv4.Int(projectNumber),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return "", fmt.Errorf("failed to query organization project: %w", err)
	}

	return query.Organization.ProjectV2.ID, nil
}

func (c *GraphQLClient) getUserProjectID(ctx context.Context, login string, projectNumber int) (string, error) {
	var query struct {
		User struct {
			ProjectV2 projectV2Node `graphql:"projectV2(number: $projectNumber)"`
		} `graphql:"user(login: $login)"`
	}

	variables := map[string]interface{}{
		"login":         githubv4.String(login),
		"projectNumber": githubv4.Int(projectNumber),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return "", fmt.Errorf("failed to query user project: %w", err)
	}

	return query.User.ProjectV2.ID, nil
}

// GetProjectID implements the Client interface
func (c *GraphQLClient) GetProjectID(ctx context.Context, project *ProjectInfo) (string, error) {
	var id string
	var err error

	switch project.OwnerType {
	case OwnerTypeUser:
		id, err = c.getUserProjectID(ctx, project.OwnerLogin, project.ProjectNumber)
	case OwnerTypeOrg:
		id, err = c.getOrgProjectID(ctx, project.OwnerLogin, project.ProjectNumber)
	default:
		return "", fmt.Errorf("%w: %d", ErrUnsupportedOwnerType, project.OwnerType)
	}
	if err != nil {
		return "", err
	}

	slog.Debug("resolved project",
		"owner", project.OwnerLogin,
		"owner_type", project.OwnerType.String(),
		"number", project.ProjectNumber,
		"project_id", id,
	)
	return id, nil
}

// GetProjectFields implements the Client interface
func (c *GraphQLClient) GetProjectFields(ctx context.Context, projectID string) ([]FieldDefinition, error) {
	var query struct {
		Node struct {
			ProjectV2 struct {
				Fields struct {
					Nodes []projectV2FieldConfiguration
				} `graphql:"fields(first: 100)"`
			} `graphql:"... on ProjectV2"`
		} `graphql:"node(id: $projectId)"`
	}

	variables := map[string]interface{}{
		"projectId": githubv4.ID(projectID),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("failed to query project fields: %w", err)
	}

	nodes := query.Node.ProjectV2.Fields.Nodes
	fields := make([]FieldDefinition, 0, len(nodes))
	for _, node := range nodes {
		var field FieldDefinition

		switch node.TypeName {
		case "ProjectV2Field":
			field = FieldDefinition{
				ID:       node.Field.ID,
				Name:     node.Field.Name,
				DataType: DataType(node.Field.DataType),
				Kind:     FieldKindPlain,
			}
		case "ProjectV2IterationField":
			field = FieldDefinition{
				ID:         node.IterationField.ID,
				Name:       node.IterationField.Name,
				DataType:   DataType(node.IterationField.DataType),
				Kind:       FieldKindIteration,
				Iterations: make([]Iteration, 0, len(node.IterationField.Configuration.Iterations)),
			}
			for _, it := range node.IterationField.Configuration.Iterations {
				field.Iterations = append(field.Iterations, Iteration{ID: it.ID, StartDate: it.StartDate})
			}
		case "ProjectV2SingleSelectField":
			field = FieldDefinition{
				ID:       node.SingleSelectField.ID,
				Name:     node.SingleSelectField.Name,
				DataType: DataType(node.SingleSelectField.DataType),
				Kind:     FieldKindSingleSelect,
				Options:  make([]Option, 0, len(node.SingleSelectField.Options)),
			}
			for _, opt := range node.SingleSelectField.Options {
				field.Options = append(field.Options, Option{ID: opt.ID, Name: opt.Name})
			}
		}

		if field.ID != "" { // Only add if we handled this field type
			fields = append(fields, field)
		}
	}

	slog.Debug("fetched project fields", "project_id", projectID, "count", len(fields))
	return fields, nil
}

// UpdateProjectField implements the Client interface
func (c *GraphQLClient) UpdateProjectField(ctx context.Context, projectID, itemID, fieldID string, value FieldValue) (string, error) {
	var mutation struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID string
			}
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}

	fieldValue, err := value.input()
	if err != nil {
		return "", err
	}

	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: githubv4.ID(projectID),
		ItemID:    githubv4.ID(itemID),
		FieldID:   githubv4.ID(fieldID),
		Value:     fieldValue,
	}

	if err := c.client.Mutate(ctx, &mutation, input, nil); err != nil {
		return "", err
	}

	return mutation.UpdateProjectV2ItemFieldValue.ProjectV2Item.ID, nil
}

// input converts the value into the mutation's one-of value input
func (v FieldValue) input() (githubv4.ProjectV2FieldValue, error) {
	switch v.key {
	case PayloadText:
		text := githubv4.String(v.text)
		return githubv4.ProjectV2FieldValue{Text: &text}, nil
	case PayloadNumber:
		number := githubv4.Float(v.number)
		return githubv4.ProjectV2FieldValue{Number: &number}, nil
	case PayloadDate:
		date := githubv4.Date{Time: v.date}
		return githubv4.ProjectV2FieldValue{Date: &date}, nil
	case PayloadSingleSelect:
		option := githubv4.String(v.text)
		return githubv4.ProjectV2FieldValue{SingleSelectOptionID: &option}, nil
	case PayloadIteration:
		iteration := githubv4.String(v.text)
		return githubv4.ProjectV2FieldValue{IterationID: &iteration}, nil
	}
	return githubv4.ProjectV2FieldValue{}, fmt.Errorf("field value has no payload key")
}
