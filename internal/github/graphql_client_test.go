package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type requestLog struct {
	mu       sync.Mutex
	requests []graphqlRequest
}

func (l *requestLog) add(req graphqlRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, req)
}

func (l *requestLog) all() []graphqlRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]graphqlRequest(nil), l.requests...)
}

func (l *requestLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = nil
}

// newTestServer serves canned GraphQL responses picked by a substring of the query
func newTestServer(t *testing.T, responses map[string]string, log *requestLog) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gh_token", r.Header.Get("Authorization"))

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if log != nil {
			log.add(req)
		}

		w.Header().Set("Content-Type", "application/json")
		for match, body := range responses {
			if strings.Contains(req.Query, match) {
				_, _ = w.Write([]byte(body))
				return
			}
		}
		t.Errorf("unexpected GraphQL query: %s", req.Query)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGraphQLClientGetProjectID(t *testing.T) {
	log := &requestLog{}
	server := newTestServer(t, map[string]string{
		"organization(login: $login)": `{"data":{"organization":{"projectV2":{"id":"org-project-id"}}}}`,
		"user(login: $login)":         `{"data":{"user":{"projectV2":{"id":"user-project-id"}}}}`,
	}, log)

	client, err := NewGraphQLClient("gh_token", server.URL, false)
	require.NoError(t, err)

	id, err := client.GetProjectID(context.Background(), &ProjectInfo{OwnerType: OwnerTypeOrg, OwnerLogin: "myorg", ProjectNumber: 7})
	require.NoError(t, err)
	assert.Equal(t, "org-project-id", id)

	id, err = client.GetProjectID(context.Background(), &ProjectInfo{OwnerType: OwnerTypeUser, OwnerLogin: "titoportas", ProjectNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, "user-project-id", id)

	requests := log.all()
	require.Len(t, requests, 2)
	assert.Equal(t, "myorg", requests[0].Variables["login"])
	assert.EqualValues(t, 7, requests[0].Variables["projectNumber"])
	assert.Equal(t, "titoportas", requests[1].Variables["login"])
}

func TestGraphQLClientGetProjectIDError(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"organization(login: $login)": `{"data":null,"errors":[{"message":"Could not resolve to an Organization"}]}`,
	}, nil)

	client, err := NewGraphQLClient("gh_token", server.URL, false)
	require.NoError(t, err)

	_, err = client.GetProjectID(context.Background(), &ProjectInfo{OwnerType: OwnerTypeOrg, OwnerLogin: "missing", ProjectNumber: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not resolve to an Organization")
}

func TestGraphQLClientGetProjectFields(t *testing.T) {
	log := &requestLog{}
	server := newTestServer(t, map[string]string{
		"fields(first: 100)": `{"data":{"node":{"fields":{"nodes":[
			{"__typename":"ProjectV2Field","id":"f-title","name":"Title","dataType":"TITLE"},
			{"__typename":"ProjectV2Field","id":"f-text","name":"field-text","dataType":"TEXT"},
			{"__typename":"ProjectV2IterationField","id":"f-iter","name":"Sprint","dataType":"ITERATION",
				"configuration":{"iterations":[{"id":"i0","startDate":"2024-05-01"},{"id":"i1","startDate":"2024-05-15"}]}},
			{"__typename":"ProjectV2SingleSelectField","id":"f-prio","name":"Priority","dataType":"SINGLE_SELECT",
				"options":[{"id":"o0","name":"Low"},{"id":"o1","name":"High"}]}
		]}}}}`,
	}, log)

	client, err := NewGraphQLClient("gh_token", server.URL, false)
	require.NoError(t, err)

	fields, err := client.GetProjectFields(context.Background(), "project-id")
	require.NoError(t, err)

	requests := log.all()
	require.Len(t, requests, 1)
	assert.Equal(t, "project-id", requests[0].Variables["projectId"])

	want := []FieldDefinition{
		{ID: "f-title", Name: "Title", DataType: "TITLE", Kind: FieldKindPlain},
		{ID: "f-text", Name: "field-text", DataType: DataTypeText, Kind: FieldKindPlain},
		{
			ID: "f-iter", Name: "Sprint", DataType: DataTypeIteration, Kind: FieldKindIteration,
			Iterations: []Iteration{{ID: "i0", StartDate: "2024-05-01"}, {ID: "i1", StartDate: "2024-05-15"}},
		},
		{
			ID: "f-prio", Name: "Priority", DataType: DataTypeSingleSelect, Kind: FieldKindSingleSelect,
			Options: []Option{{ID: "o0", Name: "Low"}, {ID: "o1", Name: "High"}},
		},
	}
	assert.Equal(t, want, fields)
}

func TestGraphQLClientUpdateProjectField(t *testing.T) {
	log := &requestLog{}
	server := newTestServer(t, map[string]string{
		"updateProjectV2ItemFieldValue(input: $input)": `{"data":{"updateProjectV2ItemFieldValue":{"projectV2Item":{"id":"project-item-id"}}}}`,
	}, log)

	client, err := NewGraphQLClient("gh_token", server.URL, false)
	require.NoError(t, err)

	tests := []struct {
		name      string
		value     FieldValue
		wantKey   string
		wantValue interface{}
	}{
		{name: "text", value: TextValue("field-value"), wantKey: "text", wantValue: "field-value"},
		{name: "number", value: NumberValue(42), wantKey: "number", wantValue: float64(42)},
		{name: "single select", value: SingleSelectValue("o1"), wantKey: "singleSelectOptionId", wantValue: "o1"},
		{name: "iteration", value: IterationValue("i1"), wantKey: "iterationId", wantValue: "i1"},
		{
			name:      "date",
			value:     DateValue(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)),
			wantKey:   "date",
			wantValue: "2024-06-30T00:00:00Z",
		},
		{
			name:      "date with offset keeps its calendar day",
			value:     DateValue(time.Date(2024, 6, 30, 23, 0, 0, 0, time.FixedZone("EST", -5*60*60))),
			wantKey:   "date",
			wantValue: "2024-06-30T00:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log.reset()
			itemID, err := client.UpdateProjectField(context.Background(), "project-id", "project-item-id", "field-id", tt.value)
			require.NoError(t, err)
			assert.Equal(t, "project-item-id", itemID)

			requests := log.all()
			require.Len(t, requests, 1)
			input, ok := requests[0].Variables["input"].(map[string]interface{})
			require.True(t, ok, "input variable missing")
			assert.Equal(t, "project-id", input["projectId"])
			assert.Equal(t, "project-item-id", input["itemId"])
			assert.Equal(t, "field-id", input["fieldId"])

			value, ok := input["value"].(map[string]interface{})
			require.True(t, ok, "value missing")
			assert.Len(t, value, 1)
			assert.Equal(t, tt.wantValue, value[tt.wantKey])
			if tt.wantKey == "date" {
				assert.Equal(t, "2024-06-30", tt.value.String(), "reported date matches the sent one")
			}
		})
	}
}

func TestGraphQLClientUpdateProjectFieldError(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"updateProjectV2ItemFieldValue(input: $input)": `{"data":null,"errors":[{"message":"Field is read-only"}]}`,
	}, nil)

	client, err := NewGraphQLClient("gh_token", server.URL, false)
	require.NoError(t, err)

	_, err = client.UpdateProjectField(context.Background(), "project-id", "item", "field-id", TextValue("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field is read-only")
}

func TestNewGraphQLClientRequiresToken(t *testing.T) {
	_, err := NewGraphQLClient("", "", false)
	assert.Error(t, err)
}
