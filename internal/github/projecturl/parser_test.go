package projecturl

import (
	"errors"
	"testing"

	"github.com/naag/gh-project-fields/internal/github"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    *ProjectInfo
		wantErr string
	}{
		{
			name: "valid org project URL",
			url:  "https://github.com/orgs/testorg/projects/123",
			want: &ProjectInfo{
				OwnerType:     github.OwnerTypeOrg,
				OwnerLogin:    "testorg",
				ProjectNumber: 123,
			},
		},
		{
			name: "valid user project URL",
			url:  "https://github.com/users/testuser/projects/456",
			want: &ProjectInfo{
				OwnerType:     github.OwnerTypeUser,
				OwnerLogin:    "testuser",
				ProjectNumber: 456,
			},
		},
		{
			name: "URL without scheme",
			url:  "github.com/orgs/testorg/projects/9",
			want: &ProjectInfo{
				OwnerType:     github.OwnerTypeOrg,
				OwnerLogin:    "testorg",
				ProjectNumber: 9,
			},
		},
		{
			name: "URL with view suffix",
			url:  "https://github.com/orgs/testorg/projects/12/views/3?filterQuery=",
			want: &ProjectInfo{
				OwnerType:     github.OwnerTypeOrg,
				OwnerLogin:    "testorg",
				ProjectNumber: 12,
			},
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: "invalid project URL",
		},
		{
			name:    "non-GitHub URL",
			url:     "https://gitlab.com/orgs/test/projects/123",
			wantErr: "https://gitlab.com/orgs/test/projects/123. Project URL should match the format",
		},
		{
			name:    "http scheme",
			url:     "http://github.com/orgs/test/projects/123",
			wantErr: "invalid project URL",
		},
		{
			name:    "invalid path format",
			url:     "https://github.com/orgs/test/wrong/123",
			wantErr: "invalid project URL",
		},
		{
			name:    "invalid owner type",
			url:     "https://github.com/wrong/test/projects/123",
			wantErr: "invalid project URL",
		},
		{
			name:    "invalid project number",
			url:     "https://github.com/orgs/test/projects/abc",
			wantErr: "invalid project URL",
		},
		{
			name:    "project number overflow",
			url:     "https://github.com/orgs/test/projects/99999999999999999999999",
			wantErr: "invalid project number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.url)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
