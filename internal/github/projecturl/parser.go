// Package projecturl parses GitHub project (v2) URLs.
package projecturl

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/naag/gh-project-fields/internal/github"
)

// ErrInvalidInput is returned for URLs that do not point at a GitHub project
var ErrInvalidInput = errors.New("invalid project URL")

// ProjectInfo contains the parsed information from a GitHub project URL
type ProjectInfo = github.ProjectInfo

// Anything after the project number (views, query strings) is ignored.
var projectURLPattern = regexp.MustCompile(`^(?:https://)?github\.com/(?P<ownerType>orgs|users)/(?P<ownerName>[^/]+)/projects/(?P<projectNumber>\d+)`)

// Parse takes a GitHub project URL such as https://github.com/orgs/<org>/projects/<n>
// and returns the parsed ProjectInfo
func Parse(projectURL string) (*ProjectInfo, error) {
	m := projectURLPattern.FindStringSubmatch(projectURL)
	if m == nil {
		return nil, invalid(projectURL)
	}

	ownerType, err := github.ParseOwnerType(m[projectURLPattern.SubexpIndex("ownerType")])
	if err != nil {
		return nil, err
	}

	projectNum, err := strconv.Atoi(m[projectURLPattern.SubexpIndex("projectNumber")])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project number: %v", invalid(projectURL), err)
	}

	return &ProjectInfo{
		OwnerType:     ownerType,
		OwnerLogin:    m[projectURLPattern.SubexpIndex("ownerName")],
		ProjectNumber: projectNum,
	}, nil
}

func invalid(projectURL string) error {
	return fmt.Errorf("%w: %s. Project URL should match the format https://github.com/<orgs-or-users>/<ownerName>/projects/<projectNumber>",
		ErrInvalidInput, projectURL)
}
