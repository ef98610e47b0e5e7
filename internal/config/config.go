// Package config loads the tool's inputs from flags, GitHub Actions input
// environment variables (INPUT_<NAME>) and an optional dotenv file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Input keys. The names match the action's inputs and must not change.
const (
	KeyProjectURL  = "project-url"
	KeyGitHubToken = "github-token"
	KeyItemID      = "item-id"
	KeyFieldKeys   = "field-keys"
	KeyFieldValues = "field-values"

	KeyDryRun     = "dry-run"
	KeyOutput     = "output"
	KeyTrace      = "trace"
	KeyGraphQLURL = "graphql-url"
	KeyEnvFile    = "env-file"
)

const (
	envPrefix        = "INPUT"
	defaultEnvFile   = ".env"
	fallbackTokenEnv = "GITHUB_TOKEN"
)

var allKeys = []string{
	KeyProjectURL, KeyGitHubToken, KeyItemID, KeyFieldKeys, KeyFieldValues,
	KeyDryRun, KeyOutput, KeyTrace, KeyGraphQLURL,
}

// envNames returns the environment variables a key is read from: the Actions
// runner's INPUT_PROJECT-URL form and INPUT_PROJECT_URL, which dotenv files can hold.
func envNames(key string) []string {
	name := envPrefix + "_" + strings.ToUpper(key)
	return []string{name, strings.ReplaceAll(name, "-", "_")}
}

// ErrMissingInput is returned when a required input is empty
var ErrMissingInput = errors.New("input required and not supplied")

// Inputs holds everything one run needs
type Inputs struct {
	ProjectURL  string
	GitHubToken string
	ItemID      string
	FieldKeys   string
	FieldValues string

	DryRun     bool
	Output     string
	Trace      bool
	GraphQLURL string
}

// AddFlags registers the inputs as flags. Only the flags a command needs are added;
// keys without a flag are still read from the environment.
func AddFlags(fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		switch key {
		case KeyProjectURL:
			fs.String(key, "", "Project URL (e.g., https://github.com/orgs/org/projects/123)")
		case KeyGitHubToken:
			fs.String(key, "", "GitHub token (defaults to $GITHUB_TOKEN)")
		case KeyItemID:
			fs.String(key, "", "Node ID of the project item to update")
		case KeyFieldKeys:
			fs.String(key, "", "Comma-separated field names")
		case KeyFieldValues:
			fs.String(key, "", "Comma-separated field values, paired with field-keys by position")
		case KeyDryRun:
			fs.Bool(key, false, "Resolve values without updating the item")
		case KeyOutput:
			fs.StringP(key, "o", "text", "Report format: text, json or yaml")
		case KeyTrace:
			fs.Bool(key, false, "Write OpenTelemetry spans and metrics to stderr")
		case KeyGraphQLURL:
			fs.String(key, "", "GraphQL endpoint (defaults to https://api.github.com/graphql)")
		case KeyEnvFile:
			fs.String(key, defaultEnvFile, "Dotenv file to load inputs from, ignored if missing")
		}
	}
}

// Load reads the inputs. Values come from, in order of precedence: flags that were set
// on the command line, INPUT_<KEY> environment variables (GITHUB_TOKEN for the token)
// including those set by the dotenv file, then flag defaults. A missing dotenv file
// is not an error.
func Load(flags *pflag.FlagSet) (*Inputs, error) {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	envFile := v.GetString(KeyEnvFile)
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	for _, key := range allKeys {
		names := envNames(key)
		if key == KeyGitHubToken {
			names = append(names, fallbackTokenEnv)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return &Inputs{
		ProjectURL:  v.GetString(KeyProjectURL),
		GitHubToken: v.GetString(KeyGitHubToken),
		ItemID:      v.GetString(KeyItemID),
		FieldKeys:   v.GetString(KeyFieldKeys),
		FieldValues: v.GetString(KeyFieldValues),
		DryRun:      v.GetBool(KeyDryRun),
		Output:      v.GetString(KeyOutput),
		Trace:       v.GetBool(KeyTrace),
		GraphQLURL:  v.GetString(KeyGraphQLURL),
	}, nil
}

// Validate checks that all inputs required for an update are present
func (in *Inputs) Validate() error {
	return in.Require(KeyProjectURL, KeyGitHubToken, KeyItemID, KeyFieldKeys, KeyFieldValues)
}

// Require checks that the given inputs are non-empty
func (in *Inputs) Require(keys ...string) error {
	values := map[string]string{
		KeyProjectURL:  in.ProjectURL,
		KeyGitHubToken: in.GitHubToken,
		KeyItemID:      in.ItemID,
		KeyFieldKeys:   in.FieldKeys,
		KeyFieldValues: in.FieldValues,
		KeyOutput:      in.Output,
		KeyGraphQLURL:  in.GraphQLURL,
	}
	for _, key := range keys {
		if values[key] == "" {
			return fmt.Errorf("%w: %s", ErrMissingInput, key)
		}
	}
	return nil
}
