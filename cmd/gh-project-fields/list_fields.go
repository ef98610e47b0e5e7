package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/naag/gh-project-fields/internal/config"
	"github.com/naag/gh-project-fields/internal/github"
	"github.com/naag/gh-project-fields/internal/telemetry"
	"github.com/naag/gh-project-fields/internal/update"
)

var listFieldsCmd = &cobra.Command{
	Use:          "list-fields",
	Short:        "List the fields of a project with their options and iterations",
	SilenceUsage: true,
	RunE:         runListFields,
}

func init() {
	config.AddFlags(listFieldsCmd.Flags(),
		config.KeyProjectURL, config.KeyGitHubToken,
		config.KeyOutput, config.KeyTrace, config.KeyGraphQLURL, config.KeyEnvFile,
	)
}

func runListFields(cmd *cobra.Command, args []string) error {
	in, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := in.Require(config.KeyProjectURL, config.KeyGitHubToken); err != nil {
		return err
	}
	format, err := update.ParseFormat(in.Output)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := telemetry.Init(ctx, in.Trace, cmd.ErrOrStderr(), "gh-project-fields", version); err != nil {
		return err
	}
	defer func() {
		if err := telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to flush telemetry", "error", err)
		}
	}()

	client, err := github.NewGraphQLClient(in.GitHubToken, in.GraphQLURL, verboseLevel >= 2)
	if err != nil {
		return fmt.Errorf("failed to initialize GitHub client: %w", err)
	}

	defs, err := update.NewService(client, false).Fields(ctx, in.ProjectURL)
	if err != nil {
		return fmt.Errorf("failed to list fields: %w", err)
	}
	return update.WriteFields(cmd.OutOrStdout(), defs, format)
}
