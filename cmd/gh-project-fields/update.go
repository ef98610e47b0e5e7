package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naag/gh-project-fields/internal/config"
	"github.com/naag/gh-project-fields/internal/fields"
	"github.com/naag/gh-project-fields/internal/github"
	"github.com/naag/gh-project-fields/internal/telemetry"
	"github.com/naag/gh-project-fields/internal/update"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update field values of a project item",
	Long: `Update field values of a project item.

Every input can also be given as an INPUT_<NAME> environment variable, the way the
GitHub Actions runner passes action inputs, e.g. INPUT_PROJECT-URL. The token falls
back to GITHUB_TOKEN.

Single select and iteration values may be given as an option name, an iteration
start date or a zero-based index in brackets, e.g. [0].`,
	SilenceUsage: true,
	RunE:         runUpdate,
}

func init() {
	config.AddFlags(updateCmd.Flags(),
		config.KeyProjectURL, config.KeyGitHubToken, config.KeyItemID,
		config.KeyFieldKeys, config.KeyFieldValues,
		config.KeyDryRun, config.KeyOutput, config.KeyTrace, config.KeyGraphQLURL, config.KeyEnvFile,
	)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	in, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	format, err := update.ParseFormat(in.Output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	service := update.NewService(client, in.DryRun)
	report, err := service.UpdateFields(ctx, update.Request{
		ProjectURL: in.ProjectURL,
		ItemID:     in.ItemID,
		Fields:     fields.ParseFieldMap(in.FieldKeys, in.FieldValues),
	})
	if report != nil {
		if werr := report.Write(cmd.OutOrStdout(), format); werr != nil {
			slog.Error("failed to write report", "error", werr)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to update fields: %w", err)
	}

	slog.Info("update completed",
		"updated", report.Count(update.OutcomeUpdated),
		"skipped", len(report.Results)-report.Count(update.OutcomeUpdated),
	)
	return nil
}
