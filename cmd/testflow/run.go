package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/models"
)

func RunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Trigger a test run on the backend runner",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scenario-id",
				Usage: "Scenario to run",
			},
			&cli.StringFlag{
				Name:  "project-id",
				Usage: "Project to run",
			},
			&cli.IntFlag{
				Name:  "parallelism",
				Usage: "Number of steps to run in parallel",
			},
			&cli.StringFlag{
				Name:  "template-id",
				Usage: "Test data template to run with",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate the run without calling the system under test",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Poll the execution until it finishes",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			c := newClient(command)

			scenarioID := command.String("scenario-id")
			projectID := command.String("project-id")

			if scenarioID == "" && projectID == "" {
				return fmt.Errorf("either --scenario-id or --project-id is required")
			}

			execution, err := c.TriggerScenarioRun(ctx, client.TriggerRunPayload{
				ScenarioID:     scenarioID,
				ProjectID:      projectID,
				Parallelism:    command.Int("parallelism"),
				DataTemplateID: command.String("template-id"),
				DryRun:         command.Bool("dry-run"),
			})
			if err != nil {
				return err
			}

			if !command.Bool("watch") {
				return printJSON(execution)
			}

			final, err := c.WatchExecution(ctx, execution.ID, client.DefaultRunPollInterval,
				func(update *models.RunnerExecution) {
					fmt.Printf("%s %.0f%%\n", update.Status, update.Progress*100)
				})
			if err != nil {
				return err
			}

			return printJSON(final)
		},
	}
}

func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past runner executions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "project-id",
				Usage: "Filter executions by project",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			c := newClient(command)

			executions, err := c.RunnerHistory(ctx, command.String("project-id"))
			if err != nil {
				return err
			}

			return printJSON(executions)
		},
	}
}

func ModelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List AI verification models",
		Action: func(ctx context.Context, command *cli.Command) error {
			c := newClient(command)

			aiModels, err := c.AIModels(ctx)
			if err != nil {
				return err
			}

			return printJSON(aiModels)
		},
	}
}
