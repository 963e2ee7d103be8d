package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/cmd"
	"github.com/poib/testflow/pkg/log"
	"github.com/poib/testflow/pkg/otelhelper"
	"github.com/poib/testflow/pkg/schedule"
	"github.com/poib/testflow/pkg/store"
)

const defaultPort = 9090

func main() {
	command := &cli.Command{
		Name:                  "testflow-dashboard",
		Usage:                 "Serve the testflow state store and canvas over HTTP",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the dashboard server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "backend-url",
				Usage:   "Mapping backend base URL",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("TESTFLOW_BACKEND_URL"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Persistence URL for favorites and project snapshots",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "schedule-cron",
				Usage:   "Optional cron expression for recurring runs",
				Sources: cli.EnvVars("SCHEDULE_CRON"),
			},
			&cli.StringFlag{
				Name:    "schedule-scenario-id",
				Usage:   "Scenario to run on the recurring schedule",
				Sources: cli.EnvVars("SCHEDULE_SCENARIO_ID"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces",
				Sources: cli.EnvVars("TESTFLOW_TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("dashboard")

	logger.InfoContext(ctx, "Initializing testflow dashboard")

	clientOpts := []client.Option{client.WithLogger(logger)}
	storeOpts := []store.Option{store.WithLogger(logger)}

	if command.Bool("tracing") {
		tracer, err := otelhelper.NewTracer(ctx, "testflow-dashboard")
		if err != nil {
			logger.ErrorContext(ctx, "Failed to initialize tracer", "error", err)
		} else {
			clientOpts = append(clientOpts, client.WithTracer(tracer))
			storeOpts = append(storeOpts, store.WithTracer(tracer))
		}
	}

	backend := client.New(command.String("backend-url"), clientOpts...)

	eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	appStore := store.New(backend, eventBus, storeOpts...)
	defer appStore.Close()

	appStore.LoadAIModels(ctx)

	if cronExpr := command.String("schedule-cron"); cronExpr != "" {
		scheduler := schedule.NewScheduler(appStore, logger)

		err := scheduler.Add(cronExpr, command.String("schedule-scenario-id"), store.RunOptions{})
		if err != nil {
			return err
		}

		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	api, err := NewAPI(logger, appStore, backend, persistence, eventBus)
	if err != nil {
		return err
	}

	if err := eventBus.Subscribe(ctx); err != nil {
		return err
	}

	err = api.Start(command.Int("port"))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to start dashboard server", "error", err)
	}

	return nil
}
