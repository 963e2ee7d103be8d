// Package main provides the testflow command line interface.
package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "testflow",
		Usage:                 "Map BPMN processes onto OpenAPI test scenarios and run them",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend-url",
				Usage:   "Mapping backend base URL",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("TESTFLOW_BACKEND_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			MapCommand(),
			PreviewCommand(),
			VerifyCommand(),
			GenerateCommand(),
			RunCommand(),
			HistoryCommand(),
			ModelsCommand(),
			ProjectsCommand(),
			ExecuteCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
