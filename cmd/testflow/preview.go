package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/preview"
)

func PreviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Summarize a BPMN, OpenAPI or PlantUML artifact",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, command *cli.Command) error {
			path := command.Args().First()
			if path == "" {
				return fmt.Errorf("a file argument is required")
			}

			previewer, ok := preview.ForFile(path)
			if !ok {
				return fmt.Errorf("no preview available for %s", path)
			}

			src, err := readArtifact(path)
			if err != nil {
				return err
			}

			summary, err := previewer.Preview(src)
			if err != nil {
				return err
			}

			return printJSON(summary)
		},
	}
}
