package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/client"
)

func ProjectsCommand() *cli.Command {
	return &cli.Command{
		Name:    "projects",
		Aliases: []string{"p"},
		Usage:   "Manage backend projects",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List projects",
				Action: func(ctx context.Context, command *cli.Command) error {
					c := newClient(command)

					projects, err := c.ListProjects(ctx)
					if err != nil {
						return err
					}

					for _, project := range projects {
						fmt.Printf("%s\t%s\n", project.ID, project.Name)
					}

					return nil
				},
			},
			{
				Name:  "create",
				Usage: "Create a project from an artifact pair",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Project name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "bpmn",
						Usage:    "Path to the BPMN XML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "openapi",
						Usage:    "Path to the OpenAPI JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "puml",
						Usage: "Path to an optional PlantUML file",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					c := newClient(command)

					bpmnXML, err := readArtifact(command.String("bpmn"))
					if err != nil {
						return err
					}

					openAPIJSON, err := readArtifact(command.String("openapi"))
					if err != nil {
						return err
					}

					pumlContent := ""

					if path := command.String("puml"); path != "" {
						pumlContent, err = readArtifact(path)
						if err != nil {
							return err
						}
					}

					project, err := c.CreateProject(ctx, command.String("name"), bpmnXML, openAPIJSON, pumlContent)
					if err != nil {
						return err
					}

					return printJSON(project)
				},
			},
			{
				Name:  "remap",
				Usage: "Re-run the mapping for a project, optionally replacing artifacts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Project id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "bpmn",
						Usage: "Replacement BPMN XML file",
					},
					&cli.StringFlag{
						Name:  "openapi",
						Usage: "Replacement OpenAPI JSON file",
					},
					&cli.StringFlag{
						Name:  "puml",
						Usage: "Replacement PlantUML file",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					c := newClient(command)

					var payload client.RemapPayload

					if path := command.String("bpmn"); path != "" {
						text, err := readArtifact(path)
						if err != nil {
							return err
						}

						payload.BpmnXML = text
					}

					if path := command.String("openapi"); path != "" {
						text, err := readArtifact(path)
						if err != nil {
							return err
						}

						payload.OpenAPIJSON = text
					}

					if path := command.String("puml"); path != "" {
						text, err := readArtifact(path)
						if err != nil {
							return err
						}

						payload.PumlContent = text
					}

					project, err := c.RemapProject(ctx, command.String("id"), payload)
					if err != nil {
						return err
					}

					return printJSON(project)
				},
			},
		},
	}
}
