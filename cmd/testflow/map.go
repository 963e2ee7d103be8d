package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/transform"
)

func MapCommand() *cli.Command {
	return &cli.Command{
		Name:    "map",
		Aliases: []string{"m"},
		Usage:   "Map a BPMN process onto OpenAPI endpoints",
		Flags: []cli.Flag{
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
				Name:  "scenario-name",
				Usage: "Name for the generated scenario",
			},
			&cli.BoolFlag{
				Name:  "issues",
				Usage: "Print detected analysis issues instead of the scenario",
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

			payload := models.MappingPayload{BpmnXML: bpmnXML, OpenAPIJSON: openAPIJSON}

			mapping, err := c.RequestMapping(ctx, payload)
			if err != nil {
				return err
			}

			fmt.Printf("Mapped %d/%d tasks (confidence %.2f)\n",
				mapping.MatchedTasks, mapping.TotalTasks, mapping.OverallConfidence)

			if command.Bool("issues") {
				return printJSON(transform.IssuesFromMapping(mapping))
			}

			scenario := transform.ScenarioFromMapping(mapping)
			if name := command.String("scenario-name"); name != "" {
				scenario.Name = name
			}

			return printJSON(scenario)
		},
	}
}
