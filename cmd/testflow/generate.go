package main

import (
	"context"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/models"
)

func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate test data variants for a mapped artifact pair",
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
				Name:  "type",
				Usage: "Generation type (CLASSIC or AI)",
				Value: "CLASSIC",
			},
			&cli.StringFlag{
				Name:  "scenario",
				Usage: "Scenario label (positive, negative, boundary)",
				Value: "positive",
			},
			&cli.IntFlag{
				Name:  "variants",
				Usage: "Number of variants to generate",
				Value: 1,
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

			mapping, err := c.RequestMapping(ctx, models.MappingPayload{
				BpmnXML:     bpmnXML,
				OpenAPIJSON: openAPIJSON,
			})
			if err != nil {
				return err
			}

			result, err := c.GenerateTestData(ctx, models.TestDataGenerationRequest{
				GenerationType: command.String("type"),
				MappingResult:  mapping,
				OpenAPIJSON:    openAPIJSON,
				Scenario:       command.String("scenario"),
				VariantsCount:  command.Int("variants"),
			})
			if err != nil {
				return err
			}

			return printJSON(result)
		},
	}
}
