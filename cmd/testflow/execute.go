package main

import (
	"context"
	"encoding/json"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/models"
)

func ExecuteCommand() *cli.Command {
	return &cli.Command{
		Name:    "execute",
		Aliases: []string{"x"},
		Usage:   "Execute generated test data against a running system",
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
				Name:     "test-data",
				Usage:    "Path to a generated test data JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "target-url",
				Usage:    "Base URL of the system under test",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "variant",
				Usage: "Test data variant index to execute",
			},
			&cli.BoolFlag{
				Name:  "stop-on-error",
				Usage: "Stop at the first failing step",
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

			testDataJSON, err := readArtifact(command.String("test-data"))
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

			mappingJSON, err := json.Marshal(mapping)
			if err != nil {
				return fmt.Errorf("failed to marshal mapping result: %w", err)
			}

			result, err := c.ExecuteTest(ctx, models.TestExecutionRequest{
				BpmnXML:           bpmnXML,
				OpenAPIJSON:       openAPIJSON,
				TestDataJSON:      testDataJSON,
				MappingResultJSON: string(mappingJSON),
				BaseURL:           command.String("target-url"),
				VariantIndex:      command.Int("variant"),
				StopOnFirstError:  command.Bool("stop-on-error"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Execution finished: %s\n", result.Status)

			return printJSON(result)
		},
	}
}
