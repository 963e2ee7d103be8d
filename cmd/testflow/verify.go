package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/models"
)

func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:    "verify",
		Aliases: []string{"v"},
		Usage:   "Run AI verification over an artifact pair",
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
			&cli.IntFlag{
				Name:  "model",
				Usage: "Backend model id to verify with",
			},
			&cli.StringFlag{
				Name:  "project-id",
				Usage: "Attach the verification to a project",
			},
			&cli.BoolFlag{
				Name:  "no-wait",
				Usage: "Start the job and print its id without polling",
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

			var modelID *int

			if command.IsSet("model") {
				id := command.Int("model")
				modelID = &id
			}

			payload := models.MappingPayload{BpmnXML: bpmnXML, OpenAPIJSON: openAPIJSON}

			jobID, err := c.StartAIVerification(ctx, payload, modelID, command.String("project-id"))
			if err != nil {
				return err
			}

			if command.Bool("no-wait") {
				fmt.Println(jobID)

				return nil
			}

			job, err := c.PollAIJob(ctx, jobID, client.DefaultAIPollInterval)
			if err != nil {
				return err
			}

			if job.Status != models.AIJobCompleted {
				return fmt.Errorf("verification job %s finished as %s: %s", job.ID, job.Status, job.Error)
			}

			return printJSON(job.Result)
		},
	}
}
