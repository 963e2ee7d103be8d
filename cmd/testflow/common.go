package main

import (
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/poib/testflow/pkg/client"
	"github.com/poib/testflow/pkg/decode"
	"github.com/poib/testflow/pkg/log"
)

func newClient(command *cli.Command) *client.Client {
	log.Setup(command.String("log-level"))

	return client.New(command.String("backend-url"), client.WithLogger(log.WithModule("cli")))
}

// readArtifact loads a file with charset sniffing so BPMN exports in legacy
// encodings survive the trip.
func readArtifact(path string) (string, error) {
	text, err := decode.SniffFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return text, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
