package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/poib/testflow/pkg/models"
)

// DefaultRunPollInterval is how often an in-flight execution is re-fetched.
const DefaultRunPollInterval = 500 * time.Millisecond

// TriggerRunPayload is the JSON body of a run trigger.
type TriggerRunPayload struct {
	ScenarioID     string `json:"scenarioId,omitempty"`
	ProjectID      string `json:"projectId,omitempty"`
	Parallelism    int    `json:"parallelism,omitempty"`
	DataTemplateID string `json:"dataTemplateId,omitempty"`
	DryRun         bool   `json:"dryRun,omitempty"`
}

// TriggerScenarioRun starts a remote test run and returns the queued
// execution record.
func (c *Client) TriggerScenarioRun(ctx context.Context, payload TriggerRunPayload) (*models.RunnerExecution, error) {
	execution := &models.RunnerExecution{}

	err := c.postJSON(ctx, "run trigger", "/api/runner/run", payload, execution)
	if err != nil {
		return nil, err
	}

	return execution, nil
}

// RunnerExecution fetches one execution by id.
func (c *Client) RunnerExecution(ctx context.Context, executionID string) (*models.RunnerExecution, error) {
	execution := &models.RunnerExecution{}

	err := c.getJSON(ctx, "runner execution request", "/api/runner/"+url.PathEscape(executionID), execution)
	if err != nil {
		return nil, err
	}

	return execution, nil
}

// RunnerHistory lists past executions, optionally filtered by project.
func (c *Client) RunnerHistory(ctx context.Context, projectID string) ([]models.RunnerExecution, error) {
	path := "/api/runner/history"
	if projectID != "" {
		path += "?projectId=" + url.QueryEscape(projectID)
	}

	var executions []models.RunnerExecution
	if err := c.getJSON(ctx, "runner history request", path, &executions); err != nil {
		return nil, err
	}

	return executions, nil
}

// WatchExecution polls an execution every interval, invoking fn with each
// fetched snapshot, until the execution reaches a terminal status, a poll
// fails or ctx is cancelled. The final snapshot is returned.
func (c *Client) WatchExecution(ctx context.Context, executionID string, interval time.Duration, fn func(*models.RunnerExecution)) (*models.RunnerExecution, error) {
	if interval <= 0 {
		interval = DefaultRunPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			execution, err := c.RunnerExecution(ctx, executionID)
			if err != nil {
				return nil, fmt.Errorf("watch execution %s: %w", executionID, err)
			}

			if fn != nil {
				fn(execution)
			}

			if execution.Status.Terminal() {
				return execution, nil
			}
		}
	}
}

// LogHandler receives one raw websocket log message.
type LogHandler func(message []byte)

// SubscribeRunnerLogs opens the log websocket for an execution and feeds
// every message to handler. The returned closure stops the reader and closes
// the socket; call sites must invoke it when done.
func (c *Client) SubscribeRunnerLogs(executionID string, handler LogHandler) (func(), error) {
	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL(executionID), nil)
	if err != nil {
		return nil, fmt.Errorf("runner log subscription: %w", err)
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}

			handler(message)
		}
	}()

	unsubscribe := func() {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = conn.Close()
		<-done
	}

	return unsubscribe, nil
}
