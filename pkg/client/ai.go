package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/poib/testflow/pkg/models"
)

// DefaultAIPollInterval is how often AI job status is polled.
const DefaultAIPollInterval = 2 * time.Second

// StartAIVerification submits both artifacts for asynchronous AI
// verification and returns the job id. modelID and projectID are optional.
func (c *Client) StartAIVerification(ctx context.Context, payload models.MappingPayload, modelID *int, projectID string) (string, error) {
	if err := c.validate.Struct(payload); err != nil {
		return "", fmt.Errorf("ai verification start: %w", err)
	}

	fields := map[string]string{
		"bpmnXml":     payload.BpmnXML,
		"openApiJson": payload.OpenAPIJSON,
	}
	if modelID != nil {
		fields["modelId"] = strconv.Itoa(*modelID)
	}

	if projectID != "" {
		fields["projectId"] = projectID
	}

	var response struct {
		JobID string `json:"jobId"`
	}

	err := c.postForm(ctx, "ai verification start", "/api/ai/verify", fields, &response)
	if err != nil {
		return "", err
	}

	if response.JobID == "" {
		return "", errors.New("ai verification start: backend returned empty job id")
	}

	return response.JobID, nil
}

// AIStatus fetches the status record of one verification job.
func (c *Client) AIStatus(ctx context.Context, jobID string) (*models.AIJob, error) {
	job := &models.AIJob{}

	err := c.getJSON(ctx, "ai status request", "/api/ai/status/"+url.PathEscape(jobID), job)
	if err != nil {
		return nil, err
	}

	return job, nil
}

// ListAIJobs returns verification jobs recorded for a project.
func (c *Client) ListAIJobs(ctx context.Context, projectID string) ([]models.AIJob, error) {
	var response struct {
		Jobs []models.AIJob `json:"jobs"`
	}

	path := "/api/ai/jobs?projectId=" + url.QueryEscape(projectID)
	if err := c.getJSON(ctx, "ai jobs list request", path, &response); err != nil {
		return nil, err
	}

	return response.Jobs, nil
}

// AIModels lists the models the verification service can run.
func (c *Client) AIModels(ctx context.Context) ([]models.AIModel, error) {
	var response struct {
		Models []models.AIModel `json:"models"`
	}

	if err := c.getJSON(ctx, "ai models request", "/api/ai/models", &response); err != nil {
		return nil, err
	}

	return response.Models, nil
}

// PollAIJob polls a job every interval until it reaches a terminal status or
// ctx is cancelled. Transient poll errors are logged and skipped; the loop
// keeps going until a terminal answer or cancellation.
func (c *Client) PollAIJob(ctx context.Context, jobID string, interval time.Duration) (*models.AIJob, error) {
	if interval <= 0 {
		interval = DefaultAIPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			job, err := c.AIStatus(ctx, jobID)
			if err != nil {
				c.logger.Warn("ai status poll failed", "job_id", jobID, "error", err)

				continue
			}

			if job.Status.Terminal() {
				return job, nil
			}
		}
	}
}
