package models

// AIJobStatus is the state of an asynchronous AI verification job.
type AIJobStatus string

const (
	AIJobQueued    AIJobStatus = "queued"
	AIJobRunning   AIJobStatus = "running"
	AIJobCompleted AIJobStatus = "completed"
	AIJobError     AIJobStatus = "error"
)

// Terminal reports whether polling for this job should stop.
func (s AIJobStatus) Terminal() bool {
	return s == AIJobCompleted || s == AIJobError
}

// AIJob is the status record of one verification job.
type AIJob struct {
	ID         string                `json:"id,omitempty"`
	Status     AIJobStatus           `json:"status"`
	Result     *AIVerificationReport `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
	CreatedAt  string                `json:"createdAt,omitempty"`
	StartedAt  string                `json:"startedAt,omitempty"`
	FinishedAt string                `json:"finishedAt,omitempty"`
	ModelName  string                `json:"modelName,omitempty"`
	ProjectID  string                `json:"projectId,omitempty"`
}

// AIModel identifies one model the verification service can run.
type AIModel struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
