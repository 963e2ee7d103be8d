package models

import "time"

// ArtifactType classifies an uploaded file.
type ArtifactType string

const (
	ArtifactTypeBpmn     ArtifactType = "bpmn"
	ArtifactTypeOpenAPI  ArtifactType = "openapi"
	ArtifactTypeMarkdown ArtifactType = "markdown"
	ArtifactTypePostman  ArtifactType = "postman"
	ArtifactTypeText     ArtifactType = "text"
)

// ArtifactStatus tracks an artifact through the mapping pipeline.
type ArtifactStatus string

const (
	ArtifactStatusPending    ArtifactStatus = "pending"
	ArtifactStatusProcessing ArtifactStatus = "processing"
	ArtifactStatusReady      ArtifactStatus = "ready"
	ArtifactStatusError      ArtifactStatus = "error"
)

// ArtifactSummary holds headline numbers extracted while processing an upload.
type ArtifactSummary struct {
	Tasks      int `json:"tasks,omitempty"`
	Endpoints  int `json:"endpoints,omitempty"`
	Warnings   int `json:"warnings,omitempty"`
	Errors     int `json:"errors,omitempty"`
	SizeKB     int `json:"sizeKB,omitempty"`
	DurationMs int `json:"durationMs,omitempty"`
}

// ArtifactSource records where an artifact came from.
type ArtifactSource struct {
	Kind      string `json:"kind"` // upload, repository, ci, sample
	Reference string `json:"reference,omitempty"`
	Branch    string `json:"branch,omitempty"`
}

// Artifact is the metadata record of one uploaded file.
type Artifact struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Type         ArtifactType     `json:"type"`
	Status       ArtifactStatus   `json:"status"`
	UploadedAt   time.Time        `json:"uploadedAt"`
	Source       ArtifactSource   `json:"source"`
	Summary      *ArtifactSummary `json:"summary,omitempty"`
	Progress     int              `json:"progress,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}
