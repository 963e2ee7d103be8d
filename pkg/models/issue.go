package models

import "time"

// IssueCategory classifies an analysis finding.
type IssueCategory string

const (
	IssueInconsistency     IssueCategory = "inconsistency"
	IssueMissingValidation IssueCategory = "missing-validation"
	IssueFailurePoint      IssueCategory = "failure-point"
	IssueAmbiguousText     IssueCategory = "ambiguous-text"
	IssueContractDrift     IssueCategory = "contract-drift"
)

// IssueSeverity orders findings by impact.
type IssueSeverity string

const (
	SeverityInfo     IssueSeverity = "info"
	SeverityWarning  IssueSeverity = "warning"
	SeverityError    IssueSeverity = "error"
	SeverityCritical IssueSeverity = "critical"
)

// IssueState tracks triage of a finding.
type IssueState string

const (
	IssueOpen         IssueState = "open"
	IssueAcknowledged IssueState = "acknowledged"
	IssueResolved     IssueState = "resolved"
	IssueDismissed    IssueState = "dismissed"
)

// AnalysisIssue is one flattened problem found during mapping or AI
// verification. Confidence is a presentational default for report-derived
// issues, not a computed score.
type AnalysisIssue struct {
	ID              string        `json:"id"`
	Category        IssueCategory `json:"category"`
	Severity        IssueSeverity `json:"severity"`
	Confidence      float64       `json:"confidence"`
	Title           string        `json:"title"`
	Details         string        `json:"details"`
	ArtifactID      string        `json:"artifactId,omitempty"`
	SourceRef       string        `json:"sourceRef,omitempty"`
	SuggestedAction string        `json:"suggestedAction,omitempty"`
	Tags            []string      `json:"tags,omitempty"`
	AssignedTo      string        `json:"assignedTo,omitempty"`
	Status          IssueState    `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
}
