// Package events defines event types published on store mutations so
// consumers (dashboard, CLI watchers, tests) can react without polling.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/poib/testflow/pkg/models"
)

type EventType string

const Topic = "testflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	MappingCompletedEvent        EventType = "mapping.completed"
	AIVerificationCompletedEvent EventType = "ai.verification.completed"
	ScenarioUpdatedEvent         EventType = "scenario.updated"
	GraphUpdatedEvent            EventType = "graph.updated"
	TemplatesGeneratedEvent      EventType = "templates.generated"
	ExecutionUpsertedEvent       EventType = "execution.upserted"
	ExecutionLogAppendedEvent    EventType = "execution.log.appended"
	NodePositionChangedEvent     EventType = "node.position.changed"
	StoreErrorEvent              EventType = "store.error"
)

// Types lists every event type published by the store, for consumers that
// subscribe to the whole stream.
func Types() []EventType {
	return []EventType{
		MappingCompletedEvent,
		AIVerificationCompletedEvent,
		ScenarioUpdatedEvent,
		GraphUpdatedEvent,
		TemplatesGeneratedEvent,
		ExecutionUpsertedEvent,
		ExecutionLogAppendedEvent,
		NodePositionChangedEvent,
		StoreErrorEvent,
	}
}

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

type MappingCompleted struct {
	BaseEvent

	ScenarioID   string  `json:"scenario_id"`
	TotalTasks   int     `json:"total_tasks"`
	MatchedTasks int     `json:"matched_tasks"`
	Coverage     float64 `json:"coverage"`
}

func (e MappingCompleted) GetType() EventType { return MappingCompletedEvent }

type AIVerificationCompleted struct {
	BaseEvent

	JobID         string `json:"job_id"`
	OverallStatus string `json:"overall_status,omitempty"`
	TotalWarnings int    `json:"total_warnings,omitempty"`
}

func (e AIVerificationCompleted) GetType() EventType { return AIVerificationCompletedEvent }

type ScenarioUpdated struct {
	BaseEvent

	ScenarioID string `json:"scenario_id"`
	StepCount  int    `json:"step_count"`
}

func (e ScenarioUpdated) GetType() EventType { return ScenarioUpdatedEvent }

type GraphUpdated struct {
	BaseEvent

	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

func (e GraphUpdated) GetType() EventType { return GraphUpdatedEvent }

type TemplatesGenerated struct {
	BaseEvent

	TemplateIDs []string `json:"template_ids"`
	Scenario    string   `json:"scenario"`
}

func (e TemplatesGenerated) GetType() EventType { return TemplatesGeneratedEvent }

type ExecutionUpserted struct {
	BaseEvent

	ExecutionID string              `json:"execution_id"`
	Status      models.RunnerStatus `json:"status"`
	Progress    float64             `json:"progress"`
}

func (e ExecutionUpserted) GetType() EventType { return ExecutionUpsertedEvent }

type ExecutionLogAppended struct {
	BaseEvent

	ExecutionID string          `json:"execution_id"`
	Entry       models.LogEntry `json:"entry"`
}

func (e ExecutionLogAppended) GetType() EventType { return ExecutionLogAppendedEvent }

type NodePositionChanged struct {
	BaseEvent

	NodeID   string          `json:"node_id"`
	Position models.Position `json:"position"`
}

func (e NodePositionChanged) GetType() EventType { return NodePositionChangedEvent }

type StoreError struct {
	BaseEvent

	Message string `json:"message"`
}

func (e StoreError) GetType() EventType { return StoreErrorEvent }
