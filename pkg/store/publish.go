package store

import (
	"github.com/poib/testflow/pkg/events"
	"github.com/poib/testflow/pkg/models"
)

func storeErrorEvent(message string) events.StoreError {
	return events.StoreError{
		BaseEvent: events.NewBaseEvent(events.StoreErrorEvent),
		Message:   message,
	}
}

func mappingCompletedEvent(scenario *models.TestScenario, mapping *models.MappingResult) events.MappingCompleted {
	return events.MappingCompleted{
		BaseEvent:    events.NewBaseEvent(events.MappingCompletedEvent),
		ScenarioID:   scenario.ID,
		TotalTasks:   mapping.TotalTasks,
		MatchedTasks: mapping.MatchedTasks,
		Coverage:     scenario.Coverage,
	}
}

func scenarioUpdatedEvent(scenario *models.TestScenario) events.ScenarioUpdated {
	return events.ScenarioUpdated{
		BaseEvent:  events.NewBaseEvent(events.ScenarioUpdatedEvent),
		ScenarioID: scenario.ID,
		StepCount:  len(scenario.Steps),
	}
}

func graphUpdatedEvent(nodeCount, edgeCount int) events.GraphUpdated {
	return events.GraphUpdated{
		BaseEvent: events.NewBaseEvent(events.GraphUpdatedEvent),
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
}

func templatesGeneratedEvent(templates []models.TestDataTemplate, scenario string) events.TemplatesGenerated {
	ids := make([]string, len(templates))
	for i, template := range templates {
		ids[i] = template.ID
	}

	return events.TemplatesGenerated{
		BaseEvent:   events.NewBaseEvent(events.TemplatesGeneratedEvent),
		TemplateIDs: ids,
		Scenario:    scenario,
	}
}

func executionUpsertedEvent(execution *models.RunnerExecution) events.ExecutionUpserted {
	return events.ExecutionUpserted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionUpsertedEvent),
		ExecutionID: execution.ID,
		Status:      execution.Status,
		Progress:    execution.Progress,
	}
}

func logAppendedEvent(executionID string, entry models.LogEntry) events.ExecutionLogAppended {
	return events.ExecutionLogAppended{
		BaseEvent:   events.NewBaseEvent(events.ExecutionLogAppendedEvent),
		ExecutionID: executionID,
		Entry:       entry,
	}
}

func nodeMovedEvent(nodeID string, position models.Position) events.NodePositionChanged {
	return events.NodePositionChanged{
		BaseEvent: events.NewBaseEvent(events.NodePositionChangedEvent),
		NodeID:    nodeID,
		Position:  position,
	}
}

func aiCompletedEvent(jobID string, report *models.AIVerificationReport) events.AIVerificationCompleted {
	event := events.AIVerificationCompleted{
		BaseEvent: events.NewBaseEvent(events.AIVerificationCompletedEvent),
		JobID:     jobID,
	}
	if report != nil {
		event.OverallStatus = report.OverallStatus
		event.TotalWarnings = report.TotalWarnings
	}

	return event
}
