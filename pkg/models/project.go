package models

import "time"

// Project is the backend project DTO: the stored artifact pair plus the last
// mapping result.
type Project struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"        validate:"required"`
	BpmnXML       string         `json:"bpmnXml"`
	OpenAPIJSON   string         `json:"openApiJson"`
	PumlContent   *string        `json:"pumlContent,omitempty"`
	MappingResult *MappingResult `json:"mappingResult,omitempty"`
}

// Favorite marks a project pinned by the user. Favorites live in the local
// side-channel store, not on the backend.
type Favorite struct {
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	PinnedAt  time.Time `json:"pinnedAt"`
}
