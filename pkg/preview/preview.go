// Package preview builds best-effort summaries of uploaded artifacts for
// display next to the canvas. These are naive scans, not conformance
// parsers; a preview that comes out empty or wrong is acceptable and must
// never leak into mapping or store state.
package preview

import (
	"path/filepath"
	"strings"
)

// Section is one titled group of extracted lines.
type Section struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Preview is the rendered summary of a single artifact.
type Preview struct {
	Format   string    `json:"format"`
	Sections []Section `json:"sections"`
}

// Previewer summarizes one artifact format.
type Previewer interface {
	Format() string
	Preview(src string) (*Preview, error)
}

var previewers = map[string]Previewer{
	".bpmn": &BPMNPreviewer{},
	".xml":  &BPMNPreviewer{},
	".json": &OpenAPIPreviewer{},
	".yaml": &OpenAPIPreviewer{},
	".yml":  &OpenAPIPreviewer{},
	".puml": &PlantUMLPreviewer{},
}

// ForFile picks a previewer by file extension.
func ForFile(name string) (Previewer, bool) {
	previewer, ok := previewers[strings.ToLower(filepath.Ext(name))]
	return previewer, ok
}
