package preview

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// OpenAPIPreviewer lists the paths and operations of an OpenAPI JSON
// document. The document is only checked for JSON well-formedness, not
// validated against the OpenAPI meta schema.
type OpenAPIPreviewer struct{}

func (p *OpenAPIPreviewer) Format() string { return "openapi" }

var openapiMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

func (p *OpenAPIPreviewer) Preview(src string) (*Preview, error) {
	if _, err := gojsonschema.NewStringLoader(src).LoadJSON(); err != nil {
		return nil, fmt.Errorf("not well-formed JSON: %w", err)
	}

	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]map[string]struct {
			Summary     string `json:"summary"`
			OperationID string `json:"operationId"`
		} `json:"paths"`
	}

	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	paths := make([]string, 0, len(doc.Paths))
	for path := range doc.Paths {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	var operations []string

	for _, path := range paths {
		for _, method := range openapiMethods {
			details, ok := doc.Paths[path][method]
			if !ok {
				continue
			}

			summary := details.Summary
			if summary == "" {
				summary = details.OperationID
			}

			line := fmt.Sprintf("%s %s", strings.ToUpper(method), path)
			if summary != "" {
				line += " - " + summary
			}

			operations = append(operations, line)
		}
	}

	sections := []Section{{Title: "Operations", Items: operations}}
	if doc.Info.Title != "" {
		sections = append([]Section{{
			Title: "Info",
			Items: []string{fmt.Sprintf("%s %s", doc.Info.Title, doc.Info.Version)},
		}}, sections...)
	}

	return &Preview{Format: p.Format(), Sections: sections}, nil
}
