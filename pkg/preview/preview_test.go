package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBPMN = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <bpmn:process id="order">
    <bpmn:startEvent id="start"/>
    <bpmn:task id="t1" name="Create order"/>
    <bpmn:task id="t2"/>
    <bpmn:exclusiveGateway id="g1" name="Paid?"/>
    <bpmn:sequenceFlow id="f1" sourceRef="t1" targetRef="g1"/>
    <bpmn:endEvent id="end"/>
  </bpmn:process>
</bpmn:definitions>`

func TestBPMNPreview(t *testing.T) {
	preview, err := (&BPMNPreviewer{}).Preview(sampleBPMN)
	require.NoError(t, err)

	assert.Equal(t, "bpmn", preview.Format)
	require.Len(t, preview.Sections, 4)
	assert.Equal(t, []string{"Create order", "Task 2"}, preview.Sections[0].Items)
	assert.Equal(t, []string{"Paid?"}, preview.Sections[1].Items)
	assert.Equal(t, []string{"startEvent", "endEvent"}, preview.Sections[2].Items)
	assert.Equal(t, []string{"t1 -> g1"}, preview.Sections[3].Items)
}

func TestBPMNPreviewRejectsNonProcessXML(t *testing.T) {
	_, err := (&BPMNPreviewer{}).Preview("<html><body/></html>")
	assert.Error(t, err)
}

func TestOpenAPIPreview(t *testing.T) {
	src := `{
	  "info": {"title": "Orders", "version": "1.2"},
	  "paths": {
	    "/orders": {
	      "post": {"summary": "Create order"},
	      "get": {"operationId": "listOrders"}
	    },
	    "/orders/{id}": {"delete": {}}
	  }
	}`

	preview, err := (&OpenAPIPreviewer{}).Preview(src)
	require.NoError(t, err)

	require.Len(t, preview.Sections, 2)
	assert.Equal(t, []string{"Orders 1.2"}, preview.Sections[0].Items)
	assert.Equal(t, []string{
		"GET /orders - listOrders",
		"POST /orders - Create order",
		"DELETE /orders/{id}",
	}, preview.Sections[1].Items)
}

func TestOpenAPIPreviewRejectsMalformedJSON(t *testing.T) {
	_, err := (&OpenAPIPreviewer{}).Preview(`{"paths": `)
	assert.Error(t, err)
}

func TestPlantUMLPreview(t *testing.T) {
	src := `@startuml
participant "Order Service" as os
actor Customer
' a comment
Customer -> os: create order
os --> Customer: 201 Created
@enduml`

	preview, err := (&PlantUMLPreviewer{}).Preview(src)
	require.NoError(t, err)

	require.Len(t, preview.Sections, 2)
	assert.Equal(t, []string{"Order Service", "Customer"}, preview.Sections[0].Items)
	assert.Equal(t, []string{
		"Customer -> os: create order",
		"os --> Customer: 201 Created",
	}, preview.Sections[1].Items)
}

func TestPlantUMLPreviewEmpty(t *testing.T) {
	_, err := (&PlantUMLPreviewer{}).Preview("@startuml\n@enduml")
	assert.Error(t, err)
}

func TestForFile(t *testing.T) {
	for name, format := range map[string]string{
		"process.bpmn": "bpmn",
		"process.XML":  "bpmn",
		"api.json":     "openapi",
		"flow.puml":    "plantuml",
	} {
		previewer, ok := ForFile(name)
		require.True(t, ok, name)
		assert.Equal(t, format, previewer.Format())
	}

	_, ok := ForFile("readme.md")
	assert.False(t, ok)
}
