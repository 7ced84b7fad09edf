//go:generate go run ../tools/schema-generator definitions

package schema

import (
	"encoding/json"

	"github.com/grovetools/agentgate/pkg/queue"
	"github.com/invopop/jsonschema"
)

// EventSchemaID is the resource name the event schema is compiled under.
const EventSchemaID = "agentgate-event.json"

// GenerateEventSchema returns the JSON Schema accepted for one queue line:
// any of the prompt, tool or session-end event shapes.
func GenerateEventSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}

	variants := []interface{}{
		&queue.PromptEvent{},
		&queue.ToolEvent{},
		&queue.SessionEndEvent{},
	}

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "agentgate queued event",
		Description: "One line of .agentgate/telemetry/queue.jsonl.",
	}
	for _, v := range variants {
		s := r.Reflect(v)
		s.Version = ""
		root.AnyOf = append(root.AnyOf, s)
	}

	return json.MarshalIndent(root, "", "  ")
}
