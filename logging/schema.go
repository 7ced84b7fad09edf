package logging

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema returns the JSON Schema of the "logging" section of
// agentgate.yml. No field is required.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "agentgate logging configuration"
	schema.Description = "Schema for the 'logging' section of agentgate.yml."
	schema.Required = nil

	return json.MarshalIndent(schema, "", "  ")
}
