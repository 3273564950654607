// Package wireschema validates the shape of the JSON bodies exchanged with
// the agency backend.
package wireschema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

const catalogSchemaJSON = `{
  "type": "object",
  "required": ["agents", "tools"],
  "properties": {
    "agents": { "type": "array", "items": { "type": "string" } },
    "tools": { "type": "array", "items": { "type": "string" } }
  }
}`

// Item kinds are not enumerated here; kind policy belongs to the drop target.
const createAgencySchemaJSON = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "kind"],
        "properties": {
          "name": { "type": "string" },
          "kind": { "type": "string" }
        }
      }
    }
  }
}`

var (
	catalogOnce   sync.Once
	catalogSchema *jsonschema.Resolved
	catalogErr    error
	createOnce    sync.Once
	createSchema  *jsonschema.Resolved
	createErr     error
)

// ValidateCatalog checks a components response body.
func ValidateCatalog(payload []byte) error {
	catalogOnce.Do(func() {
		catalogSchema, catalogErr = compile(catalogSchemaJSON)
	})
	if catalogErr != nil {
		return catalogErr
	}
	return validate(catalogSchema, payload)
}

// ValidateCreateAgency checks a create-agency request body.
func ValidateCreateAgency(payload []byte) error {
	createOnce.Do(func() {
		createSchema, createErr = compile(createAgencySchemaJSON)
	})
	if createErr != nil {
		return createErr
	}
	return validate(createSchema, payload)
}

func compile(schemaJSON string) (*jsonschema.Resolved, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(schemaJSON), &schema); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return resolved, nil
}

func validate(schema *jsonschema.Resolved, payload []byte) error {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("validate body: %w", err)
	}
	return nil
}
