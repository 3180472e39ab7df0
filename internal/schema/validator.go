// Package schema validates raw candidate payloads against the backend-model
// JSON schema before they are decoded into typed structs.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed backend-model.schema.json
var backendModelSchema string

// Validator checks that a raw payload conforms to the backend-model shape.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded backend-model schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("backend-model.schema.json", strings.NewReader(backendModelSchema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("backend-model.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate returns a descriptive error when the payload violates the schema.
func (v *Validator) Validate(raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("payload does not match backend-model schema: %w", err)
	}
	return nil
}
