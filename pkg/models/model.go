// Package models defines the domain models for generated backend services.
package models

import (
	"time"
)

// NodeType classifies the responsibility of a processing node.
type NodeType string

const (
	NodeTypeDataProcessor NodeType = "data-processor"
	NodeTypeValidator     NodeType = "validator"
	NodeTypeExternalAPI   NodeType = "external-api"
	NodeTypeDatabase      NodeType = "database"
	NodeTypeTransformer   NodeType = "transformer"
)

// IOType is the semantic type of a node input/output or endpoint parameter.
type IOType string

const (
	IOTypeString  IOType = "string"
	IOTypeNumber  IOType = "number"
	IOTypeBoolean IOType = "boolean"
	IOTypeObject  IOType = "object"
)

// ParameterLocation says where an endpoint parameter is carried.
type ParameterLocation string

const (
	ParameterInPath   ParameterLocation = "path"
	ParameterInQuery  ParameterLocation = "query"
	ParameterInBody   ParameterLocation = "body"
	ParameterInHeader ParameterLocation = "header"
)

// SupportedMethods are the HTTP verbs a generated endpoint may use,
// in their normalized (upper-case) form.
var SupportedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// NodeIO describes a single typed input or output of a node.
type NodeIO struct {
	Name        string `json:"name"`
	Type        IOType `json:"type"`
	Description string `json:"description,omitempty"`
}

// Node is a single-responsibility processing unit of the generated backend.
type Node struct {
	Name        string   `json:"name"`
	Type        NodeType `json:"type"`
	Description string   `json:"description,omitempty"`
	Inputs      []NodeIO `json:"inputs,omitempty"`
	Outputs     []NodeIO `json:"outputs,omitempty"`
}

// Workflow is an ordered composition of nodes fulfilling one or more
// endpoints. Nodes holds node names; sequence order is execution order.
type Workflow struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Nodes       []string   `json:"nodes,omitempty"`
	Endpoints   []Endpoint `json:"endpoints,omitempty"`
}

// Parameter describes one input of an endpoint.
type Parameter struct {
	Name        string            `json:"name"`
	In          ParameterLocation `json:"in"`
	Required    bool              `json:"required,omitempty"`
	Type        IOType            `json:"type,omitempty"`
	Description string            `json:"description,omitempty"`
}

// Response describes one possible endpoint response.
type Response struct {
	Status      int            `json:"status"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// Endpoint is an HTTP-exposed operation of the generated backend.
type Endpoint struct {
	Path        string      `json:"path"`
	Method      string      `json:"method"`
	Description string      `json:"description,omitempty"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Responses   []Response  `json:"responses,omitempty"`
}

// BackendModel is the canonical, validated representation of a generated
// service. It is immutable once assembled; regeneration produces a new model.
type BackendModel struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Version     string     `json:"version"`
	Nodes       []Node     `json:"nodes,omitempty"`
	Workflows   []Workflow `json:"workflows,omitempty"`
	Endpoints   []Endpoint `json:"endpoints,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// HasNode reports whether a node with the given name is defined.
func (m *BackendModel) HasNode(name string) bool {
	for _, n := range m.Nodes {
		if n.Name == name {
			return true
		}
	}
	return false
}

// NodeCount returns the number of defined nodes.
func (m *BackendModel) NodeCount() int { return len(m.Nodes) }

// WorkflowCount returns the number of defined workflows.
func (m *BackendModel) WorkflowCount() int { return len(m.Workflows) }

// EndpointCount returns the number of defined endpoints.
func (m *BackendModel) EndpointCount() int { return len(m.Endpoints) }
