// Package spec projects a backend model into a simplified OpenAPI 3.0
// document.
package spec

// Document is a simplified OpenAPI 3.0 specification.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers"`
	Paths      map[string]PathItem `json:"paths"`
	Components *Components         `json:"components,omitempty"`
}

// Info describes the specified API.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// Server is one server the API is reachable on.
type Server struct {
	URL string `json:"url"`
}

// PathItem maps lower-cased HTTP methods to operations.
type PathItem map[string]*Operation

// Operation is one method on one path.
type Operation struct {
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Parameter is a positional (path/query/header) operation parameter.
type Parameter struct {
	Name        string     `json:"name"`
	In          string     `json:"in"`
	Required    bool       `json:"required,omitempty"`
	Description string     `json:"description,omitempty"`
	Schema      TypeSchema `json:"schema"`
}

// TypeSchema is the minimal schema object used for parameters.
type TypeSchema struct {
	Type string `json:"type"`
}

// RequestBody is the merged body descriptor of an operation.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required,omitempty"`
	Content     map[string]MediaType `json:"content"`
}

// MediaType carries the schema for one content type.
type MediaType struct {
	Schema any `json:"schema"`
}

// Response describes one response status.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Components holds reusable schema objects.
type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}
