package spec

import (
	"strconv"
	"strings"

	"backgen/pkg/models"
)

// Project maps a backend model into a specification document. It is total:
// documentation generation must never block serving, so on an internal
// inconsistency it degrades to a minimal valid empty specification instead
// of propagating an error.
func Project(m *models.BackendModel) (doc *Document) {
	doc = emptyDocument()
	defer func() {
		if r := recover(); r != nil {
			doc = emptyDocument()
		}
	}()

	if m == nil {
		return doc
	}

	doc.Info = Info{
		Title:       m.Name,
		Description: m.Description,
		Version:     m.Version,
	}
	if doc.Info.Version == "" {
		doc.Info.Version = "0.1.0"
	}

	for _, e := range m.Endpoints {
		path := NormalizePath(e.Path)
		method := strings.ToLower(e.Method)

		item, ok := doc.Paths[path]
		if !ok {
			item = PathItem{}
			doc.Paths[path] = item
		}
		// same path+method later overwrites earlier: last write wins
		item[method] = projectOperation(e)
	}

	return doc
}

func emptyDocument() *Document {
	return &Document{
		OpenAPI: "3.0.0",
		Info:    Info{Title: "Generated API", Version: "0.1.0"},
		Servers: []Server{{URL: "/api"}},
		Paths:   map[string]PathItem{},
	}
}

func projectOperation(e models.Endpoint) *Operation {
	op := &Operation{
		Summary:     summaryFor(e),
		Description: e.Description,
		Responses:   map[string]Response{},
	}

	for _, p := range e.Parameters {
		if p.In == models.ParameterInBody {
			// body parameters merge into one request-body descriptor;
			// first one wins
			if op.RequestBody == nil {
				op.RequestBody = &RequestBody{
					Description: p.Description,
					Required:    p.Required,
					Content: map[string]MediaType{
						"application/json": {Schema: TypeSchema{Type: schemaType(p.Type)}},
					},
				}
			}
			continue
		}
		op.Parameters = append(op.Parameters, Parameter{
			Name:        p.Name,
			In:          string(p.In),
			Required:    p.Required,
			Description: p.Description,
			Schema:      TypeSchema{Type: schemaType(p.Type)},
		})
	}

	for _, r := range e.Responses {
		resp := Response{Description: r.Description}
		if r.Schema != nil {
			resp.Content = map[string]MediaType{"application/json": {Schema: r.Schema}}
		}
		op.Responses[strconv.Itoa(r.Status)] = resp
	}
	if len(op.Responses) == 0 {
		op.Responses["200"] = Response{Description: "Successful operation"}
	}

	return op
}

// NormalizePath strips a leading /api segment and ensures a leading slash.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p == "/api" {
		return "/"
	}
	if strings.HasPrefix(p, "/api/") {
		p = strings.TrimPrefix(p, "/api")
	}
	return p
}

func summaryFor(e models.Endpoint) string {
	if e.Description != "" {
		return e.Description
	}
	return e.Method + " " + NormalizePath(e.Path)
}

func schemaType(t models.IOType) string {
	if t == "" {
		return string(models.IOTypeString)
	}
	return string(t)
}
