package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorAcceptsWellFormedCandidate(t *testing.T) {
	v, err := NewValidator()
	assert.NoError(t, err)

	raw := json.RawMessage(`{
		"name": "movie-api",
		"description": "movies",
		"nodes": [
			{"name": "validate-movie", "type": "validator", "inputs": [{"name": "movie", "type": "object"}]}
		],
		"workflows": [
			{"name": "add-movie", "nodes": ["validate-movie"], "endpoints": [
				{"path": "/api/movies", "method": "POST", "parameters": [
					{"name": "movie", "in": "body", "required": true, "type": "object"}
				]}
			]}
		]
	}`)

	assert.NoError(t, v.Validate(raw))
}

func TestValidatorRejectsBadCandidates(t *testing.T) {
	v, err := NewValidator()
	assert.NoError(t, err)

	cases := []struct {
		name string
		raw  string
	}{
		{"missing name", `{"workflows": []}`},
		{"empty name", `{"name": "", "workflows": []}`},
		{"workflows not an array", `{"name": "x", "workflows": {}}`},
		{"unknown node type", `{"name": "x", "workflows": [], "nodes": [{"name": "n", "type": "quantum"}]}`},
		{"bad parameter location", `{"name": "x", "workflows": [{"name": "w", "endpoints": [{"path": "/x", "method": "GET", "parameters": [{"name": "p", "in": "cookie"}]}]}]}`},
		{"response status not integer", `{"name": "x", "workflows": [], "endpoints": [{"path": "/x", "method": "GET", "responses": [{"status": "ok"}]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, v.Validate(json.RawMessage(tc.raw)))
		})
	}
}
