package generator

import (
	"context"
	"testing"

	"backgen/internal/config"
	"backgen/internal/llm"
	"backgen/internal/logging"
	"backgen/internal/schema"
	"backgen/internal/translator"

	"github.com/stretchr/testify/assert"
)

// stubClient satisfies llm.Client with a canned reply.
type stubClient struct {
	reply string
}

func (s *stubClient) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return s.reply, nil
}

func newTestAssembler(t *testing.T, reply string) *Assembler {
	t.Helper()
	cfg := &config.Config{}
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.Model = "test-model"

	logger := logging.NewNopLogger()
	tr := translator.New(&stubClient{reply: reply}, cfg, logger)
	v, err := schema.NewValidator()
	assert.NoError(t, err)
	return NewAssembler(tr, v, logger)
}

func TestAssembleValidCandidate(t *testing.T) {
	a := newTestAssembler(t, `{
		"name": "task-api",
		"description": "a task service",
		"nodes": [
			{"name": "validate-task", "type": "validator"},
			{"name": "store-task", "type": "database"}
		],
		"workflows": [
			{"name": "add-task", "nodes": ["validate-task", "store-task"], "endpoints": [
				{"path": "/api/tasks", "method": "post"}
			]}
		]
	}`)

	m, err := a.Assemble(context.Background(), "task API")
	assert.NoError(t, err)

	assert.Equal(t, "task-api", m.Name)
	assert.Equal(t, "0.1.0", m.Version, "version defaults when absent")
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.GeneratedAt.IsZero())

	for _, wf := range m.Workflows {
		for _, ref := range wf.Nodes {
			assert.True(t, m.HasNode(ref))
		}
	}

	// nested endpoints were hoisted and normalized
	assert.Equal(t, 1, m.EndpointCount())
	assert.Equal(t, "POST", m.Endpoints[0].Method)
}

func TestAssembleKeepsSuppliedVersion(t *testing.T) {
	a := newTestAssembler(t, `{"name": "x", "version": "2.3.4", "workflows": []}`)

	m, err := a.Assemble(context.Background(), "x")
	assert.NoError(t, err)
	assert.Equal(t, "2.3.4", m.Version)
}

func TestAssembleMissingShapeKeys(t *testing.T) {
	for _, reply := range []string{
		`{"workflows": []}`,
		`{"name": "x"}`,
	} {
		a := newTestAssembler(t, reply)
		m, err := a.Assemble(context.Background(), "x")
		assert.ErrorIs(t, err, translator.ErrInvalidShape)
		assert.Nil(t, m, "no model on validation failure")
	}
}

func TestAssembleDuplicateNodeName(t *testing.T) {
	a := newTestAssembler(t, `{
		"name": "x",
		"nodes": [
			{"name": "dup", "type": "validator"},
			{"name": "dup", "type": "database"}
		],
		"workflows": []
	}`)

	m, err := a.Assemble(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Contains(t, err.Error(), `node "dup"`)
	assert.Nil(t, m)
}

func TestAssembleDuplicateWorkflowName(t *testing.T) {
	a := newTestAssembler(t, `{
		"name": "x",
		"workflows": [
			{"name": "w"},
			{"name": "w"}
		]
	}`)

	m, err := a.Assemble(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Contains(t, err.Error(), `workflow "w"`)
	assert.Nil(t, m)
}

func TestAssembleDanglingNodeReference(t *testing.T) {
	a := newTestAssembler(t, `{
		"name": "x",
		"nodes": [{"name": "known", "type": "validator"}],
		"workflows": [{"name": "w", "nodes": ["known", "ghost"]}]
	}`)

	m, err := a.Assemble(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDanglingNodeReference)
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), `"w"`)
	assert.Nil(t, m)
}

func TestAssembleEndpointNormalization(t *testing.T) {
	a := newTestAssembler(t, `{
		"name": "x",
		"workflows": [{"name": "w", "endpoints": [
			{"path": "tasks", "method": "get"}
		]}]
	}`)

	m, err := a.Assemble(context.Background(), "x")
	assert.NoError(t, err)
	assert.Equal(t, "/tasks", m.Endpoints[0].Path, "missing leading slash is auto-prefixed")
	assert.Equal(t, "GET", m.Endpoints[0].Method, "method normalized upper-case")
}

func TestAssembleUnsupportedMethod(t *testing.T) {
	a := newTestAssembler(t, `{
		"name": "x",
		"workflows": [{"name": "w", "endpoints": [
			{"path": "/tasks", "method": "PATCH"}
		]}]
	}`)

	_, err := a.Assemble(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
	assert.Contains(t, err.Error(), "PATCH")
}

func TestAssembleForwardsTranslatorErrors(t *testing.T) {
	a := newTestAssembler(t, `{"name": "x", "workflows": []}`)

	_, err := a.Assemble(context.Background(), "  ")
	assert.ErrorIs(t, err, translator.ErrEmptyPrompt)
}
