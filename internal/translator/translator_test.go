package translator

import (
	"context"
	"errors"
	"testing"

	"backgen/internal/config"
	"backgen/internal/llm"
	"backgen/internal/logging"

	"github.com/stretchr/testify/assert"
)

// stubClient satisfies llm.Client for tests.
type stubClient struct {
	reply string
	err   error
	calls int
	last  llm.CompletionRequest
}

func (s *stubClient) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	s.calls++
	s.last = req
	return s.reply, s.err
}

func newTestTranslator(client llm.Client, apiKey string) *Translator {
	cfg := &config.Config{}
	cfg.LLM.APIKey = apiKey
	cfg.LLM.Model = "test-model"
	cfg.LLM.MaxTokens = 2048
	return New(client, cfg, logging.NewNopLogger())
}

func TestTranslateEmptyPrompt(t *testing.T) {
	client := &stubClient{}
	tr := newTestTranslator(client, "sk-test")

	_, err := tr.Translate(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Equal(t, 0, client.calls, "no network call on input error")
}

func TestTranslateMissingCredential(t *testing.T) {
	client := &stubClient{}
	tr := newTestTranslator(client, "")

	_, err := tr.Translate(context.Background(), "an API for tasks")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, 0, client.calls)
}

func TestTranslateServiceFailure(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	tr := newTestTranslator(client, "sk-test")

	_, err := tr.Translate(context.Background(), "an API for tasks")
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestTranslateMalformedReply(t *testing.T) {
	client := &stubClient{reply: "sure, here is your backend!"}
	tr := newTestTranslator(client, "sk-test")

	_, err := tr.Translate(context.Background(), "an API for tasks")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestTranslateMissingTopLevelKeys(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"no name", `{"workflows": []}`},
		{"empty name", `{"name": " ", "workflows": []}`},
		{"name not a string", `{"name": 7, "workflows": []}`},
		{"no workflows", `{"name": "task-api"}`},
		{"workflows null", `{"name": "task-api", "workflows": null}`},
		{"workflows as object", `{"name": "task-api", "workflows": {}}`},
		{"top level array", `[{"name": "task-api"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTranslator(&stubClient{reply: tc.reply}, "sk-test")
			_, err := tr.Translate(context.Background(), "an API for tasks")
			assert.ErrorIs(t, err, ErrInvalidShape)
		})
	}
}

func TestTranslateSuccess(t *testing.T) {
	client := &stubClient{reply: `{"name": "task-api", "workflows": [{"name": "list"}]}`}
	tr := newTestTranslator(client, "sk-test")

	raw, err := tr.Translate(context.Background(), "an API for tasks")
	assert.NoError(t, err)
	assert.JSONEq(t, client.reply, string(raw))

	assert.Equal(t, 1, client.calls, "exactly one outbound call")
	assert.Equal(t, "test-model", client.last.Model)
	assert.Equal(t, defaultTemperature, client.last.Temperature)
	assert.True(t, client.last.JSONMode)
	assert.Len(t, client.last.Messages, 2)
	assert.Equal(t, "system", client.last.Messages[0].Role)
	assert.Contains(t, client.last.Messages[0].Content, `"workflows"`)
	assert.Equal(t, "an API for tasks", client.last.Messages[1].Content)
}

func TestTranslateWithModelOverride(t *testing.T) {
	client := &stubClient{reply: `{"name": "task-api", "workflows": []}`}
	tr := newTestTranslator(client, "sk-test")

	_, err := tr.TranslateWithModel(context.Background(), "an API for tasks", "gpt-4o")
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o", client.last.Model)

	_, err = tr.TranslateWithModel(context.Background(), "an API for tasks", "")
	assert.NoError(t, err)
	assert.Equal(t, "test-model", client.last.Model, "empty override falls back to the configured model")
}

func TestTranslateStripsCodeFences(t *testing.T) {
	client := &stubClient{reply: "```json\n{\"name\": \"task-api\", \"workflows\": []}\n```"}
	tr := newTestTranslator(client, "sk-test")

	raw, err := tr.Translate(context.Background(), "an API for tasks")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"name": "task-api", "workflows": []}`, string(raw))
}
