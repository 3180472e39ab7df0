// Package translator converts a natural-language prompt into a raw candidate
// backend model via a text-generation service.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"backgen/internal/config"
	"backgen/internal/llm"
	"backgen/internal/logging"
)

// Failure surfaces of a translation attempt. Input errors are returned
// before any network call is made.
var (
	ErrEmptyPrompt        = errors.New("prompt is empty")
	ErrMissingCredential  = errors.New("missing text-generation credential")
	ErrServiceUnavailable = errors.New("text-generation service unavailable")
	ErrMalformedResponse  = errors.New("text-generation reply is not valid JSON")
	ErrInvalidShape       = errors.New("candidate model is missing required fields")
)

// defaultTemperature keeps the service deterministic enough for structured
// output.
const defaultTemperature = 0.2

// systemInstruction is the fixed contract sent with every prompt. It pins
// down the exact JSON shape the service must reply with.
const systemInstruction = `You are a backend architect. Given a description of a desired backend
service, design it as a JSON document and reply with that JSON only, no
markdown and no commentary.

The document must have this exact shape:

{
  "name": "<kebab-case service name>",
  "description": "<one sentence summary>",
  "nodes": [
    {
      "name": "<unique node name>",
      "type": "data-processor" | "validator" | "external-api" | "database" | "transformer",
      "description": "<what the node does>",
      "inputs": [{"name": "...", "type": "string" | "number" | "boolean" | "object", "description": "..."}],
      "outputs": [{"name": "...", "type": "string" | "number" | "boolean" | "object", "description": "..."}]
    }
  ],
  "workflows": [
    {
      "name": "<unique workflow name>",
      "description": "<what the workflow does>",
      "nodes": ["<node name>", "..."],
      "endpoints": [
        {
          "path": "/api/<resource>",
          "method": "GET" | "POST" | "PUT" | "DELETE",
          "description": "<what the endpoint does>",
          "parameters": [{"name": "...", "in": "path" | "query" | "body" | "header", "required": true, "type": "string", "description": "..."}],
          "responses": [{"status": 200, "description": "..."}]
        }
      ]
    }
  ]
}

Every name listed in a workflow's "nodes" must match a node defined in the
top-level "nodes" array. Every workflow's node order is its execution order.`

// Translator turns prompts into raw candidate models.
type Translator struct {
	client      llm.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	logger      *logging.Logger
}

// New creates a Translator using the given completion client and config.
func New(client llm.Client, cfg *config.Config, logger *logging.Logger) *Translator {
	temperature := cfg.LLM.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &Translator{
		client:      client,
		apiKey:      cfg.LLM.APIKey,
		model:       cfg.LLM.Model,
		temperature: temperature,
		maxTokens:   cfg.LLM.MaxTokens,
		logger:      logger,
	}
}

// Translate makes exactly one completion call and returns the raw candidate
// model payload. Retries, if desired, are the caller's responsibility.
func (t *Translator) Translate(ctx context.Context, prompt string) (json.RawMessage, error) {
	return t.TranslateWithModel(ctx, prompt, "")
}

// TranslateWithModel is Translate with a per-call model override. An empty
// model falls back to the configured one.
func (t *Translator) TranslateWithModel(ctx context.Context, prompt, model string) (json.RawMessage, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if t.apiKey == "" {
		return nil, ErrMissingCredential
	}
	if model == "" {
		model = t.model
	}

	t.logger.Info("translating prompt", "model", model, "prompt_len", len(prompt))

	reply, err := t.client.Complete(ctx, llm.CompletionRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: t.temperature,
		MaxTokens:   t.maxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	raw := json.RawMessage(stripCodeFences(reply))
	if !json.Valid(raw) {
		return nil, ErrMalformedResponse
	}

	// top-level contract: a JSON object carrying a non-empty name and a
	// workflows sequence. Probed key by key so that a wrongly-typed value
	// reports a shape error, not a malformed reply.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidShape)
	}
	var name string
	if err := json.Unmarshal(top["name"], &name); err != nil || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name", ErrInvalidShape)
	}
	wfRaw, ok := top["workflows"]
	if !ok {
		return nil, fmt.Errorf("%w: workflows", ErrInvalidShape)
	}
	var workflows []json.RawMessage
	if err := json.Unmarshal(wfRaw, &workflows); err != nil || string(wfRaw) == "null" {
		return nil, fmt.Errorf("%w: workflows is not a sequence", ErrInvalidShape)
	}

	t.logger.Debug("candidate model received", "bytes", len(raw), "workflows", len(workflows))

	return raw, nil
}

// stripCodeFences removes a surrounding markdown code fence, which some
// services emit even when asked for bare JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
