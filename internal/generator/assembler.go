// Package generator assembles validated backend models from prompts and
// owns the process-wide current model.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"backgen/internal/logging"
	"backgen/internal/schema"
	"backgen/internal/translator"
	"backgen/pkg/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Validation failures surfaced after a successful decode.
var (
	ErrDanglingNodeReference = errors.New("workflow references unknown node")
	ErrInvalidEndpoint       = errors.New("invalid endpoint")
	ErrDuplicateName         = errors.New("duplicate name")
)

// defaultVersion is attached when the candidate carries no version.
const defaultVersion = "0.1.0"

// Assembler orchestrates translation and validation and produces canonical
// backend models. A returned model always satisfies every invariant; no
// partially-valid model is ever returned.
type Assembler struct {
	translator *translator.Translator
	validator  *schema.Validator
	logger     *logging.Logger
	runs       metric.Int64Counter
}

// NewAssembler creates a new Assembler.
func NewAssembler(tr *translator.Translator, validator *schema.Validator, logger *logging.Logger) *Assembler {
	runs, err := otel.Meter("backgen/generator").Int64Counter(
		"backgen.generation.runs",
		metric.WithDescription("Number of generation runs by outcome"),
	)
	if err != nil {
		logger.Warn("failed to create generation counter", "error", err)
	}
	return &Assembler{
		translator: tr,
		validator:  validator,
		logger:     logger,
		runs:       runs,
	}
}

// Assemble runs the full pipeline for one prompt: translate, validate the
// raw candidate, normalize it, and attach defaults.
func (a *Assembler) Assemble(ctx context.Context, prompt string) (*models.BackendModel, error) {
	return a.AssembleWithModel(ctx, prompt, "")
}

// AssembleWithModel is Assemble with a per-run text-generation model
// override. An empty model falls back to the configured one.
func (a *Assembler) AssembleWithModel(ctx context.Context, prompt, model string) (*models.BackendModel, error) {
	m, err := a.assemble(ctx, prompt, model)
	a.record(ctx, err)
	return m, err
}

func (a *Assembler) assemble(ctx context.Context, prompt, model string) (*models.BackendModel, error) {
	raw, err := a.translator.TranslateWithModel(ctx, prompt, model)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	if err := a.validator.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate: %w: %v", translator.ErrInvalidShape, err)
	}

	var m models.BackendModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode: %w: %v", translator.ErrMalformedResponse, err)
	}

	// candidates usually nest endpoints inside workflows; hoist them when no
	// top-level endpoints were supplied
	if len(m.Endpoints) == 0 {
		for _, wf := range m.Workflows {
			m.Endpoints = append(m.Endpoints, wf.Endpoints...)
		}
	}

	if err := a.normalize(&m); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	if m.Version == "" {
		m.Version = defaultVersion
	}
	m.ID = uuid.New().String()
	m.GeneratedAt = time.Now().UTC()

	a.logger.Info("backend model assembled",
		"name", m.Name,
		"nodes", m.NodeCount(),
		"workflows", m.WorkflowCount(),
		"endpoints", m.EndpointCount(),
	)

	return &m, nil
}

// normalize enforces the semantic invariants: node and workflow names are
// unique, every workflow node reference resolves, every endpoint path starts
// with "/", and methods are one of the four supported verbs stored
// upper-case.
func (a *Assembler) normalize(m *models.BackendModel) error {
	nodeNames := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		if _, ok := nodeNames[n.Name]; ok {
			return fmt.Errorf("%w: node %q", ErrDuplicateName, n.Name)
		}
		nodeNames[n.Name] = struct{}{}
	}
	workflowNames := make(map[string]struct{}, len(m.Workflows))
	for _, wf := range m.Workflows {
		if _, ok := workflowNames[wf.Name]; ok {
			return fmt.Errorf("%w: workflow %q", ErrDuplicateName, wf.Name)
		}
		workflowNames[wf.Name] = struct{}{}
	}

	for _, wf := range m.Workflows {
		for _, ref := range wf.Nodes {
			if !m.HasNode(ref) {
				return fmt.Errorf("%w: workflow %q references %q", ErrDanglingNodeReference, wf.Name, ref)
			}
		}
	}

	for i := range m.Endpoints {
		if err := normalizeEndpoint(&m.Endpoints[i]); err != nil {
			return err
		}
	}
	for wi := range m.Workflows {
		for ei := range m.Workflows[wi].Endpoints {
			if err := normalizeEndpoint(&m.Workflows[wi].Endpoints[ei]); err != nil {
				return err
			}
		}
	}
	return nil
}

func normalizeEndpoint(e *models.Endpoint) error {
	e.Path = strings.TrimSpace(e.Path)
	if e.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidEndpoint)
	}
	if !strings.HasPrefix(e.Path, "/") {
		e.Path = "/" + e.Path
	}

	e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
	if !models.SupportedMethods[e.Method] {
		return fmt.Errorf("%w: unsupported method %q for %s", ErrInvalidEndpoint, e.Method, e.Path)
	}
	return nil
}

func (a *Assembler) record(ctx context.Context, err error) {
	if a.runs == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	a.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
