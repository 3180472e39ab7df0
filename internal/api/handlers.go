// Package api contains the HTTP handlers for the generation service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"backgen/internal/docs"
	"backgen/internal/generator"
	"backgen/internal/repository"
	"backgen/internal/spec"
	"backgen/internal/translator"
	"backgen/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Generator assembles backend models from prompts. An empty model selects
// the configured default.
type Generator interface {
	AssembleWithModel(ctx context.Context, prompt, model string) (*models.BackendModel, error)
}

// Logger is the subset of the application logger the handlers need.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Server holds the dependencies for the API server.
type Server struct {
	Generator Generator
	State     *generator.State
	Store     repository.ModelStore
	Renderer  *docs.Renderer
	Logger    Logger
}

// NewServer creates a new Server.
func NewServer(gen Generator, state *generator.State, store repository.ModelStore, renderer *docs.Renderer, logger Logger) *Server {
	return &Server{
		Generator: gen,
		State:     state,
		Store:     store,
		Renderer:  renderer,
		Logger:    logger,
	}
}

// Register mounts all routes on the echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.HandleHealth)
	e.GET("/api/v1/model", s.HandleModel)
	e.GET("/api/v1/spec", s.HandleSpec)
	e.GET("/openapi.json", s.HandleSpec)
	e.POST("/api/v1/generate", s.HandleGenerate)
	e.GET("/docs", s.HandleDocs)
	e.GET("/swagger", s.HandleSwagger)
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK).
// (GET /healthz)
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "backgen",
		Version:   "1.0.0",
	})
}

// HandleModel returns the current backend model verbatim.
// (GET /api/v1/model)
func (s *Server) HandleModel(c echo.Context) error {
	m := s.State.Current()
	if m == nil {
		return s.problem(c, http.StatusNotFound, "No backend model", "no backend model has been generated yet")
	}
	return c.JSON(http.StatusOK, m)
}

// HandleSpec returns the projected specification for the current model.
// (GET /api/v1/spec, GET /openapi.json)
func (s *Server) HandleSpec(c echo.Context) error {
	m := s.State.Current()
	if m == nil {
		return s.problem(c, http.StatusNotFound, "No backend model", "no backend model has been generated yet")
	}
	return c.JSON(http.StatusOK, spec.Project(m))
}

// HandleDocs returns the rendered HTML documentation for the current model.
// (GET /docs)
func (s *Server) HandleDocs(c echo.Context) error {
	m := s.State.Current()
	if m == nil {
		return c.HTML(http.StatusNotFound,
			"<!DOCTYPE html><html><body><h1>No backend model</h1><p>No backend model has been generated yet.</p></body></html>")
	}
	return c.HTML(http.StatusOK, s.Renderer.Render(c.Request().Context(), m))
}

// GenerateRequest triggers a regeneration of the backend model.
type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Model    string `json:"model,omitempty"`
	Identity string `json:"identity,omitempty"`
}

// GenerateAccepted acknowledges that generation has started.
type GenerateAccepted struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
}

// HandleGenerate accepts a prompt and triggers asynchronous regeneration,
// acknowledging acceptance rather than the generation result.
// (POST /api/v1/generate)
func (s *Server) HandleGenerate(c echo.Context) error {
	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return s.problem(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	if req.Prompt == "" {
		return s.problem(c, http.StatusBadRequest, "Invalid request", "prompt is required")
	}

	runID := uuid.New().String()
	s.Logger.Info("generation accepted", "run_id", runID, "model", req.Model, "identity", req.Identity)

	go s.runGeneration(runID, req.Prompt, req.Model)

	return c.JSON(http.StatusAccepted, GenerateAccepted{Status: "accepted", RunID: runID})
}

// runGeneration executes one generation run. The caller has already been
// acknowledged; failures are only logged.
func (s *Server) runGeneration(runID, prompt, model string) {
	ctx := context.Background()

	m, err := s.Generator.AssembleWithModel(ctx, prompt, model)
	if err != nil {
		s.Logger.Error("generation failed", "run_id", runID, "error", err)
		return
	}

	s.State.Install(m)
	if s.Store != nil {
		if err := s.Store.Save(ctx, m); err != nil {
			s.Logger.Error("failed to persist model", "run_id", runID, "error", err)
		}
	}
	s.Logger.Info("generation completed", "run_id", runID, "name", m.Name, "endpoints", m.EndpointCount())
}

// ProblemDetails represents an RFC 7807 Problem Details response.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// problem writes an RFC 7807 Problem Details JSON error response.
func (s *Server) problem(c echo.Context, status int, title, detail string) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	c.Response().WriteHeader(status)
	return json.NewEncoder(c.Response()).Encode(ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// IsInputError reports whether a generation error was caused by bad input
// rather than an internal fault. Used by callers that surface synchronous
// generation failures.
func IsInputError(err error) bool {
	return errors.Is(err, translator.ErrEmptyPrompt) || errors.Is(err, translator.ErrMissingCredential)
}
