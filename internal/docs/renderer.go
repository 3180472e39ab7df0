// Package docs renders HTML documentation for a backend model.
package docs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"backgen/internal/logging"
	"backgen/pkg/models"
)

// Renderer binds backend models into an HTML template loaded from the
// template directory.
type Renderer struct {
	dir    string
	name   string
	logger *logging.Logger
}

// NewRenderer creates a Renderer reading the named template from dir.
func NewRenderer(dir, name string, logger *logging.Logger) *Renderer {
	if name == "" {
		name = "docs.html.tmpl"
	}
	return &Renderer{dir: dir, name: name, logger: logger}
}

// Render produces a completed HTML document for the model. It never fails
// past its boundary: on any error it returns a self-contained error page so
// the serving layer always has a renderable body.
func (r *Renderer) Render(ctx context.Context, m *models.BackendModel) string {
	if err := ctx.Err(); err != nil {
		return r.fail(err)
	}
	if m == nil {
		return r.fail(errors.New("no backend model to document"))
	}

	src, err := r.loadTemplate()
	if err != nil {
		return r.fail(err)
	}

	t, err := template.New(r.name).Parse(src)
	if err != nil {
		return r.fail(fmt.Errorf("template syntax: %w", err))
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, m); err != nil {
		return r.fail(fmt.Errorf("template execution: %w", err))
	}
	return buf.String()
}

// loadTemplate reads the template file, materializing the built-in default
// first when it does not exist yet. The initialization is idempotent:
// subsequent calls find the template already present.
func (r *Renderer) loadTemplate() (string, error) {
	path := filepath.Join(r.dir, r.name)

	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read template %s: %w", path, err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create template dir %s: %w", r.dir, err)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return "", fmt.Errorf("write default template %s: %w", path, err)
	}
	r.logger.Info("default documentation template created", "path", path)
	return defaultTemplate, nil
}

func (r *Renderer) fail(err error) string {
	r.logger.Error("documentation rendering failed", "error", err)
	return fmt.Sprintf(errorPage, template.HTMLEscapeString(err.Error()))
}
