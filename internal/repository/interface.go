// Package repository persists generated backend models so they can be
// reloaded after a restart.
package repository

import (
	"context"
	"errors"

	"backgen/pkg/models"
)

// ErrNoModel is returned by Load when nothing has been persisted yet.
var ErrNoModel = errors.New("no backend model persisted")

// ModelStore is an interface for storing and retrieving backend models.
type ModelStore interface {
	// Save persists a model.
	Save(ctx context.Context, m *models.BackendModel) error
	// Load returns the most recently saved model, or ErrNoModel.
	Load(ctx context.Context) (*models.BackendModel, error)
}
