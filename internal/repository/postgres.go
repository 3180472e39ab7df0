package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backgen/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of the ModelStore interface.
// Each generation run is a new row; Load returns the latest.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS backend_models (
		seq BIGSERIAL,
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		document JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

// Save persists a model as one row keyed by its run ID.
func (s *PostgresStore) Save(ctx context.Context, m *models.BackendModel) error {
	document, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal backend model: %w", err)
	}
	_, err = s.db.Exec(ctx,
		"INSERT INTO backend_models (id, name, document) VALUES ($1, $2, $3)",
		m.ID, m.Name, document,
	)
	return err
}

// Load returns the most recently saved model.
func (s *PostgresStore) Load(ctx context.Context) (*models.BackendModel, error) {
	var document []byte
	err := s.db.QueryRow(ctx,
		"SELECT document FROM backend_models ORDER BY seq DESC LIMIT 1",
	).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoModel
		}
		return nil, err
	}

	var m models.BackendModel
	if err := json.Unmarshal(document, &m); err != nil {
		return nil, fmt.Errorf("decode backend model: %w", err)
	}
	return &m, nil
}
