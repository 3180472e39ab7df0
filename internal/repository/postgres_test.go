package repository

import (
	"context"
	"testing"

	"backgen/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2)),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	store := NewPostgresStore(pool)
	if err := store.InitSchema(ctx); err != nil {
		t.Fatal(err)
	}

	t.Run("Load on empty table", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, ErrNoModel)
	})

	t.Run("Save and Load latest", func(t *testing.T) {
		first := &models.BackendModel{
			ID:      uuid.New().String(),
			Name:    "first-api",
			Version: "0.1.0",
			Endpoints: []models.Endpoint{
				{Path: "/api/first", Method: "GET"},
			},
		}
		second := &models.BackendModel{
			ID:      uuid.New().String(),
			Name:    "second-api",
			Version: "0.1.0",
		}

		assert.NoError(t, store.Save(ctx, first))
		assert.NoError(t, store.Save(ctx, second))

		loaded, err := store.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "second-api", loaded.Name)
	})

	t.Run("InitSchema is idempotent", func(t *testing.T) {
		assert.NoError(t, store.InitSchema(ctx))
	})
}
