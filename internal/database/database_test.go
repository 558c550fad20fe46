//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"checkout-wizard/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestNewPoolFromURL_InvalidConnectionString(t *testing.T) {
	pool, err := NewPoolFromURL(context.Background(), "invalid connection string", config.DatabaseConfig{}, zerolog.Nop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database config")
	assert.Nil(t, pool)
}

func TestMigrate_SeedsDemoCart(t *testing.T) {
	connStr := startPostgres(t)
	ctx := context.Background()

	require.NoError(t, Migrate(connStr, zerolog.Nop()))
	// second run is a no-op
	require.NoError(t, Migrate(connStr, zerolog.Nop()))

	pool, err := NewPoolFromURL(ctx, connStr, config.DatabaseConfig{MaxConnections: 4, MinConnections: 1}, zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()

	var items int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE cart_id = 'demo'`).Scan(&items)
	require.NoError(t, err)
	assert.Equal(t, 3, items)
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrationURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h/db", migrationURL("postgresql://u:p@h/db"))
	assert.Equal(t, "pgx5://h/db", migrationURL("pgx5://h/db"))
}
