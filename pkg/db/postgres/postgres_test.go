package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	cfg, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/db?sslmode=disable")
	require.NoError(t, err)
	defaultLifetime := cfg.MaxConnLifetime

	applyOptions(cfg, PoolOptions{MinConns: 2, MaxConns: 8})
	assert.Equal(t, int32(2), cfg.MinConns)
	assert.Equal(t, int32(8), cfg.MaxConns)
	assert.Equal(t, defaultLifetime, cfg.MaxConnLifetime)

	applyOptions(cfg, PoolOptions{MaxConnLifetime: time.Minute})
	assert.Equal(t, int32(8), cfg.MaxConns)
	assert.Equal(t, time.Minute, cfg.MaxConnLifetime)
}

func TestNewInvalidDSN(t *testing.T) {
	db, err := New(context.Background(), "postgres://%zz", PoolOptions{})
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), ErrParseConfig)
}

func TestMigrateDSNInvalidSource(t *testing.T) {
	err := MigrateDSN(context.Background(), "postgres://u:p@localhost:1/db?sslmode=disable", "unknown://nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCreateMigrationInstance)
}
