package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrine-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 500, cfg.Store.MaxOpenCarts)
	assert.Equal(t, 120, cfg.Store.CartIdleMinutes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "POSTGRES")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_NAME", "Mercadinho")
	t.Setenv("SEED_DEMO", "false")
	t.Setenv("STORE_MAX_OPEN_CARTS", "0")
	t.Setenv("STORE_CART_IDLE_MINUTES", "15")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "Mercadinho", cfg.Store.Name)
	assert.False(t, cfg.Store.SeedDemo)
	assert.Equal(t, 0, cfg.Store.MaxOpenCarts)
	assert.Equal(t, 15, cfg.Store.CartIdleMinutes)
}

func TestLoad_BackendInvalido(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestLoad_LimitesDeCarritoNegativos(t *testing.T) {
	t.Setenv("STORE_MAX_OPEN_CARTS", "-1")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_MAX_OPEN_CARTS")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "vitrine", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/vitrine?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
