package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ".caritas/sessions.json", cfg.Auth.SessionPath)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, "http://localhost:8081/api/admin", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, CatalogSourceConfig, cfg.Catalog.Source)
	require.Len(t, cfg.Catalog.Services, 5)
	assert.Equal(t, CatalogEntry{ID: "s4", Name: "Trabajo Social"}, cfg.Catalog.Services[3])
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AUTH_COOKIE_SECURE", "true")
	t.Setenv("API_BASE_URL", "https://api.example.org/api/admin/")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("CATALOG_SOURCE", "mysql")
	t.Setenv("CATALOG_SERVICES", "a=Uno, b=Dos")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, "https://api.example.org/api/admin", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, CatalogSourceMySQL, cfg.Catalog.Source)
	assert.Equal(t, []CatalogEntry{{ID: "a", Name: "Uno"}, {ID: "b", Name: "Dos"}}, cfg.Catalog.Services)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnknownCatalogSource(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "redis")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseCatalogEntries_Invalid(t *testing.T) {
	_, err := ParseCatalogEntries("s1=Lavandería,s2")
	assert.Error(t, err)

	_, err = ParseCatalogEntries("=x")
	assert.Error(t, err)

	entries, err := ParseCatalogEntries("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
