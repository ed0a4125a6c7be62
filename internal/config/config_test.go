package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "commission.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.5, cfg.Attribution.UnauthorizedWeight)
	assert.Equal(t, 5, cfg.Attribution.MaxConcurrentCompanies)
	assert.Equal(t, "csv", cfg.Report.Format)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
store:
  driver: postgres
  database_url: postgres://localhost/commission
attribution:
  unauthorized_weight: 0.25
match:
  suffixes: [ext, chat]
`
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 0.25, cfg.Attribution.UnauthorizedWeight)
	assert.Equal(t, []string{"ext", "chat"}, cfg.Match.Suffixes)
	assert.Equal(t, "json", cfg.Log.Format, "unset keys keep defaults")
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
