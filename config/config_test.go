package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	assert.Equal(t, "bolt", cfg.Database.Type)
	assert.Equal(t, 3000, cfg.Web.Port)
	assert.Equal(t, "Europe/Berlin", cfg.System.Location)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "kassad.yml")
	content := []byte("system:\n  workdir: " + dir + "\nweb:\n  port: 8090\ndatabase:\n  type: postgres\n")
	require.NoError(t, os.WriteFile(cfile, content, 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, dir, cfg.System.Workdir)
	assert.Equal(t, 8090, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, filepath.Join(dir, "kassad.log"), cfg.Logger.Filename)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, DefaultAppConfig.Web.Port, cfg.Web.Port)
	assert.Equal(t, DefaultAppConfig.Database.Type, cfg.Database.Type)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("KASSAD_WEB_PORT", "9000")
	t.Setenv("KASSAD_DB_TYPE", "postgres")

	cfg := LoadConfig("")
	assert.Equal(t, 9000, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
}
