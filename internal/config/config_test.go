package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bentoforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "base_domain: example.dev\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.dev", cfg.BaseDomain)
	assert.Equal(t, "free", cfg.Tier)
	assert.Equal(t, "framework-project", cfg.Export.Target)
	assert.Equal(t, "bentoforge.db", cfg.Store.Path)
	assert.Equal(t, time.Hour, cfg.Daemon.RepublishEvery())
	assert.True(t, cfg.Export.ServiceWorkerEnabled())
	assert.True(t, cfg.Export.AnalyticsEnabled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("BF_TEST_TOKEN", "sekrit")
	path := writeConfig(t, `
deploy:
  enabled: true
  repo_url: https://git.example/site.git
  auth_token: ${BF_TEST_TOKEN}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sekrit", cfg.Deploy.AuthToken)
}

func TestLoadRejectsBadTarget(t *testing.T) {
	path := writeConfig(t, "export:\n  target: zipfile\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadRejectsDeployWithoutRepo(t *testing.T) {
	path := writeConfig(t, "deploy:\n  enabled: true\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: loud\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestServiceWorkerTriState(t *testing.T) {
	off := false
	e := ExportConfig{ServiceWorker: &off}
	assert.False(t, e.ServiceWorkerEnabled())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bentoforge.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "offlink.bio", cfg.BaseDomain)

	// Refuses to clobber without force.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, "offlink.bio", cfg.BaseDomain)
}
