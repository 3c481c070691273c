package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/procsched/internal/schederr"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "procsched.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 3, cfg.Processors)
	assert.Equal(t, "heuristic", cfg.Policy)
	assert.Equal(t, ".procsched", cfg.StateDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, "processors: 5\npolicy: baseline\nlog:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Processors)
	assert.Equal(t, "baseline", cfg.Policy)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 4, cfg.WeightWorkers)
	assert.NotNil(t, cfg.Logger())
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero processors": "processors: 0\n",
		"bad policy":      "policy: random\n",
		"bad format":      "log:\n  format: xml\n",
		"no workers":      "weight_workers: 0\n",
		"huge processors": "processors: 4611686018427387904\n",
		"bad level":       "log:\n  level: verbose\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.True(t, schederr.IsValidation(err), "got %v", err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "processors: [\n"))
	require.Error(t, err)
	assert.False(t, schederr.IsValidation(err))
}
