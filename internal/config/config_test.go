package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reminderd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadParsesExplicitValues(t *testing.T) {
	path := writeConfig(t, "store_path: /var/lib/reminderd/data.db\npoll_interval_seconds: 5\ndefault_timezone: Europe/Moscow\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/reminderd/data.db", cfg.StorePath)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, "Europe/Moscow", cfg.DefaultTimezone)
}

func TestLoadFillsDefaultsForOmittedFields(t *testing.T) {
	path := writeConfig(t, "store_path: data.db\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.PollInterval())
	assert.Equal(t, "UTC", cfg.DefaultTimezone)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAMLErrors(t *testing.T) {
	path := writeConfig(t, "store_path: [this is not a string\n")
	_, err := Load(path)
	assert.Error(t, err)
}
