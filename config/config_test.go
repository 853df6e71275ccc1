package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "dbhelper.yaml")
	yml := "storage:\n  backend: Ordered\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	// act
	cfg, err := Load(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, BackendOrdered, cfg.Storage.Backend)
	assert.Equal(t, "dbhelper.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "tint", cfg.Log.Format)
	assert.Equal(t, "bson", cfg.Codec)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DBHELPER_DB", "/tmp/contacts.db")
	t.Setenv("DBHELPER_LOG_LEVEL", "WARN")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/contacts.db", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"backend":   "storage:\n  backend: postgres\n",
		"codec":     "codec: xml\n",
		"log level": "log:\n  level: loud\n",
		"format":    "log:\n  format: xml\n",
	}

	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dbhelper.yaml")
			require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

			_, err := Load(path)

			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbhelper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [1, 2"), 0o600))

	_, err := Load(path)

	assert.ErrorContains(t, err, "failed to parse config")
}
