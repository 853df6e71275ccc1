package logging

import (
	"bytes"
	"dbhelper/config"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	// arrange
	var buf bytes.Buffer
	log, err := New(&buf, config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	// act
	log.Debug("hidden")
	log.Info("saved", "written", 2)

	// assert
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "saved", line["msg"])
	assert.Equal(t, float64(2), line["written"])
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"dev", "tint", "text"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(&buf, config.LogConfig{Level: "debug", Format: format})
			require.NoError(t, err)

			log.Debug("fetched", "entity", "contact")

			assert.Contains(t, buf.String(), "fetched")
			assert.Contains(t, buf.String(), "contact")
		})
	}
}

func TestNewRejects(t *testing.T) {
	_, err := New(&bytes.Buffer{}, config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
