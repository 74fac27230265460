package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONCarriesAppField(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", true)
	require.NoError(t, err)

	logger.Debug().Str("dependency", "six").Msg("dependency will be updated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "depsync", entry["app"])
	assert.Equal(t, "six", entry["dependency"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", true)
	require.NoError(t, err)

	logger.Info().Msg("installation...")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("conflict was found")
	assert.Contains(t, buf.String(), "conflict was found")
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger(&bytes.Buffer{}, "", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLogger(&bytes.Buffer{}, "chatty", false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "chatty")
}
