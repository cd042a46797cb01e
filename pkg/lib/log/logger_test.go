package log

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLoggerWithWriter(&Config{
		Level:   LogLevelInfo,
		Format:  LogFormatJSON,
		Service: "refresh",
	}, &buf)
	require.NoError(t, err)

	Component(logger, "sweeper").Debug().Msg("hidden")
	Component(logger, "sweeper").Info().Int("deleted", 3).Msg("Swept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sweeper", entry["component"])
	assert.Equal(t, "refresh", entry["service"])
	assert.Equal(t, "Swept", entry["message"])
	assert.Equal(t, float64(3), entry["deleted"])
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&Config{Level: "verbose", Format: LogFormatJSON})
	assert.Error(t, err)
}

func TestNewLoggerWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLoggerWithWriter(&Config{Level: LogLevelDebug, Format: LogFormatConsole}, &buf)
	require.NoError(t, err)

	logger.Debug().Str("route_id", "r1").Msg("Scored route")

	assert.Contains(t, buf.String(), "Scored route")
	assert.Contains(t, buf.String(), "route_id=")
}
