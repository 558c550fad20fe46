package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	tests := []struct {
		name        string
		level       string
		expectDebug bool
		expectInfo  bool
	}{
		{name: "debug", level: "debug", expectDebug: true, expectInfo: true},
		{name: "info", level: "info", expectInfo: true},
		{name: "error", level: "error"},
		{name: "empty defaults to info", level: "", expectInfo: true},
		{name: "unknown defaults to info", level: "verbose", expectInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(LoggerConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug().Msg("debug entry")
			assert.Equal(t, tt.expectDebug, bytes.Contains(buf.Bytes(), []byte("debug entry")))

			buf.Reset()
			logger.Info().Msg("info entry")
			assert.Equal(t, tt.expectInfo, bytes.Contains(buf.Bytes(), []byte("info entry")))
		})
	}
}

func TestNewLogger_JSONFields(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "json"}, &buf)
	logger.Info().Str("session_id", "abc").Msg("session started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, AppName, entry["app"])
	assert.Equal(t, "abc", entry["session_id"])
	assert.Equal(t, "session started", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_Console(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	logger := newLogger(LoggerConfig{Level: "info", Format: "console"}, &buf)
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(buf.Bytes()))
}
