package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewWithWriterFormats(t *testing.T) {
	var jsonBuf bytes.Buffer
	NewWithWriter(&jsonBuf, config.LogConfig{Level: "info"}).Info("user created", "username", "alice")
	assert.Contains(t, jsonBuf.String(), `"msg":"user created"`)
	assert.Contains(t, jsonBuf.String(), `"username":"alice"`)

	var textBuf bytes.Buffer
	NewWithWriter(&textBuf, config.LogConfig{Level: "info", Format: "TEXT"}).Info("user created", "username", "alice")
	assert.Contains(t, textBuf.String(), `msg="user created" username=alice`)
}

func TestNewWithWriterFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, config.LogConfig{Level: "warn"})

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
