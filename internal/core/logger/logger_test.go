package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := New(Options{Level: "warn", JSON: true, Out: zapcore.AddSync(&buf)})

	l.Info("dropped")
	l.Warn("kept", zap.String("k", "v"))
	cleanup()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "v", entry["k"])
	assert.Contains(t, entry, "ts")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, cleanup := New(Options{Level: "loud", JSON: true, Out: zapcore.AddSync(&buf)})
	l.Debug("dropped")
	l.Info("kept")
	cleanup()

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_Rotate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := New(Options{Level: "info", JSON: true, Out: zapcore.AddSync(io.Discard), Rotate: &Rotate{Filename: file, MaxSizeMB: 1}})
	l.Info("to file")
	cleanup()

	assert.FileExists(t, file)
}

func TestToWriter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ToWriter(zap.New(core), zapcore.DebugLevel)

	n, err := w.Write([]byte("[GIN-debug] GET /restaurants\n"))
	require.NoError(t, err)
	assert.Equal(t, len("[GIN-debug] GET /restaurants\n"), n)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "[GIN-debug] GET /restaurants", logs.All()[0].Message)
}
