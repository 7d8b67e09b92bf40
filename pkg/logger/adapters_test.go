package logger

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttr(t *testing.T) {
	a := Attr("key", 7)
	assert.Equal(t, "key", a.Key)
	assert.Equal(t, 7, a.Value)
}

func TestStandardAdapter(t *testing.T) {
	var buf bytes.Buffer
	lg := New(NewStandardAdapter(log.New(&buf, "", 0)))

	lg.Log(context.Background(), InfoLevel, "hello", Attr("n", 3))

	out := buf.String()
	assert.Contains(t, out, "[INFO] hello")
	assert.Contains(t, out, "n=3")
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	backend := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	lg := New(NewSlogAdapter(backend))

	lg.Log(context.Background(), DebugLevel, "element evaluated", Attr("position", 4))

	out := buf.String()
	assert.Contains(t, out, "element evaluated")
	assert.Contains(t, out, "position=4")
}

func TestSlogAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	backend := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	lg := New(NewSlogAdapter(backend))

	lg.Log(context.Background(), DebugLevel, "should not appear")
	assert.Empty(t, buf.String())

	lg.Log(context.Background(), ErrorLevel, "should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	backend := zerolog.New(&buf).Level(zerolog.DebugLevel)
	lg := New(NewZerologAdapter(backend))

	lg.Log(context.Background(), InfoLevel, "parallel drive starting", Attr("workers", 8))

	out := buf.String()
	assert.Contains(t, out, `"message":"parallel drive starting"`)
	assert.Contains(t, out, `"workers":8`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	backend := zerolog.New(&buf).Level(zerolog.ErrorLevel)
	adapter := NewZerologAdapter(backend)

	assert.False(t, adapter.IsLevelEnabled(context.Background(), DebugLevel))
	assert.True(t, adapter.IsLevelEnabled(context.Background(), ErrorLevel))

	New(adapter).Log(context.Background(), DebugLevel, "hidden")
	assert.Empty(t, buf.String())
}

func TestDefault(t *testing.T) {
	require.NotNil(t, Default())
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(99), "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelName(tt.level))
	}
}

func TestLogLevelConversions(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logLevelToSlog(DebugLevel))
	assert.Equal(t, slog.LevelError, logLevelToSlog(ErrorLevel))
	assert.Equal(t, zerolog.DebugLevel, logLevelToZerolog(DebugLevel))
	assert.Equal(t, zerolog.WarnLevel, logLevelToZerolog(WarnLevel))
}
