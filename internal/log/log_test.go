package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/procsched/internal/schederr"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, "json", FormatJSON.String())
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown", "tick", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "tick=3")
	assert.False(t, l.Enabled(context.Background(), LevelDebug))
	assert.True(t, l.Enabled(context.Background(), LevelError))
}

func TestLogger_WithErrorCycle(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	l.WithError(schederr.Cycle([]int{1, 2, 1})).Error("schedule failed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "schedule failed", rec["msg"])
	assert.Equal(t, "cycle", rec["error_kind"])
	assert.Len(t, rec["cycle"], 3)
}

func TestLogger_WithErrorNil(t *testing.T) {
	l := Discard()
	assert.Same(t, l, l.WithError(nil))
}
