package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel(" warning "))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("nope"))
	assert.Equal(t, "error", Error.String())
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatText, ParseFormat("anything"))
}

func TestZapLogger_WithMergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromZap(zap.New(core)).With(map[string]any{"component": "ledger"})

	l.Info("dose toggled", map[string]any{"schedule_id": "s-1", "done": true, "": "ignored"})
	l.Error("storage failed", map[string]any{"error": errors.New("disk full")})

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "ledger", first["component"])
	assert.Equal(t, "s-1", first["schedule_id"])
	assert.Equal(t, true, first["done"])
	assert.NotContains(t, first, "")

	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Warn("nothing", nil)
	assert.Same(t, l, l.With(nil))
}
