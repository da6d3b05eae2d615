package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_LevelAndEncoding(t *testing.T) {
	t.Parallel()

	l, err := New("debug", "console")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("bogus", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New("info", "xml")
	require.Error(t, err)
}

func TestSlogAdapter_WritesIntoZapCore(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	a := NewSlogAdapter(zap.New(core)).With("route", "assets")

	a.Info("query served", "chain", "sui")
	a.Error("upstream failed", "status", 500)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "query served", entries[0].Message)
	assert.Equal(t, "sui", entries[0].ContextMap()["chain"])
	assert.Equal(t, "assets", entries[0].ContextMap()["route"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
