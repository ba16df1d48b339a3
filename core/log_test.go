package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	err := InitLogger(LogConfig{Level: "chatty"})
	assert.Error(t, err)
	assert.Same(t, prev, Log)
}

func TestInitLogger(t *testing.T) {
	prev, prevLevel := Log, Level.Level()
	defer func() { Log = prev; Level.SetLevel(prevLevel) }()

	assert.NoError(t, InitLogger(LogConfig{Level: "warn", Development: true}))
	assert.NotSame(t, prev, Log)
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.WarnLevel))
}

func TestInitLoggerReloadKeepsDerivedLoggers(t *testing.T) {
	prev, prevLevel := Log, Level.Level()
	defer func() { Log = prev; Level.SetLevel(prevLevel) }()

	assert.NoError(t, InitLogger(LogConfig{Level: "info"}))
	named := Log.Named("culler")
	first := Log
	assert.False(t, named.Core().Enabled(zapcore.DebugLevel))

	assert.NoError(t, InitLogger(LogConfig{Level: "debug"}))
	assert.Same(t, first, Log)
	assert.True(t, named.Core().Enabled(zapcore.DebugLevel))

	assert.NoError(t, InitLogger(LogConfig{Level: "error"}))
	assert.False(t, named.Core().Enabled(zapcore.WarnLevel))
}

func TestAlertAndBugSeverity(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()
	obs, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(obs))

	Alert("too many lights", zap.Int("count", 9))
	Bug("broken")

	all := logs.All()
	if assert.Len(t, all, 2) {
		assert.Equal(t, zapcore.WarnLevel, all[0].Level)
		assert.Equal(t, "alert", all[0].ContextMap()["severity"])
		assert.Equal(t, zapcore.ErrorLevel, all[1].Level)
		assert.Equal(t, "bug", all[1].ContextMap()["severity"])
	}
}

func TestSetLoggerNil(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()
	SetLogger(nil)
	assert.NotNil(t, Log)
}

func TestColor(t *testing.T) {
	c := NewColor(1, 0.5, 0, 0.25)
	assert.False(t, c.Opaque())
	assert.True(t, c.WithAlpha(1).Opaque())
	assert.Equal(t, float32(0.25), c.Vec4()[3])
}
