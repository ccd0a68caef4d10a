package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "ibeer/internal/core/context"
)

func TestFromContext_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext("t-1", "r-1"))
	ctx = WithLogger(ctx, l)

	Error(ctx, "entity not found", "m", "getById")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "entity not found", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "getById", fields["m"])
}

func TestNew_FallsBackToInfoOnBadLevel(t *testing.T) {
	l, err := New(Config{Level: "verbose", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
}

func TestComponent_TagsEntries(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := WithLogger(context.Background(), &Logger{zap.New(core).Sugar()})

	Component(ctx, "cache").Warnw("cache read failed", "key", "manufacturer:1")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "cache", fields["component"])
	assert.Equal(t, "manufacturer:1", fields["key"])
	assert.NotContains(t, fields, "trace_id")
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Same(t, Default(), Default())
}
