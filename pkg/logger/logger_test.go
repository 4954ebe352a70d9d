package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug", "json")
	require.NoError(t, err)
	assert.NotNil(t, l.Logger)

	_, err = New("loud", "json")
	assert.Error(t, err)
}

func TestContextLoggingAddsRunID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{Logger: zap.New(core)}

	ctx := WithRunID(context.Background(), "run-42")
	l.InfoContext(ctx, "started", IntField("rows", 3))
	l.ErrorContext(context.Background(), "failed", ErrorField(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-42", entries[0].ContextMap()["run_id"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	_, hasRunID := entries[1].ContextMap()["run_id"]
	assert.False(t, hasRunID)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}
