package logtrace

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLoggerWritesFieldsAndContext(t *testing.T) {
	var buf bytes.Buffer
	SetupWithSink("codegen-test", "debug", zapcore.AddSync(&buf))
	t.Cleanup(func() { SetupWithSink("", "info", zapcore.AddSync(&bytes.Buffer{})) })

	ctx := CtxWithCorrelationID(context.Background(), "run-1")
	ctx = CtxWithOrigin(ctx, "generate")
	Info(ctx, "generated schedule", Fields{FieldBlockCount: 3})

	out := buf.String()
	assert.Contains(t, out, "generated schedule")
	assert.Contains(t, out, `"correlation_id": "run-1"`)
	assert.Contains(t, out, `"origin": "generate"`)
	assert.Contains(t, out, `"blocks": 3`)
	assert.Contains(t, out, `"service": "codegen-test"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetupWithSink("", "warn", zapcore.AddSync(&buf))
	t.Cleanup(func() { SetupWithSink("", "info", zapcore.AddSync(&bytes.Buffer{})) })

	Debug(context.Background(), "hidden debug", nil)
	Info(context.Background(), "hidden info", nil)
	Warn(context.Background(), "shown warn", nil)
	Error(context.Background(), "shown error", Fields{FieldError: "boom"})

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "shown warn")
	assert.Contains(t, out, "shown error")
	assert.True(t, Enabled(zapcore.WarnLevel))
	assert.False(t, Enabled(zapcore.InfoLevel))
}

func TestSetLevelUnknownFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("chatty")
	assert.True(t, Enabled(zapcore.InfoLevel))
	assert.False(t, Enabled(zapcore.DebugLevel))
}

func TestContextHelpersOnEmptyContext(t *testing.T) {
	assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
	assert.Equal(t, "", OriginFromContext(context.Background()))
}

func TestWithFields(t *testing.T) {
	base := Fields{"a": 1, "b": 2}
	merged := WithFields(base, Fields{"b": 3, "c": 4})

	assert.Equal(t, Fields{"a": 1, "b": 3, "c": 4}, merged)
	assert.Equal(t, Fields{"a": 1, "b": 2}, base)
}
