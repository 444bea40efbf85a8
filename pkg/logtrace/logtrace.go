package logtrace

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	originKey        contextKey = "origin"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Setup installs a console logger writing to stderr. Stdout is reserved for
// command output.
func Setup(service string, lvl string) {
	SetupWithSink(service, lvl, zapcore.Lock(os.Stderr))
}

// SetupWithSink installs a console logger writing to sink.
func SetupWithSink(service string, lvl string, sink zapcore.WriteSyncer) {
	SetLevel(lvl)

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)

	l := zap.New(core)
	if service != "" {
		l = l.With(zap.String(FieldService, service))
	}

	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetLevel changes the minimum level. Unknown names fall back to info.
func SetLevel(lvl string) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(lvl)))
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	level.SetLevel(parsed)
}

// Enabled reports whether lvl would be logged.
func Enabled(lvl zapcore.Level) bool { return level.Enabled(lvl) }

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

// CtxWithCorrelationID attaches a correlation id that is added to every entry
// logged with the returned context.
func CtxWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation id or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// CtxWithOrigin tags the context with the command that started the work.
func CtxWithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey, origin)
}

// OriginFromContext returns the origin or "".
func OriginFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	o, _ := ctx.Value(originKey).(string)
	return o
}

func Debug(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.DebugLevel, msg, fields)
}

func Info(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.InfoLevel, msg, fields)
}

func Warn(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.WarnLevel, msg, fields)
}

func Error(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.ErrorLevel, msg, fields)
}

func log(ctx context.Context, lvl zapcore.Level, msg string, fields Fields) {
	if !level.Enabled(lvl) {
		return
	}

	zf := make([]zap.Field, 0, len(fields)+2)
	if id := CorrelationIDFromContext(ctx); id != "" {
		zf = append(zf, zap.String(FieldCorrelationID, id))
	}
	if o := OriginFromContext(ctx); o != "" {
		zf = append(zf, zap.String(FieldOrigin, o))
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}

	mu.RLock()
	l := logger
	mu.RUnlock()

	if ce := l.Check(lvl, msg); ce != nil {
		ce.Write(zf...)
	}
}
