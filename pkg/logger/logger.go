// Package logger provides structured logging with context support.
package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "ibeer/internal/core/context"
)

// Logger wraps zap.SugaredLogger. Calls made through the package-level
// helpers pick it up from the context.
type Logger struct {
	*zap.SugaredLogger
}

type loggerKey struct{}

// Config holds logger configuration.
type Config struct {
	Level       string // debug, info, warn, error; anything else means info
	Development bool   // console encoder with colored levels
	OutputPaths []string
}

var (
	fallbackOnce sync.Once
	fallback     *Logger
)

// New builds a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if len(cfg.OutputPaths) > 0 {
		zcfg.OutputPaths = cfg.OutputPaths
	}

	// Skip the package-level helpers so callers show up in the caller field.
	z, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{z.Sugar()}, nil
}

// Default returns a process-wide production logger on stdout.
func Default() *Logger {
	fallbackOnce.Do(func() {
		l, err := New(Config{Level: "info", OutputPaths: []string{"stdout"}})
		if err != nil {
			l = Nop()
		}
		fallback = l
	})
	return fallback
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// WithContext attaches the trace and request ids found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	trace := appctx.GetTrace(ctx)
	if trace == nil {
		return l
	}
	return &Logger{l.SugaredLogger.With("trace_id", trace.TraceID, "request_id", trace.RequestID)}
}

// WithComponent tags every entry with the subsystem that wrote it.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.SugaredLogger.With("component", name)}
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in ctx, or Default, with trace fields attached.
func FromContext(ctx context.Context) *Logger {
	l, ok := ctx.Value(loggerKey{}).(*Logger)
	if !ok {
		l = Default()
	}
	return l.WithContext(ctx)
}

// Component is FromContext tagged with a component name.
func Component(ctx context.Context, name string) *Logger {
	return FromContext(ctx).WithComponent(name)
}

func Info(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Infow(msg, keysAndValues...)
}

func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Warnw(msg, keysAndValues...)
}

func Error(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Errorw(msg, keysAndValues...)
}
