package log

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/fastbin/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
//
// Loggers derived through With share the level of their parent, so a
// SetLevel on the provider applies to every logger handed out by it.
type ZerologLogger struct {
	zl    zerolog.Logger
	level *atomic.Int64
}

// NewZerologLogger creates a JSON logger writing to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	lv := &atomic.Int64{}
	lv.Store(int64(level))
	return &ZerologLogger{
		zl:    zerolog.New(w).With().Timestamp().Logger(),
		level: lv,
	}
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) { l.log(LevelDebug, msg, fields) }

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) { l.log(LevelInfo, msg, fields) }

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) { l.log(LevelWarn, msg, fields) }

// Error implements Logger.Error.
func (l *ZerologLogger) Error(msg string, fields ...any) { l.log(LevelError, msg, fields) }

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	if err, rest, ok := splitError(fields); ok {
		ctx = ctx.Err(err)
		fields = rest
	}
	if kv := evenFields(fields); len(kv) > 0 {
		ctx = ctx.Fields(kv)
	}
	return &ZerologLogger{zl: ctx.Logger(), level: l.level}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= Level(l.level.Load())
}

func (l *ZerologLogger) log(level Level, msg string, fields []any) {
	if level < Level(l.level.Load()) {
		return
	}
	ev := l.zl.WithLevel(toZerologLevel(level))
	if err, rest, ok := splitError(fields); ok {
		ev = ev.Err(err)
		fields = rest
	}
	if kv := evenFields(fields); len(kv) > 0 {
		ev = ev.Fields(kv)
	}
	ev.Msg(msg)
}

// splitError pulls a leading error out of a field list.
func splitError(fields []any) (error, []any, bool) {
	if len(fields) == 0 {
		return nil, fields, false
	}
	if err, ok := fields[0].(error); ok {
		return err, fields[1:], true
	}
	return nil, fields, false
}

// evenFields drops a dangling key; zerolog indexes key-value lists in pairs.
func evenFields(fields []any) []any {
	if len(fields)%2 == 1 {
		return fields[:len(fields)-1]
	}
	return fields
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level >= LevelError:
		return zerolog.ErrorLevel
	case level >= LevelWarn:
		return zerolog.WarnLevel
	case level >= LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// ZerologProvider is the default LoggerProvider.
type ZerologProvider struct {
	mu     sync.RWMutex
	root   *ZerologLogger
	levels *atomic.Int64
}

// NewZerologProvider creates a provider writing to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	root := NewZerologLogger(w, level)
	return &ZerologProvider{root: root, levels: root.level}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.root
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.levels.Store(int64(level))
}

// SetOutput redirects the provider. Loggers obtained before the call keep
// writing to the previous destination.
func (p *ZerologProvider) SetOutput(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = &ZerologLogger{
		zl:    zerolog.New(w).With().Timestamp().Logger(),
		level: p.levels,
	}
}

var defaultProvider = NewZerologProvider(os.Stderr, LevelInfo)

func init() {
	// ライブラリ全体の警告をzerologに流す
	errors.SetZerologWarnFunc(func(w error) {
		logger := GetLoggerWithName("warnings")
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			logger.Warn(w.Error(), "warning", m)
			return
		}
		logger.Warn(w.Error())
	})
}

// GetLogger returns the package default logger.
func GetLogger() Logger { return defaultProvider.GetLogger() }

// GetLoggerWithName returns the default logger tagged with a component name.
func GetLoggerWithName(name string) Logger { return defaultProvider.GetLoggerWithName(name) }

// SetLevel sets the minimum level of the default provider.
func SetLevel(level Level) { defaultProvider.SetLevel(level) }

// SetOutput redirects the default provider.
func SetOutput(w io.Writer) { defaultProvider.SetOutput(w) }
