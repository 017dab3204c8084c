package telemetry

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes one JSON object per event. The file rotates at 10 MB.
type Logger interface {
	Info(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Close() error
}

type JSONLogger struct {
	mu     sync.Mutex
	zl     *zap.Logger
	closer func() error
}

// NewJSONLogger logs to path. An empty path discards every event.
func NewJSONLogger(path string, debug bool) (*JSONLogger, error) {
	if path == "" {
		return &JSONLogger{zl: zap.NewNop(), closer: func() error { return nil }}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	rot := &lumberjack.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rot), level)
	zl := zap.New(core).With(zap.String("app", "treasuregate"))
	return &JSONLogger{
		zl: zl,
		closer: func() error {
			_ = zl.Sync()
			return rot.Close()
		},
	}, nil
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	if zl := l.logger(); zl != nil {
		zl.Info(msg, toFields(fields)...)
	}
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	if zl := l.logger(); zl != nil {
		zl.Error(msg, toFields(fields)...)
	}
}

func (l *JSONLogger) logger() *zap.Logger {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

func (l *JSONLogger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer()
	l.closer = nil
	l.zl = zap.NewNop()
	return err
}

func toFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
