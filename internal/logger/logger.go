package logger

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop()

// Init replaces the global logger. format is "json" or "console".
func Init(level string, format string) error {
	l, err := New(level, format)
	if err != nil {
		return err
	}

	global = l
	global.Info("logger initialized")
	return nil
}

func New(level string, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logger: invalid level %q: %w", level, err)
	}

	var (
		encoding string
		encCfg   zapcore.EncoderConfig
	)

	switch format {
	case "json", "":
		encoding = "json"
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	case "console":
		encoding = "console"
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("logger: unknown format %q", format)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          encoding,
		EncoderConfig:     encCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}

	return cfg.Build(zap.AddCallerSkip(1))
}

// Set swaps the global logger and returns a func restoring the previous one.
func Set(l *zap.Logger) func() {
	prev := global
	global = l
	return func() { global = prev }
}

func Sync() {
	_ = global.Sync()
}

func Debug(msg string, fields map[string]any) {
	global.Debug(msg, toZap(fields)...)
}

func Info(msg string, fields map[string]any) {
	global.Info(msg, toZap(fields)...)
}

func Warn(msg string, fields map[string]any) {
	global.Warn(msg, toZap(fields)...)
}

func Error(msg string, fields map[string]any) {
	global.Error(msg, toZap(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	global.Error(msg, toZap(fields)...)
	Sync()
	os.Exit(1)
}

// toZap keeps field order stable so log lines diff cleanly.
func toZap(fields map[string]any) []zap.Field {
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
