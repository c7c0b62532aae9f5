package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ProcessName identifies the binary a logger belongs to. It becomes the log
// file name when file output is enabled.
type ProcessName string

const (
	APIProcess     ProcessName = "api"
	LoadgenProcess ProcessName = "loadgen"
)

type LoggerConfig struct {
	ProcessName   ProcessName
	IsDevelopment bool
	LogDir        string // when set, logs are written to <LogDir>/<process>.log in addition to stdout
}

// ZapLogger wraps a zap.SugaredLogger behind the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ Logger = (*ZapLogger)(nil)

// NewZapLogger builds a logger from the given config. Development mode prints
// debug and above with the console encoder, production mode prints info and
// above as JSON.
func NewZapLogger(config LoggerConfig) (*ZapLogger, error) {
	var cfg zap.Config
	if config.IsDevelopment {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.OutputPaths = []string{"stdout"}
	if config.LogDir != "" {
		if err := os.MkdirAll(config.LogDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		logPath := filepath.Join(config.LogDir, fmt.Sprintf("%s.log", config.ProcessName))
		cfg.OutputPaths = append(cfg.OutputPaths, logPath)
	}

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return &ZapLogger{sugar: logger.Sugar()}, nil
}

func (z *ZapLogger) Debug(msg string, tags ...any) {
	z.sugar.Debugw(msg, tags...)
}

func (z *ZapLogger) Info(msg string, tags ...any) {
	z.sugar.Infow(msg, tags...)
}

func (z *ZapLogger) Warn(msg string, tags ...any) {
	z.sugar.Warnw(msg, tags...)
}

func (z *ZapLogger) Error(msg string, tags ...any) {
	z.sugar.Errorw(msg, tags...)
}

func (z *ZapLogger) Debugf(template string, args ...any) {
	z.sugar.Debugf(template, args...)
}

func (z *ZapLogger) Infof(template string, args ...any) {
	z.sugar.Infof(template, args...)
}

func (z *ZapLogger) Warnf(template string, args ...any) {
	z.sugar.Warnf(template, args...)
}

func (z *ZapLogger) Errorf(template string, args ...any) {
	z.sugar.Errorf(template, args...)
}

func (z *ZapLogger) Fatalf(template string, args ...any) {
	z.sugar.Fatalf(template, args...)
}

func (z *ZapLogger) With(tags ...any) Logger {
	return &ZapLogger{sugar: z.sugar.With(tags...)}
}

// Sync flushes buffered log entries. Callers should invoke it on shutdown;
// sync errors on stdout are expected and safe to ignore.
func (z *ZapLogger) Sync() error {
	return z.sugar.Sync()
}
