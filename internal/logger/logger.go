package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the rotating log file used outside debug mode.
// Zero values fall back to ./logs/app.log, 100MB, 7 backups, 30 days.
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Filename) == "" {
		o.Filename = "app.log"
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 100
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 7
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 30
	}
	return o
}

// Init builds the process logger and installs it as zap's global,
// which Warnw and Errorw write through.
func Init(mode string, opts Options) *zap.Logger {
	l := New(mode, opts)
	zap.ReplaceGlobals(l)
	return l
}

// New logs to the console at debug level in debug mode and to a rotated JSON
// file at info level otherwise. If the file cannot be opened it falls back to stdout.
func New(mode string, opts Options) *zap.Logger {
	if strings.EqualFold(strings.TrimSpace(mode), "debug") {
		return build(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(os.Stdout), zapcore.DebugLevel)
	}

	sink, err := fileSink(opts.withDefaults())
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, writing to stdout: %v\n", err)
		sink = zapcore.AddSync(os.Stdout)
	}
	return build(zapcore.NewJSONEncoder(encoderConfig()), sink, zapcore.InfoLevel)
}

func Warnw(msg string, kv ...interface{}) {
	zap.S().Warnw(msg, kv...)
}

func Errorw(msg string, kv ...interface{}) {
	zap.S().Errorw(msg, kv...)
}

func build(enc zapcore.Encoder, sink zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	return zap.New(zapcore.NewCore(enc, sink, level), zap.AddCaller())
}

func encoderConfig() zapcore.EncoderConfig {
	c := zap.NewProductionEncoderConfig()
	c.TimeKey = "time"
	c.MessageKey = "message"
	c.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncodeDuration = zapcore.MillisDurationEncoder
	c.EncodeLevel = zapcore.LowercaseLevelEncoder
	c.EncodeCaller = zapcore.ShortCallerEncoder
	return c
}

func fileSink(opts Options) (zapcore.WriteSyncer, error) {
	path, err := logFilePath(opts)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}), nil
}

// logFilePath creates the directory and checks the file is writable before
// lumberjack takes over, so a bad path is reported at startup.
func logFilePath(opts Options) (string, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, strings.TrimSpace(opts.Filename))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	return path, f.Close()
}
