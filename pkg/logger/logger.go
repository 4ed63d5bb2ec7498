package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogFilePermissions = 0600
	InfoLogLevel       = "info"
	loggerName         = "convergence"
)

var (
	globalLogger *zap.Logger
	loggerMutex  sync.RWMutex
	once         sync.Once

	GlobalEnableConsoleLogger bool
	GlobalEnableFileLogger    bool
	GlobalLogPath             = "/tmp/convergence.log"
	GlobalLogLevel            = InfoLogLevel
	GlobalInstantSync         bool
	GlobalLogFile             *os.File
)

// Logger wraps a zap logger with printf-style helpers.
type Logger struct {
	*zap.Logger
	verbose bool
}

// InitLoggerOutputs pulls logger settings from viper's general.* keys.
func InitLoggerOutputs() {
	GlobalEnableConsoleLogger = false
	GlobalEnableFileLogger = true
	GlobalLogLevel = InfoLogLevel

	if viper.IsSet("general.log_path") {
		GlobalLogPath = viper.GetString("general.log_path")
	}
	if viper.IsSet("general.log_level") {
		GlobalLogLevel = viper.GetString("general.log_level")
	}
	if viper.IsSet("general.enable_console_logger") {
		GlobalEnableConsoleLogger = viper.GetBool("general.enable_console_logger")
	}
	if viper.IsSet("general.enable_file_logger") {
		GlobalEnableFileLogger = viper.GetBool("general.enable_file_logger")
	}
}

// InitProduction builds the global logger from the Global* settings once.
func InitProduction() {
	once.Do(func() {
		level := zap.NewAtomicLevelAt(getZapLevel(GlobalLogLevel))

		var cores []zapcore.Core
		if GlobalEnableConsoleLogger {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewConsoleEncoder(consoleEncoderConfig()),
				zapcore.AddSync(os.Stderr),
				level,
			))
		}
		if GlobalEnableFileLogger {
			if fileCore, err := createFileCore(level, "json"); err == nil {
				cores = append(cores, fileCore)
			}
		}

		globalLogger = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(loggerName)
	})
}

func baseEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := baseEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = nil
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("15:04:05"))
	}
	return cfg
}

func createFileCore(level zapcore.LevelEnabler, format string) (zapcore.Core, error) {
	logFile, err := os.OpenFile(
		GlobalLogPath,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		LogFilePermissions,
	)
	if err != nil {
		return nil, err
	}
	GlobalLogFile = logFile

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(baseEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(baseEncoderConfig())
	}

	return zapcore.NewCore(encoder, zapcore.AddSync(logFile), level), nil
}

func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

func (l *Logger) syncIfNeeded() {
	if GlobalInstantSync {
		_ = l.Sync()
	}
}

func (l *Logger) log(level zapcore.Level, msg string, fields ...zap.Field) {
	if l.Logger == nil {
		return
	}
	if ce := l.Logger.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
	l.syncIfNeeded()
}

func (l *Logger) Debug(msg string) { l.log(zapcore.DebugLevel, msg) }
func (l *Logger) Info(msg string)  { l.log(zapcore.InfoLevel, msg) }
func (l *Logger) Warn(msg string)  { l.log(zapcore.WarnLevel, msg) }
func (l *Logger) Error(msg string) { l.log(zapcore.ErrorLevel, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}
func (l *Logger) Infof(format string, args ...interface{}) { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) DebugWithFields(msg string, fields ...zap.Field) {
	l.log(zapcore.DebugLevel, msg, fields...)
}

func (l *Logger) InfoWithFields(msg string, fields ...zap.Field) {
	l.log(zapcore.InfoLevel, msg, fields...)
}

func (l *Logger) WarnWithFields(msg string, fields ...zap.Field) {
	l.log(zapcore.WarnLevel, msg, fields...)
}

func (l *Logger) ErrorWithFields(msg string, fields ...zap.Field) {
	l.log(zapcore.ErrorLevel, msg, fields...)
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	if l.Logger == nil {
		return l
	}
	return &Logger{Logger: l.Logger.With(fields...), verbose: l.verbose}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(fmt.Sprintf("[%s]", t.Format("2006-01-02 15:04:05")))
}

func getZapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the process-wide logger, initializing it on first use.
func Get() *Logger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if globalLogger == nil {
		InitProduction()
	}
	return &Logger{Logger: globalLogger}
}

func SetGlobalLogger(l *Logger) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	globalLogger = l.Logger
}

func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}
