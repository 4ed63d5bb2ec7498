package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the configuration for the logger
type Config struct {
	Level         string `yaml:"level"          json:"level"`
	FilePath      string `yaml:"file_path"      json:"file_path"`
	Format        string `yaml:"format"         json:"format"`
	WithTrace     bool   `yaml:"with_trace"     json:"with_trace"`
	EnableConsole bool   `yaml:"enable_console" json:"enable_console"`
	InstantSync   bool   `yaml:"instant_sync"   json:"instant_sync"`
}

// Initialize replaces the global logger with one built from config.
func Initialize(config Config) error {
	GlobalEnableConsoleLogger = config.EnableConsole
	GlobalEnableFileLogger = config.FilePath != ""
	GlobalInstantSync = config.InstantSync
	if config.FilePath != "" {
		GlobalLogPath = config.FilePath
	}

	GlobalLogLevel = config.Level
	if GlobalLogLevel == "" {
		GlobalLogLevel = InfoLogLevel
	}
	level := getZapLevel(GlobalLogLevel)

	var cores []zapcore.Core
	if config.EnableConsole {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	if config.FilePath != "" {
		fileCore, err := createFileCore(level, config.Format)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, fileCore)
	}

	opts := []zap.Option{zap.AddCaller()}
	if config.WithTrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	SetGlobalLogger(&Logger{Logger: zap.New(zapcore.NewTee(cores...), opts...).Named(loggerName)})
	return nil
}
