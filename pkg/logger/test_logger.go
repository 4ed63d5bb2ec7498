package logger

import (
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger captures every message written through it so tests can assert on them.
type TestLogger struct {
	*Logger
	observed *observer.ObservedLogs
	mu       sync.Mutex
}

// NewTestLogger tees output to t.Log and to an in-memory observer.
func NewTestLogger(t *testing.T) *TestLogger {
	core, observed := observer.New(zapcore.DebugLevel)
	testCore := zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel)).Core()
	zl := zap.New(zapcore.NewTee(core, testCore)).Named(loggerName)
	return &TestLogger{
		Logger:   &Logger{Logger: zl, verbose: true},
		observed: observed,
	}
}

// GetLogs returns the captured messages in order.
func (tl *TestLogger) GetLogs() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	entries := tl.observed.All()
	logs := make([]string, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, e.Message)
	}
	return logs
}

// Contains reports whether any captured message contains substr.
func (tl *TestLogger) Contains(substr string) bool {
	for _, msg := range tl.GetLogs() {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
