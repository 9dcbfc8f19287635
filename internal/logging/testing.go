// pattern: Imperative Shell

package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NopLogger returns a logger that discards all output.
// Use in tests or when logging is not configured.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager is a LoggerProvider for tests. Entries are kept in memory
// by a zap observer core so tests can assert on what was logged.
type TestLogManager struct {
	observed *observer.ObservedLogs
	baseZap  *zap.Logger
	loggers  map[string]*ScopedLogger
	mu       sync.RWMutex
}

// NewTestLogManager creates a TestLogManager recording every level.
func NewTestLogManager() *TestLogManager {
	core, observed := observer.New(zapcore.DebugLevel)
	return &TestLogManager{
		observed: observed,
		baseZap:  zap.New(core),
		loggers:  make(map[string]*ScopedLogger),
	}
}

// For returns a scoped logger for the given scope name.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := newScopedLogger(m.baseZap.Named(scope), zapcore.DebugLevel, scope)
	m.loggers[scope] = logger
	return logger
}

// Drain returns every entry logged since the last Drain and forgets them.
func (m *TestLogManager) Drain() []LogEntry {
	taken := m.observed.TakeAll()
	entries := make([]LogEntry, 0, len(taken))
	for _, e := range taken {
		entries = append(entries, LogEntry{
			Timestamp: e.Time,
			Level:     ParseLevel(e.Level.String()),
			Scope:     e.LoggerName,
			Message:   e.Message,
			Fields:    e.ContextMap(),
		})
	}
	return entries
}

// Transition is one logged state change of a sync run.
type Transition struct {
	From  string
	Event string
	To    string
}

// Transitions returns the "sync transition" entries logged so far, in
// order, without consuming them.
func (m *TestLogManager) Transitions() []Transition {
	var out []Transition
	for _, e := range m.observed.FilterMessage("sync transition").All() {
		fields := e.ContextMap()
		out = append(out, Transition{
			From:  stringField(fields, "from"),
			Event: stringField(fields, "event"),
			To:    stringField(fields, "to"),
		})
	}
	return out
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
