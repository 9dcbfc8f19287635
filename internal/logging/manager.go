// pattern: Imperative Shell

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the Manager.
type Config struct {
	FilePath   string    // Path to the JSON log file
	MaxSizeMB  int       // Max size in MB before rotation
	MaxBackups int       // Max number of old log files to keep
	MaxAgeDays int       // Max days to keep old log files
	Level      string    // Minimum log level (debug, info, warn, error)
	Console    io.Writer // Optional human-readable mirror (e.g. os.Stderr for --verbose)
}

// Manager owns the zap core and hands out cached scoped loggers.
// Entries go to a rotating JSON file and, when Console is set, to a
// console encoder as well.
type Manager struct {
	baseZap    *zap.Logger
	fileWriter *lumberjack.Logger
	loggers    map[string]*ScopedLogger
	mu         sync.RWMutex
	level      zapcore.Level
}

// NewManager creates a log manager with the given configuration.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("FilePath is required")
	}

	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 3
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 14
	}

	level := ParseZapLevel(cfg.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewJSONEncoder(jsonEncoderConfig()),
			zapcore.AddSync(fileWriter),
			level,
		),
	}

	if cfg.Console != nil {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.TimeKey = ""
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.Lock(zapcore.AddSync(cfg.Console)),
			level,
		))
	}

	return &Manager{
		baseZap:    zap.New(zapcore.NewTee(cores...)),
		fileWriter: fileWriter,
		loggers:    make(map[string]*ScopedLogger),
		level:      level,
	}, nil
}

// For returns a logger for the given scope. Loggers are cached per scope.
func (m *Manager) For(scope string) *ScopedLogger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := newScopedLogger(m.baseZap.Named(scope), m.level, scope)
	m.loggers[scope] = logger
	return logger
}

// Sync flushes all buffered logs.
func (m *Manager) Sync() error {
	return m.baseZap.Sync()
}

// Close syncs and closes the log file.
func (m *Manager) Close() error {
	_ = m.Sync()
	return m.fileWriter.Close()
}

// ParseZapLevel parses a level name, falling back to info.
func ParseZapLevel(name string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.EpochTimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return encoderCfg
}
