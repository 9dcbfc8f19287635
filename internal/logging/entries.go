// pattern: Functional Core

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// LogEntry is one parsed log line.
type LogEntry struct {
	Timestamp time.Time
	Level     string // DEBUG, INFO, WARN, ERROR
	Scope     string // logger scope, e.g. "sync"
	Message   string
	Fields    map[string]any
}

// String renders the entry on one line with fields in key order.
func (e LogEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(e.Level)
	sb.WriteString(" [")
	sb.WriteString(e.Scope)
	sb.WriteString("] ")
	sb.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}

	return sb.String()
}

// Field returns the string form of a field, or "" when absent.
func (e LogEntry) Field(key string) string {
	v, ok := e.Fields[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// ParseLevel normalizes a log level string to uppercase.
// Returns "INFO" for unknown levels.
func ParseLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}
