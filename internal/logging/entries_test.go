// pattern: Functional Core

package logging

import (
	"strings"
	"testing"
	"time"
)

func TestLogEntry_String(t *testing.T) {
	tests := []struct {
		name     string
		entry    LogEntry
		contains []string
	}{
		{
			name: "basic entry",
			entry: LogEntry{
				Timestamp: time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC),
				Level:     "INFO",
				Scope:     "app",
				Message:   "application started",
			},
			contains: []string{"10:30:00", "INFO", "app", "application started"},
		},
		{
			name: "entry with fields",
			entry: LogEntry{
				Timestamp: time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC),
				Level:     "ERROR",
				Scope:     "github",
				Message:   "operation failed",
				Fields:    map[string]any{"error": "connection refused"},
			},
			contains: []string{"ERROR", "github", "operation failed", "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entry.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("String() = %q, should contain %q", got, want)
				}
			}
		})
	}
}

func TestLogEntry_StringSortsFields(t *testing.T) {
	entry := LogEntry{
		Timestamp: time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC),
		Level:     "INFO",
		Scope:     "sync",
		Message:   "transition",
		Fields:    map[string]any{"to": "pushed", "from": "branch_ready"},
	}
	want := "10:30:00 INFO [sync] transition from=branch_ready to=pushed"
	if got := entry.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLogEntry_Field(t *testing.T) {
	entry := LogEntry{Fields: map[string]any{"pr": float64(42), "branch": "feature/x"}}
	if got := entry.Field("branch"); got != "feature/x" {
		t.Errorf("Field(branch) = %q", got)
	}
	if got := entry.Field("pr"); got != "42" {
		t.Errorf("Field(pr) = %q", got)
	}
	if got := entry.Field("missing"); got != "" {
		t.Errorf("Field(missing) = %q, want empty", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"DEBUG", "DEBUG"},
		{"info", "INFO"},
		{"INFO", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"ERROR", "ERROR"},
		{"unknown", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
