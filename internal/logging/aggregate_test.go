package logging

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestReadLogs(t *testing.T) {
	t.Run("parses entries written by Logger", func(t *testing.T) {
		dir := t.TempDir()

		logger, err := NewLogger(dir, LevelDebug, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		logger.WithRun("run-1").WithComponent("scheduler").Info("task resolved", "id", "A")
		logger.WithRun("run-1").Debug("exec")
		logger.WithRun("run-2").Error("run failed", "code", 3)
		_ = logger.Close()

		entries, err := ReadLogs(dir)
		if err != nil {
			t.Fatalf("ReadLogs failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}

		first := entries[0]
		if first.Message != "task resolved" {
			t.Errorf("Message = %q, want %q", first.Message, "task resolved")
		}
		if first.Level != LevelInfo {
			t.Errorf("Level = %q, want %q", first.Level, LevelInfo)
		}
		if first.RunID != "run-1" || first.Component != "scheduler" {
			t.Errorf("RunID/Component = %q/%q, want run-1/scheduler", first.RunID, first.Component)
		}
		if first.Attrs["id"] != "A" {
			t.Errorf("Attrs[id] = %v, want A", first.Attrs["id"])
		}
		if _, ok := first.Attrs["run_id"]; ok {
			t.Error("run_id should not be duplicated into Attrs")
		}
	})

	t.Run("returns error for missing log file", func(t *testing.T) {
		if _, err := ReadLogs(t.TempDir()); err == nil {
			t.Error("expected error for missing log file")
		}
	})

	t.Run("skips malformed lines and sorts by time", func(t *testing.T) {
		dir := t.TempDir()
		content := `{"time":"2026-01-02T10:00:02Z","level":"INFO","msg":"second"}
not json

{"time":"2026-01-02T10:00:01Z","level":"WARN","msg":"first"}
`
		if err := os.WriteFile(filepath.Join(dir, LogFileName), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		entries, err := ReadLogs(dir)
		if err != nil {
			t.Fatalf("ReadLogs failed: %v", err)
		}
		var got []string
		for _, e := range entries {
			got = append(got, e.Message)
		}
		if want := []string{"first", "second"}; !slices.Equal(got, want) {
			t.Errorf("messages = %v, want %v", got, want)
		}
	})
}

func TestFilterLogs(t *testing.T) {
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	entries := []LogEntry{
		{Timestamp: base, Level: LevelDebug, Message: "exec", RunID: "r1", Component: "script"},
		{Timestamp: base.Add(time.Second), Level: LevelInfo, Message: "run started", RunID: "r1"},
		{Timestamp: base.Add(2 * time.Second), Level: LevelWarn, Message: "command failed", RunID: "r2", Component: "tui"},
		{Timestamp: base.Add(3 * time.Second), Level: LevelError, Message: "run failed", RunID: "r2"},
	}

	tests := []struct {
		name   string
		filter LogFilter
		want   []string
	}{
		{name: "empty filter", filter: LogFilter{}, want: []string{"exec", "run started", "command failed", "run failed"}},
		{name: "level", filter: LogFilter{Level: "warn"}, want: []string{"command failed", "run failed"}},
		{name: "run", filter: LogFilter{RunID: "r1"}, want: []string{"exec", "run started"}},
		{name: "component", filter: LogFilter{Component: "tui"}, want: []string{"command failed"}},
		{name: "since", filter: LogFilter{Since: base.Add(2 * time.Second)}, want: []string{"command failed", "run failed"}},
		{name: "message", filter: LogFilter{MessageContains: "run"}, want: []string{"run started", "run failed"}},
		{name: "combined", filter: LogFilter{RunID: "r2", Level: "error"}, want: []string{"run failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range FilterLogs(entries, tt.filter) {
				got = append(got, e.Message)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("FilterLogs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuns(t *testing.T) {
	entries := []LogEntry{{RunID: "b"}, {}, {RunID: "a"}, {RunID: "b"}}
	if got, want := Runs(entries), []string{"b", "a"}; !slices.Equal(got, want) {
		t.Errorf("Runs() = %v, want %v", got, want)
	}
}
