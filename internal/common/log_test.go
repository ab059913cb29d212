package common

import (
	"fmt"
	"log/slog"
	"testing"
	"time"
)

func TestLoggerCapturesHistory(t *testing.T) {
	Logger().Warn("test warning message", "segment", 3)

	entries := LogEntries()
	if len(entries) == 0 {
		t.Fatalf("expected captured log entries")
	}
	last := entries[len(entries)-1]
	if last.Message != "test warning message" {
		t.Fatalf("last entry: %+v", last)
	}
	if last.Level != "warn" {
		t.Fatalf("level: %q", last.Level)
	}
	if got, ok := last.Attributes["segment"]; !ok || got != int64(3) {
		t.Fatalf("attributes: %+v", last.Attributes)
	}
	if last.Time.IsZero() {
		t.Fatalf("entry missing timestamp")
	}
}

func TestLogEntriesReturnsCopy(t *testing.T) {
	Logger().Info("first snapshot marker")
	first := LogEntries()
	Logger().Info("second snapshot marker")
	second := LogEntries()

	if len(second) <= len(first) {
		t.Fatalf("history should grow: %d then %d", len(first), len(second))
	}
	first[len(first)-1].Message = "mutated"
	fresh := LogEntries()
	if fresh[len(first)-1].Message == "mutated" {
		t.Fatalf("callers must not be able to mutate the shared history")
	}
}

func TestLogSinkBoundsHistory(t *testing.T) {
	bounded := newLogSink(3)
	for i := 0; i < 10; i++ {
		bounded.capture(slog.NewRecord(time.Now(), slog.LevelInfo, fmt.Sprintf("entry %d", i), 0))
	}
	entries := bounded.entries()
	if len(entries) != 3 {
		t.Fatalf("history should be capped at 3, got %d", len(entries))
	}
	if entries[0].Message != "entry 7" || entries[2].Message != "entry 9" {
		t.Fatalf("oldest entries should be evicted first: %+v", entries)
	}
}
