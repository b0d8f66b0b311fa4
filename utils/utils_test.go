package utils

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	if !s.Add("https://www.subito.it/a.htm") {
		t.Error("first Add should return true")
	}
	if s.Add("https://www.subito.it/a.htm") {
		t.Error("second Add of same URL should return false")
	}
	if !s.Add("https://www.subito.it/b.htm") {
		t.Error("Add of a different URL should return true")
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond}

	err := r.Do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	sentinel := errors.New("down")
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond}

	err := r.Do(context.Background(), "fetch", func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
}

func TestRetryReturnsPermanentErrorImmediately(t *testing.T) {
	calls := 0
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour}

	err := r.Do(context.Background(), "fetch", func() error {
		calls++
		return Permanent(errors.New("http status 404"))
	})
	if !errors.Is(err, ErrPermanent) {
		t.Errorf("expected ErrPermanent, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected cause in message, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	r := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Hour}

	err := r.Do(ctx, "op", func() error {
		calls++
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerWithWriters(LevelWarn, &out, &errOut)

	l.Info("hidden %d", 1)
	l.Debug("hidden too")
	l.Warn("shown %s", "warn")
	l.Error("shown %s", "error")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("info/debug should be filtered: %q", out.String())
	}
	if !strings.Contains(out.String(), "shown warn") {
		t.Errorf("warn missing: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "shown error") {
		t.Errorf("error missing: %q", errOut.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}
