package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultLoggerRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWriterLogger(&out, &errOut, false)
	logger.SetLevel(DebugLevel)

	child := logger.WithFields(Fields{"component": "matcher"})
	child.Debug("ranking built", Fields{"candidates": 1})
	child.Warn("no candidates")
	child.Error(errors.New("boom"), "decode failed")

	if !strings.Contains(out.String(), "[DEBUG] ranking built candidates=1 component=matcher") {
		t.Errorf("stdout missing debug line: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[WARN] no candidates component=matcher") {
		t.Errorf("stderr missing warn line: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "[ERROR] decode failed: boom") {
		t.Errorf("stderr missing error line: %q", errOut.String())
	}
}

func TestLevelSharedWithChildren(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, &out, false)
	child := logger.WithFields(Fields{"component": "x"})

	logger.SetLevel(WarnLevel)
	child.Info("hidden")
	if out.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", out.String())
	}
}

func TestWithContext(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, &out, false)
	ctx := ContextWithFields(context.Background(), Fields{"file": "a.wav"})

	logger.WithContext(ctx).Info("start")
	if !strings.Contains(out.String(), "file=a.wav") {
		t.Errorf("context fields not applied: %q", out.String())
	}
}
