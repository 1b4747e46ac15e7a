package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"json info", Options{Level: "info", Format: "json"}, false},
		{"console debug", Options{Level: "debug", Format: "console"}, false},
		{"empty format defaults to json", Options{Level: "warn"}, false},
		{"stderr for stdio mode", Options{Level: "info", Format: "json", Stderr: true}, false},
		{"bad level", Options{Level: "loud", Format: "json"}, true},
		{"bad format", Options{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if logger == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestNewLevelFiltering(t *testing.T) {
	logger, err := New(Options{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info enabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error not enabled at warn level")
	}
}
