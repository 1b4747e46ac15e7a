// Package logging builds the structured zap logger shared by every binary.
//
// The HTTP daemon logs JSON to stdout. When the process serves MCP over
// stdio, stdout belongs to the protocol and logs must go to stderr instead.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options control logger construction.
type Options struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string
	// Format is "json" or "console".
	Format string
	// Stderr routes all output to stderr. Required in stdio mode where
	// stdout carries protocol frames.
	Stderr bool
}

// New builds a zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch opts.Format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	case "json", "":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	out := zapcore.Lock(os.Stdout)
	if opts.Stderr {
		out = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(encoder, out, level)
	return zap.New(core, zap.AddCaller()), nil
}
