// Package observability builds the command-line logger.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/creatures/internal/config"
)

// consoleTimeLayout keeps console lines short; file and JSON output carry
// full ISO8601 timestamps.
const consoleTimeLayout = "15:04:05"

// NewLogger builds a logger for the creatures commands.
//
// Format "console" (or empty) writes tab-separated lines without caller
// information; "json" writes one object per line. Output is "stderr",
// "stdout" or a file path, and defaults to stderr so logs never mix with
// the game text on stdout. Stack traces are attached only from DPanic up.
//
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	enc, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	output := cfg.Output
	if output == "" {
		output = "stderr"
	}
	sink, _, err := zap.Open(output)
	if err != nil {
		return nil, fmt.Errorf("opening log output %q: %w", output, err)
	}
	errSink, _, err := zap.Open("stderr")
	if err != nil {
		return nil, fmt.Errorf("opening error output: %w", err)
	}

	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core,
		zap.ErrorOutput(errSink),
		zap.AddStacktrace(zapcore.DPanicLevel),
	), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	switch format {
	case "", "console":
		ec := zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			MessageKey:       "msg",
			StacktraceKey:    "stacktrace",
			LineEnding:       zapcore.DefaultLineEnding,
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeTime:       zapcore.TimeEncoderOfLayout(consoleTimeLayout),
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: "\t",
		}
		return zapcore.NewConsoleEncoder(ec), nil
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeDuration = zapcore.StringDurationEncoder
		return zapcore.NewJSONEncoder(ec), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}
