package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the API logger: JSON in production, colored console otherwise.
// An empty level keeps the environment default (info in production, debug
// elsewhere).
func New(env, level string) (*zap.Logger, error) {
	return build(env, level, zapcore.Lock(os.Stdout))
}

// NewCLI creates a console logger on stderr so command output on stdout stays
// machine-readable.
func NewCLI(verbose bool) *zap.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}

	logger, err := build("cli", level, zapcore.Lock(os.Stderr))
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func build(env, level string, out zapcore.WriteSyncer) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	atomic := zap.NewAtomicLevelAt(zapcore.DebugLevel)

	if env == "production" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
		atomic.SetLevel(zapcore.InfoLevel)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		atomic.SetLevel(parsed)
	}

	core := zapcore.NewCore(encoder, out, atomic)
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	), nil
}
