// Package observability provides logging and metrics for the rules engine.
package observability

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/raianasancho/gcsga/internal/config"
	"github.com/raianasancho/gcsga/internal/game/roll"
)

// NewLogger builds the process logger. Output goes to stderr so that
// command output on stdout stays clean, and every entry is named "gcsga".
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
		// Every roll is logged; sampling would drop bursts of them.
		zapCfg.Sampling = nil
		zapCfg.EncoderConfig.MessageKey = "message"
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("gcsga"), nil
}

// RollFields are the structured fields that identify a roll result in the
// log.
func RollFields(r *roll.Result) []zap.Field {
	fields := []zap.Field{
		zap.String("roll_id", r.ID),
		zap.String("type", string(r.Type)),
		zap.String("name", r.Name),
		zap.Int("total", r.Total),
	}
	if r.UserID != "" {
		fields = append(fields, zap.String("user", r.UserID))
	}
	if r.Outcome != nil {
		fields = append(fields,
			zap.Int("effective_level", r.Outcome.EffectiveLevel),
			zap.String("success", string(r.Outcome.Success)),
			zap.Int("margin", r.Outcome.Margin),
		)
	}
	if r.Location != "" {
		fields = append(fields, zap.String("location", r.Location))
	}
	return fields
}

// RollLogger is a publisher that writes each result to logger. Hidden
// rolls are only logged at debug level.
func RollLogger(logger *zap.Logger) roll.Publisher {
	return roll.PublisherFunc(func(_ context.Context, r *roll.Result) error {
		level := zapcore.InfoLevel
		if r.Hidden {
			level = zapcore.DebugLevel
		}
		if ce := logger.Check(level, "roll resolved"); ce != nil {
			ce.Write(RollFields(r)...)
		}
		return nil
	})
}
