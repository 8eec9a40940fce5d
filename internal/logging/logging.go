// Package logging builds the zap logger used by the command line and logs
// composition events.
package logging

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hanpama/supergraph/internal/eventbus"
	"github.com/hanpama/supergraph/internal/events"
	"github.com/hanpama/supergraph/internal/runid"
)

// New builds a logger writing to stderr at level.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Subscribe logs composition events published on bus.
func Subscribe(bus *eventbus.Bus, logger *zap.Logger) {
	eventbus.Subscribe(bus, func(ctx context.Context, e events.CompositionStart) {
		with(ctx, logger).Info("composition started",
			zap.String("contract", e.Contract),
			zap.Strings("subgraphs", e.Subgraphs),
		)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.CompositionFinish) {
		l := with(ctx, logger)
		fields := []zap.Field{
			zap.String("contract", e.Contract),
			zap.Int("errors", len(e.Errors)),
			zap.Int("warnings", e.Warnings),
			zap.Duration("duration", e.Duration),
		}
		if len(e.Errors) > 0 {
			l.Warn("composition failed", fields...)
			return
		}
		l.Info("composition finished", fields...)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.NormalizationStart) {
		with(ctx, logger).Debug("normalization started",
			zap.String("contract", e.Contract),
			zap.String("subgraph", e.Subgraph),
		)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.NormalizationFinish) {
		with(ctx, logger).Debug("normalization finished",
			zap.String("contract", e.Contract),
			zap.String("subgraph", e.Subgraph),
			zap.Errors("errors", e.Errors),
			zap.Int("warnings", e.Warnings),
			zap.Duration("duration", e.Duration),
		)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.FederationStart) {
		with(ctx, logger).Debug("federation started",
			zap.String("contract", e.Contract),
			zap.Int("subgraphs", e.Subgraphs),
		)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.FederationFinish) {
		with(ctx, logger).Debug("federation finished",
			zap.String("contract", e.Contract),
			zap.Errors("errors", e.Errors),
			zap.Int("warnings", e.Warnings),
			zap.Duration("duration", e.Duration),
		)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.ResolvabilityStart) {
		with(ctx, logger).Debug("resolvability started", zap.String("contract", e.Contract))
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.ResolvabilityFinish) {
		with(ctx, logger).Debug("resolvability finished",
			zap.String("contract", e.Contract),
			zap.Errors("errors", e.Errors),
			zap.Int("warnings", e.Warnings),
			zap.Duration("duration", e.Duration),
		)
	})
}

func with(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id, ok := runid.FromContext(ctx); ok {
		return logger.With(zap.String("run_id", id))
	}
	return logger
}
