package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hanpama/supergraph/internal/eventbus"
	"github.com/hanpama/supergraph/internal/events"
	"github.com/hanpama/supergraph/internal/runid"
)

// Setup configures OpenTelemetry and attaches span subscribers to bus.
// If endpoint is empty, no telemetry is configured.
func Setup(bus *eventbus.Bus, endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	Subscribe(bus, tp.Tracer("supergraph"))
	return tp.Shutdown, nil
}

// Subscribe records composition events on bus as spans of tracer. A
// composition span parents the other spans of the same run and contract.
func Subscribe(bus *eventbus.Bus, tracer trace.Tracer) {
	s := &subscriber{tracer: tracer}
	s.register(bus)
}

type spanKey struct {
	run, phase, name string
}

type subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // spanKey -> trace.Span
}

func (s *subscriber) key(ctx context.Context, phase, name string) spanKey {
	rid, _ := runid.FromContext(ctx)
	return spanKey{run: rid, phase: phase, name: name}
}

func (s *subscriber) start(ctx context.Context, parent spanKey, k spanKey, name string, attrs ...attribute.KeyValue) {
	pctx := ctx
	if v, ok := s.spans.Load(parent); ok {
		pctx = trace.ContextWithSpan(ctx, v.(trace.Span))
	}
	_, span := s.tracer.Start(pctx, name, trace.WithAttributes(attrs...))
	s.spans.Store(k, span)
}

func (s *subscriber) finish(k spanKey, errs []error, warnings int) {
	v, ok := s.spans.LoadAndDelete(k)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(
		attribute.Int("composition.error_count", len(errs)),
		attribute.Int("composition.warning_count", warnings),
	)
	for _, err := range errs {
		span.RecordError(err)
	}
	if len(errs) > 0 {
		span.SetStatus(codes.Error, errs[0].Error())
	}
	span.End()
}

func (s *subscriber) register(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, func(ctx context.Context, e events.CompositionStart) {
		k := s.key(ctx, "composition", e.Contract)
		s.start(ctx, spanKey{}, k, "composition",
			attribute.StringSlice("composition.subgraphs", e.Subgraphs),
			attribute.String("composition.contract", e.Contract),
		)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.CompositionFinish) {
		s.finish(s.key(ctx, "composition", e.Contract), e.Errors, e.Warnings)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.NormalizationStart) {
		s.start(ctx, s.key(ctx, "composition", e.Contract), s.key(ctx, "normalization", e.Contract+"/"+e.Subgraph), "normalization",
			attribute.String("composition.contract", e.Contract),
			attribute.String("composition.subgraph", e.Subgraph),
		)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.NormalizationFinish) {
		s.finish(s.key(ctx, "normalization", e.Contract+"/"+e.Subgraph), e.Errors, e.Warnings)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.FederationStart) {
		s.start(ctx, s.key(ctx, "composition", e.Contract), s.key(ctx, "federation", e.Contract), "federation",
			attribute.String("composition.contract", e.Contract),
			attribute.Int("composition.subgraph_count", e.Subgraphs),
		)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.FederationFinish) {
		s.finish(s.key(ctx, "federation", e.Contract), e.Errors, e.Warnings)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e events.ResolvabilityStart) {
		s.start(ctx, s.key(ctx, "composition", e.Contract), s.key(ctx, "resolvability", e.Contract), "resolvability",
			attribute.String("composition.contract", e.Contract),
		)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e events.ResolvabilityFinish) {
		s.finish(s.key(ctx, "resolvability", e.Contract), e.Errors, e.Warnings)
	})
}
