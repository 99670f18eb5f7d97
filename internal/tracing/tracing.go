// Package tracing is a thin wrapper around OpenTelemetry so that the fan-out
// can open per-run and per-slot spans without importing the SDK directly.
// Until a Provider is installed, every span is a no-op.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/dusk-indust/snipaudit"

// Provider owns an SDK tracer provider and the writer its exporter uses.
type Provider struct {
	tp     *sdktrace.TracerProvider
	closer io.Closer
}

// New creates a Provider that exports spans synchronously through exporter.
func New(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) (*Provider, error) {
	if exporter == nil {
		return nil, fmt.Errorf("tracing: nil exporter")
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	return &Provider{tp: tp}, nil
}

// NewFile creates a Provider that writes spans as JSON to outputFile.
func NewFile(serviceName, serviceVersion, outputFile string) (*Provider, error) {
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("tracing: create %s: %w", outputFile, err)
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tracing: stdout exporter: %w", err)
	}
	p, err := New(serviceName, serviceVersion, exporter)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.closer = f
	return p, nil
}

// Install registers the provider as the global OpenTelemetry tracer provider.
func (p *Provider) Install() {
	otel.SetTracerProvider(p.tp)
}

// Shutdown flushes pending spans and closes the output file, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	err := p.tp.Shutdown(ctx)
	if p.closer != nil {
		if cerr := p.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// StartSpan starts a child span of whatever span ctx carries.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, &Span{span: span}
}

// SetAttribute attaches a string attribute.
func (s *Span) SetAttribute(key, value string) *Span {
	s.span.SetAttributes(attribute.String(key, value))
	return s
}

// SetInt attaches an integer attribute.
func (s *Span) SetInt(key string, value int) *Span {
	s.span.SetAttributes(attribute.Int(key, value))
	return s
}

// SetStatus records err on the span, or an OK status when err is nil.
func (s *Span) SetStatus(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		return
	}
	s.span.SetStatus(codes.Ok, "")
}

// End finishes the span.
func (s *Span) End() {
	s.span.End()
}
