package observability

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/contrib/detectors/aws/ecs"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// InitTracer initializes the OpenTelemetry tracer provider with AWS Distro
// for OpenTelemetry. endpoint is the OTLP collector address, e.g. the X-Ray
// daemon at localhost:2000 inside Lambda.
func InitTracer(endpoint, serviceName, serviceVersion string) func(context.Context) error {
	ctx := context.Background()

	exporter, err := newExporter(ctx, endpoint)
	if err != nil {
		log.Fatalf("failed to initialize exporter: %v", err)
	}

	tp := newTracerProvider(exporter, serviceName, serviceVersion)

	otel.SetTracerProvider(tp)

	// Use the X-Ray propagator for AWS compatibility
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		xray.Propagator{},
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown TracerProvider: %w", err)
		}
		return nil
	}
}

// newExporter creates a new OTLP exporter for the given collector endpoint
func newExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	return otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
}

// newTracerProvider creates a new tracer provider with the given exporter
func newTracerProvider(exp sdktrace.SpanExporter, serviceName, serviceVersion string) *sdktrace.TracerProvider {
	ecsDetector := ecs.NewResourceDetector()
	ecsResource, _ := ecsDetector.Detect(context.Background())

	baseResource := resource.Default()
	baseResource, _ = resource.Merge(baseResource, ecsResource)
	r, err := resource.Merge(
		baseResource,
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
		// Use the X-Ray ID Generator for AWS compatibility
		sdktrace.WithIDGenerator(xray.NewIDGenerator()),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
}
