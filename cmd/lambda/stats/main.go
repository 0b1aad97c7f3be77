package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda/xrayconfig"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"

	"github.com/CardSentry/FraudSight/internal/config"
	"github.com/CardSentry/FraudSight/internal/handlers"
	"github.com/CardSentry/FraudSight/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	awsConf, err := config.LoadAWSConfig(ctx, cfg.Region)
	if err != nil {
		fmt.Printf("Error loading AWS config in lambda initialization\n%s", err)
	}

	statsStorage := storage.NewS3Storage(s3.NewFromConfig(awsConf.Config), cfg.ProcessedBucket)
	handler := handlers.NewFsStatsHandler(statsStorage, cfg.HistoricalStatsKey)

	// Initialize OpenTelemetry
	tp, err := xrayconfig.NewTracerProvider(ctx)
	if err != nil {
		fmt.Printf("Error initializing OpenTelemetry tracer provider\n%s", err)
	}

	defer func(ctx context.Context) {
		err := tp.Shutdown(ctx)
		if err != nil {
			fmt.Printf("Error shutting down OpenTelemetry tracer provider: %v\n", err)
		}
	}(ctx)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})

	// Start Lambda with OpenTelemetry instrumentation
	lambda.Start(otellambda.InstrumentHandler(handler.HandleStatsRequest, xrayconfig.WithRecommendedOptions(tp)...))
}
