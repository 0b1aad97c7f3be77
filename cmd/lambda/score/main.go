package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda/xrayconfig"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"

	"github.com/CardSentry/FraudSight/internal/config"
	"github.com/CardSentry/FraudSight/internal/db"
	"github.com/CardSentry/FraudSight/internal/events"
	"github.com/CardSentry/FraudSight/internal/handlers"
	"github.com/CardSentry/FraudSight/internal/inference"
	"github.com/CardSentry/FraudSight/internal/messaging"
	"github.com/CardSentry/FraudSight/internal/services"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	awsConf, err := config.LoadAWSConfig(ctx, cfg.Region)
	if err != nil {
		fmt.Printf("Error loading AWS config in lambda initialization\n%s", err)
	}

	predictor := inference.NewFsSageMakerPredictor(sagemakerruntime.NewFromConfig(awsConf.Config), cfg.EndpointName)

	dbClient := db.NewDynamoDBClient(dynamodb.NewFromConfig(awsConf.Config), cfg.PredictionsTable)
	repository := db.NewPredictionRepository(dbClient)

	dispatcher := buildDispatcher(ctx, awsConf, cfg)

	service := services.NewFsScoringService(predictor, dispatcher, repository, cfg.FraudThreshold)
	handler := handlers.NewFsScoreHandler(service)

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
	lambda.Start(otellambda.InstrumentHandler(handler.HandleScoreRequest, xrayconfig.WithRecommendedOptions(tp)...))
}

// buildDispatcher wires the alert path. Without a topic ARN alerts are
// disabled; Twilio credentials are optional on top of that.
func buildDispatcher(ctx context.Context, awsConf *config.AWSConfig, cfg *config.Config) events.EventDispatcher {
	if cfg.AlertTopicArn == "" {
		return nil
	}

	var twilioUsername, twilioPassword string
	if cfg.OnCallNumber != "" {
		secrets, err := config.LoadTwilioSecrets(ctx, awsConf.Config, cfg.TwilioSecretName)
		if err != nil {
			fmt.Printf("Error loading Twilio secrets, text alerts disabled\n%s", err)
		} else {
			twilioUsername = secrets.Username
			twilioPassword = secrets.Password
		}
	}

	messenger := messaging.NewFsAlertMessenger(sns.NewFromConfig(awsConf.Config), cfg.AlertTopicArn, twilioUsername, twilioPassword, cfg.TwilioFrom)
	return events.NewFsEventDispatcher(messenger, cfg.OnCallNumber)
}
