package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"

	"github.com/CardSentry/FraudSight/internal/models"
)

// ErrPredictionServiceUnavailable wraps any failure to obtain a prediction
// from the serving endpoint. Callers surface an "unavailable" state to the
// user instead of crashing.
var ErrPredictionServiceUnavailable = errors.New("prediction service unavailable")

// Predictor defines the contract for fraud probability scoring.
type Predictor interface {
	Score(ctx context.Context, payload *models.ScoringPayload) (float64, error)
}

// InvokeEndpointAPI is the slice of the SageMaker runtime client we use.
type InvokeEndpointAPI interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// FsSageMakerPredictor implements Predictor against a SageMaker inference
// endpoint that accepts a JSON feature vector and returns
// {"predicted_probability": p}.
type FsSageMakerPredictor struct {
	client       InvokeEndpointAPI
	endpointName string
}

func NewFsSageMakerPredictor(client InvokeEndpointAPI, endpointName string) *FsSageMakerPredictor {
	return &FsSageMakerPredictor{
		client:       client,
		endpointName: endpointName,
	}
}

// Score invokes the endpoint and returns the predicted fraud probability.
func (p *FsSageMakerPredictor) Score(ctx context.Context, payload *models.ScoringPayload) (float64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal scoring payload: %w", err)
	}

	output, err := p.client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(p.endpointName),
		ContentType:  aws.String("application/json"),
		Body:         body,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPredictionServiceUnavailable, err)
	}

	var response models.ScoreResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return 0, fmt.Errorf("%w: malformed response: %v", ErrPredictionServiceUnavailable, err)
	}

	probability := response.PredictedProbability
	if probability < 0 || probability > 1 {
		return 0, fmt.Errorf("%w: probability %f out of range", ErrPredictionServiceUnavailable, probability)
	}

	return probability, nil
}
