package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/CardSentry/FraudSight/internal/inference"
	"github.com/CardSentry/FraudSight/internal/models"
	"github.com/CardSentry/FraudSight/internal/observability"
	"github.com/CardSentry/FraudSight/internal/services"
)

type ScoreHandler interface {
	HandleScoreRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// FsScoreHandler serves the dashboard's real-time scoring requests. The
// request carries a partial transaction; time-derived features come from the
// request's wall-clock time.
type FsScoreHandler struct {
	ScoringService services.ScoringService
	Clock          func() time.Time
}

func NewFsScoreHandler(scoringService services.ScoringService) *FsScoreHandler {
	return &FsScoreHandler{
		ScoringService: scoringService,
		Clock:          time.Now,
	}
}

type scoreResponseBody struct {
	PredictionID         string  `json:"prediction_id"`
	PredictedProbability float64 `json:"predicted_probability"`
	Verdict              string  `json:"verdict"`
}

func (sh *FsScoreHandler) HandleScoreRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx, seg := xray.BeginSegment(ctx, "ScoreHandler")
	defer seg.Close(nil)

	req, err := models.UnmarshalScoreRequest(request.Body)
	if err != nil {
		observability.SafeAddError(seg, err)
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": "malformed request body"}), nil
	}

	observedAt := sh.Clock()
	record, err := sh.ScoringService.ScoreTransaction(ctx, req, observedAt)
	if err != nil {
		observability.SafeAddError(seg, err)

		// A predictor outage is surfaced as an unavailable state, never a
		// crash; anything else about the input is the caller's fault.
		if errors.Is(err, inference.ErrPredictionServiceUnavailable) {
			return jsonResponse(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}), nil
		}
		return jsonResponse(http.StatusBadRequest, map[string]string{"error": err.Error()}), nil
	}

	observability.SafeAddMetadata(seg, observability.KeyPredictionID, record.PredictionID)
	observability.SafeAddMetadata(seg, observability.KeyPredictedProbability, record.PredictedProbability)
	observability.SafeAddMetadata(seg, observability.KeyVerdict, record.Verdict)
	observability.SafeAddAnnotation(ctx, observability.KeyFraudSuspected, record.Verdict)

	return jsonResponse(http.StatusOK, scoreResponseBody{
		PredictionID:         record.PredictionID,
		PredictedProbability: record.PredictedProbability,
		Verdict:              record.Verdict,
	}), nil
}

func jsonResponse(statusCode int, body interface{}) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}
}
