package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/CardSentry/FraudSight/internal/models"
	"github.com/CardSentry/FraudSight/internal/observability"
	"github.com/CardSentry/FraudSight/internal/storage"
)

// StatsReader is the slice of the storage layer the stats endpoint needs.
type StatsReader interface {
	ReadHistoricalStats(ctx context.Context, key string) (*models.HistoricalStats, error)
}

// FsStatsHandler serves the dashboard's historical fraud statistics panel.
// Missing stats are not an error: the response says so and the dashboard
// omits the panel.
type FsStatsHandler struct {
	Storage  StatsReader
	StatsKey string
}

func NewFsStatsHandler(statsStorage StatsReader, statsKey string) *FsStatsHandler {
	return &FsStatsHandler{
		Storage:  statsStorage,
		StatsKey: statsKey,
	}
}

type statsResponseBody struct {
	Available bool                    `json:"available"`
	Stats     *models.HistoricalStats `json:"stats,omitempty"`
}

func (sh *FsStatsHandler) HandleStatsRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx, seg := xray.BeginSegment(ctx, "StatsHandler")
	defer seg.Close(nil)

	stats, err := sh.Storage.ReadHistoricalStats(ctx, sh.StatsKey)
	if err != nil {
		observability.SafeAddError(seg, err)

		if errors.Is(err, storage.ErrHistoricalStatsUnavailable) {
			return jsonResponse(http.StatusOK, statsResponseBody{Available: false}), nil
		}
		return jsonResponse(http.StatusInternalServerError, map[string]string{"error": "failed to load stats"}), nil
	}

	return jsonResponse(http.StatusOK, statsResponseBody{Available: true, Stats: stats}), nil
}
