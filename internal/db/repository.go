package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/CardSentry/FraudSight/internal/models"
)

// PredictionRepository is the data access layer for the prediction audit
// trail.
type PredictionRepository interface {
	SavePrediction(ctx context.Context, record *models.PredictionRecord) error
	GetPrediction(ctx context.Context, predictionDate, predictionID string) (*models.PredictionRecord, error)
	ListPredictionsByDate(ctx context.Context, predictionDate string) ([]models.PredictionRecord, error)
}

type DynamoPredictionRepository struct {
	DB *DynamoDBClient
}

// NewPredictionRepository initializes a new repository instance.
func NewPredictionRepository(db *DynamoDBClient) PredictionRepository {
	return &DynamoPredictionRepository{DB: db}
}

// SavePrediction inserts a new prediction audit row.
func (r *DynamoPredictionRepository) SavePrediction(ctx context.Context, record *models.PredictionRecord) error {
	item, err := record.MarshalDynamoDB()
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	if _, err := r.DB.PutItem(ctx, item); err != nil {
		return fmt.Errorf("failed to save prediction %s: %w", record.PredictionID, err)
	}
	return nil
}

// GetPrediction retrieves one audit row by day and id.
func (r *DynamoPredictionRepository) GetPrediction(ctx context.Context, predictionDate, predictionID string) (*models.PredictionRecord, error) {
	if predictionDate == "" {
		return nil, fmt.Errorf("%s cannot be empty", PartitionKey)
	}
	if predictionID == "" {
		return nil, fmt.Errorf("%s cannot be empty", SortKey)
	}

	key := map[string]types.AttributeValue{
		PartitionKey: &types.AttributeValueMemberS{Value: predictionDate},
		SortKey:      &types.AttributeValueMemberS{Value: predictionID},
	}

	item, err := r.DB.GetItem(ctx, key)
	if err != nil {
		return nil, err
	}

	record, err := models.UnmarshalDynamoDB(item)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal prediction: %w", err)
	}
	return record, nil
}

// ListPredictionsByDate returns every score recorded on one UTC day, for the
// dashboard's daily panels.
func (r *DynamoPredictionRepository) ListPredictionsByDate(ctx context.Context, predictionDate string) ([]models.PredictionRecord, error) {
	if predictionDate == "" {
		return nil, fmt.Errorf("%s cannot be empty", PartitionKey)
	}

	items, err := r.DB.QueryByPartition(ctx, predictionDate)
	if err != nil {
		return nil, err
	}

	records := make([]models.PredictionRecord, 0, len(items))
	for _, item := range items {
		record, err := models.UnmarshalDynamoDB(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal prediction: %w", err)
		}
		records = append(records, *record)
	}

	return records, nil
}
