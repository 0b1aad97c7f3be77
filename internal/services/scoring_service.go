package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CardSentry/FraudSight/internal/db"
	"github.com/CardSentry/FraudSight/internal/events"
	"github.com/CardSentry/FraudSight/internal/inference"
	"github.com/CardSentry/FraudSight/internal/middleware"
	"github.com/CardSentry/FraudSight/internal/models"
	"github.com/CardSentry/FraudSight/internal/pipeline"
)

type ScoringService interface {
	ScoreTransaction(ctx context.Context, req *models.ScoreRequest, observedAt time.Time) (*models.PredictionRecord, error)
	ScoreBatch(ctx context.Context, transactions []models.RawTransaction) ([]models.PredictionRecord, []models.RawTransaction, error)
}

// FsScoringService scores transactions against the prediction endpoint,
// records an audit row for each score and raises an alert when the
// probability crosses the fraud threshold.
type FsScoringService struct {
	Predictor       inference.Predictor
	EventDispatcher events.EventDispatcher
	PredictionRepo  db.PredictionRepository
	FraudThreshold  float64
}

func NewFsScoringService(predictor inference.Predictor, dispatcher events.EventDispatcher, repo db.PredictionRepository, threshold float64) *FsScoringService {
	return &FsScoringService{
		Predictor:       predictor,
		EventDispatcher: dispatcher,
		PredictionRepo:  repo,
		FraudThreshold:  threshold,
	}
}

// ScoreTransaction handles the online path: a partial transaction scored at
// request time. The audit write and alert dispatch are best-effort; a lost
// audit row must not fail a served prediction.
func (ss *FsScoringService) ScoreTransaction(ctx context.Context, req *models.ScoreRequest, observedAt time.Time) (*models.PredictionRecord, error) {
	payload, err := pipeline.FeatureVector(req, observedAt)
	if err != nil {
		return nil, err
	}

	probability, err := ss.Predictor.Score(ctx, payload)
	if err != nil {
		return nil, err
	}

	record := ss.buildRecord("", req.Amount, payload, probability, observedAt)
	ss.finalize(ctx, record)
	return record, nil
}

// ScoreBatch scores ingested transactions concurrently, each against its own
// timestamp. Returns the recorded predictions, the transactions that failed,
// and the merged errors.
func (ss *FsScoringService) ScoreBatch(ctx context.Context, transactions []models.RawTransaction) ([]models.PredictionRecord, []models.RawTransaction, error) {
	var wg sync.WaitGroup
	errorResults := make(chan error, len(transactions))
	scoredResults := make(chan models.PredictionRecord, len(transactions))
	failedResults := make(chan models.RawTransaction, len(transactions))

	for _, txn := range transactions {
		wg.Add(1)
		go func(txn models.RawTransaction) {
			defer wg.Done()

			payload, err := pipeline.FeatureVectorForTransaction(&txn)
			if err != nil {
				errorResults <- fmt.Errorf("feature vector failed for transaction %s: %w", txn.TransactionID, err)
				failedResults <- txn
				return
			}

			probability, err := ss.Predictor.Score(ctx, payload)
			if err != nil {
				errorResults <- fmt.Errorf("scoring failed for transaction %s: %w", txn.TransactionID, err)
				failedResults <- txn
				return
			}

			record := ss.buildRecord(txn.TransactionID, payload.Amount, payload, probability, *txn.Timestamp)
			ss.finalize(ctx, record)
			scoredResults <- *record
		}(txn)
	}
	wg.Wait()
	close(errorResults)
	close(scoredResults)
	close(failedResults)

	return channelToSlice(scoredResults), channelToSlice(failedResults), middleware.MergeErrors(errorResults)
}

func (ss *FsScoringService) buildRecord(transactionID string, amount float64, payload *models.ScoringPayload, probability float64, scoredAt time.Time) *models.PredictionRecord {
	verdict := models.VerdictApproved
	if probability >= ss.FraudThreshold {
		verdict = models.VerdictSuspectedFraud
	}

	return &models.PredictionRecord{
		PredictionDate:       models.PredictionDateOf(scoredAt),
		PredictionID:         uuid.NewString(),
		TransactionID:        transactionID,
		ScoredAt:             scoredAt.UTC().Format(time.RFC3339),
		Amount:               amount,
		MerchantCategory:     payload.MerchantCategory,
		MerchantCountry:      payload.MerchantCountry,
		TransactionType:      payload.TransactionType,
		DeviceType:           payload.DeviceType,
		PredictedProbability: probability,
		Verdict:              verdict,
	}
}

// finalize records the audit row and dispatches the alert. Failures are
// logged, not returned; the score itself already succeeded.
func (ss *FsScoringService) finalize(ctx context.Context, record *models.PredictionRecord) {
	if ss.PredictionRepo != nil {
		if err := ss.PredictionRepo.SavePrediction(ctx, record); err != nil {
			fmt.Printf("error saving prediction %s: %s\n", record.PredictionID, err)
		}
	}

	if record.Verdict == models.VerdictSuspectedFraud && ss.EventDispatcher != nil {
		if err := ss.EventDispatcher.DispatchFraudAlertEvent(ctx, *record); err != nil {
			fmt.Printf("error dispatching fraud alert for prediction %s: %s\n", record.PredictionID, err)
		}
	}
}

func channelToSlice[T any](ch <-chan T) []T {
	var result []T
	for val := range ch {
		result = append(result, val)
	}
	return result
}
