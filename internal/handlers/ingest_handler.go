package handlers

import (
	"context"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-xray-sdk-go/xray"

	"github.com/CardSentry/FraudSight/internal/middleware"
	"github.com/CardSentry/FraudSight/internal/models"
	"github.com/CardSentry/FraudSight/internal/observability"
	"github.com/CardSentry/FraudSight/internal/services"
)

type IngestHandler interface {
	ProcessTransactionEvent(ctx context.Context, event events.SQSEvent) (*models.BatchResult, error)
}

// FsIngestHandler scores raw transactions arriving over SQS. Records that
// fail are returned as partial-batch failures so only they get redriven.
type FsIngestHandler struct {
	ScoringService services.ScoringService
}

func NewFsIngestHandler(scoringService services.ScoringService) *FsIngestHandler {
	return &FsIngestHandler{
		ScoringService: scoringService,
	}
}

func (ih *FsIngestHandler) ProcessTransactionEvent(ctx context.Context, event events.SQSEvent) (*models.BatchResult, error) {
	var errorResults []error
	var failedRIDs []string

	ctx, seg := xray.BeginSegment(ctx, "IngestHandler")
	defer seg.Close(nil)

	observability.SafeAddMetadata(seg, observability.KeyEventRecordsCount, len(event.Records))

	ctx, procSeg := xray.BeginSubsegment(ctx, "UnmarshalSQSMessages")

	var transactions []models.RawTransaction
	ridsByTransactionId := make(map[string]string)
	var transactionIDs []string

	for i, record := range event.Records {
		observability.SafeAddAnnotation(ctx, "MessageID-"+strconv.Itoa(i), record.MessageId)

		transaction, err := models.UnmarshalSQS(record.Body)
		if err != nil {
			errorResults = append(errorResults, err)
			failedRIDs = append(failedRIDs, record.MessageId)

			observability.SafeAddError(procSeg, err)
			continue
		}

		transactions = append(transactions, *transaction)
		transactionIDs = append(transactionIDs, transaction.TransactionID)
		ridsByTransactionId[transaction.TransactionID] = record.MessageId
	}

	observability.SafeAddMetadata(procSeg, observability.KeyTransactionIDs, transactionIDs)
	procSeg.Close(nil)

	ctx, scoreSeg := xray.BeginSubsegment(ctx, "ScoreBatch")

	scored, failedTransactions, err := ih.ScoringService.ScoreBatch(ctx, transactions)

	var suspected []string
	for _, record := range scored {
		if record.Verdict == models.VerdictSuspectedFraud {
			suspected = append(suspected, record.PredictionID)
		}
	}
	observability.SafeAddMetadata(scoreSeg, observability.KeySuspectedCount, len(suspected))
	if len(suspected) > 0 {
		observability.SafeAddMetadata(scoreSeg, observability.KeyPredictionID, suspected)
	}

	if err != nil {
		errorResults = append(errorResults, err)
		observability.SafeAddError(scoreSeg, err)
	}

	scoreSeg.Close(err)

	batchResultInput := &middleware.GetBatchResultInput{
		FailedTransactions:  failedTransactions,
		RIDsByTransactionId: ridsByTransactionId,
		FailedRIDs:          failedRIDs,
		Errors:              errorResults,
	}

	return middleware.GetBatchResult(batchResultInput)
}
