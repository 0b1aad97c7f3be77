package middleware

import (
	"errors"

	"github.com/CardSentry/FraudSight/internal/models"
)

// MergeErrors drains an error channel into a single joined error.
func MergeErrors(errCh <-chan error) error {
	result := []error{}
	for err := range errCh {
		result = append(result, err)
	}

	return errors.Join(result...)
}

// GetBatchResultInput collects the partial-failure state of one event batch:
// transactions that failed processing, the record id each transaction arrived
// under, and record ids that failed before a transaction could be decoded.
type GetBatchResultInput struct {
	FailedTransactions  []models.RawTransaction
	RIDsByTransactionId map[string]string
	FailedRIDs          []string
	Errors              []error
}

// GetBatchResult builds the partial-batch response so the event source only
// redrives the failed records.
func GetBatchResult(input *GetBatchResultInput) (*models.BatchResult, error) {
	failures := []models.BatchItemFailure{}

	for _, rid := range input.FailedRIDs {
		failures = append(failures, models.BatchItemFailure{ItemIdentifier: rid})
	}

	for _, txn := range input.FailedTransactions {
		rid, ok := input.RIDsByTransactionId[txn.TransactionID]
		if !ok {
			continue
		}
		failures = append(failures, models.BatchItemFailure{ItemIdentifier: rid})
	}

	return &models.BatchResult{BatchItemFailures: failures}, errors.Join(input.Errors...)
}
