// Package pipeline is the transaction feature pipeline: a pure, deterministic
// transformation from raw transaction records to cleaned, feature-augmented
// records. It performs no I/O and holds no state; the same input always
// yields the same output, so every operation is safe to retry.
//
// Day-of-week uses the Monday=0 convention throughout: Monday..Sunday map to
// 0..6 and the weekend is {5, 6}.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/CardSentry/FraudSight/internal/models"
)

// SkippedRecord identifies a record the pipeline failed and the reason.
type SkippedRecord struct {
	TransactionID string `json:"transactionId"`
	Reason        string `json:"reason"`
}

// BatchSummary reports what Clean did with a batch. Duplicates are not
// failures; they are collapsed silently, first occurrence wins.
type BatchSummary struct {
	InputCount     int             `json:"inputCount"`
	OutputCount    int             `json:"outputCount"`
	DuplicateCount int             `json:"duplicateCount"`
	Skipped        []SkippedRecord `json:"skipped,omitempty"`
}

// Clean maps a batch of raw transactions to feature records:
//
//  1. missing amount and merchant fields get documented defaults
//  2. duplicate transaction ids are collapsed to the first occurrence
//  3. derived features are computed in dependency order
//  4. output is projected onto the fixed feature column list
//
// A record with no timestamp fails with ErrMissingRequiredField; a record
// with an unknown non-empty transaction_type or device_type fails with
// ErrInvalidEnumValue. Failed records are excluded and reported in the
// summary, the rest of the batch proceeds. Output order is the first-seen
// order of distinct ids.
func Clean(batch []models.RawTransaction) ([]models.FeatureRecord, *BatchSummary) {
	summary := &BatchSummary{InputCount: len(batch)}
	features := make([]models.FeatureRecord, 0, len(batch))
	seen := make(map[string]bool, len(batch))

	for _, txn := range batch {
		if seen[txn.TransactionID] {
			summary.DuplicateCount++
			continue
		}
		seen[txn.TransactionID] = true

		record, err := cleanOne(&txn)
		if err != nil {
			summary.Skipped = append(summary.Skipped, SkippedRecord{
				TransactionID: txn.TransactionID,
				Reason:        err.Error(),
			})
			continue
		}
		features = append(features, *record)
	}

	summary.OutputCount = len(features)
	return features, summary
}

// FeatureVector builds the scoring payload for a single incoming transaction
// on the online path. The online path has no historical timestamp field;
// observedAt (the request's wall-clock time) supplies every time-derived
// feature. That is an intentional divergence from the batch path, which uses
// each record's own timestamp. The payload never includes the fraud label.
func FeatureVector(req *models.ScoreRequest, observedAt time.Time) (*models.ScoringPayload, error) {
	if req.Amount < 0 {
		return nil, fmt.Errorf("amount must be non-negative, got %.2f", req.Amount)
	}
	if err := checkEnums(req.TransactionType, req.DeviceType); err != nil {
		return nil, err
	}

	record := derive(&models.RawTransaction{
		Timestamp:        &observedAt,
		Amount:           &req.Amount,
		MerchantCategory: optional(req.MerchantCategory),
		MerchantCountry:  optional(req.MerchantCountry),
		TransactionType:  req.TransactionType,
		DeviceType:       req.DeviceType,
	})
	return record.ScoringPayload(), nil
}

// FeatureVectorForTransaction builds the scoring payload for a full raw
// transaction, e.g. one arriving over SQS. Unlike the online form path these
// records carry their own timestamps, which are used as-is.
func FeatureVectorForTransaction(txn *models.RawTransaction) (*models.ScoringPayload, error) {
	record, err := cleanOne(txn)
	if err != nil {
		return nil, err
	}
	return record.ScoringPayload(), nil
}

func cleanOne(txn *models.RawTransaction) (*models.FeatureRecord, error) {
	if txn.Timestamp == nil {
		return nil, fmt.Errorf("%w: timestamp", ErrMissingRequiredField)
	}
	if err := checkEnums(txn.TransactionType, txn.DeviceType); err != nil {
		return nil, err
	}
	return derive(txn), nil
}

func checkEnums(transactionType, deviceType string) error {
	if transactionType != "" && !models.IsValidTransactionType(transactionType) {
		return fmt.Errorf("%w: transaction_type %q", ErrInvalidEnumValue, transactionType)
	}
	if deviceType != "" && !models.IsValidDeviceType(deviceType) {
		return fmt.Errorf("%w: device_type %q", ErrInvalidEnumValue, deviceType)
	}
	return nil
}

// derive applies null defaults and computes every derived feature in
// dependency order: time fields before is_weekend/is_night, amount before
// amount_log. Caller guarantees a non-nil timestamp.
func derive(txn *models.RawTransaction) *models.FeatureRecord {
	ts := *txn.Timestamp
	amount := models.DefaultAmount
	if txn.Amount != nil {
		amount = *txn.Amount
	}

	hour := ts.Hour()
	dayOfWeek := mondayIndexedWeekday(ts)
	label := 0
	if txn.IsFraud != nil {
		label = *txn.IsFraud
	}

	return &models.FeatureRecord{
		TransactionID:       txn.TransactionID,
		Timestamp:           ts,
		Amount:              amount,
		AmountLog:           math.Log(amount + 1),
		MerchantCategory:    orDefault(txn.MerchantCategory),
		MerchantName:        orDefault(txn.MerchantName),
		MerchantCity:        orDefault(txn.MerchantCity),
		MerchantCountry:     orDefault(txn.MerchantCountry),
		TransactionType:     txn.TransactionType,
		DeviceType:          txn.DeviceType,
		Hour:                hour,
		DayOfWeek:           dayOfWeek,
		Month:               int(ts.Month()),
		IsWeekend:           boolToFlag(dayOfWeek >= 5),
		IsNight:             boolToFlag(hour >= 22 || hour <= 5),
		IsHighRiskCountry:   boolToFlag(models.IsHighRiskCountry(orDefault(txn.MerchantCountry))),
		IsOnlineTransaction: boolToFlag(txn.TransactionType == models.TransactionTypeOnline),
		IsMobileDevice:      boolToFlag(txn.DeviceType == models.DeviceTypeMobile),
		IsFraud:             label,
	}
}

// mondayIndexedWeekday maps Monday..Sunday to 0..6.
func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func boolToFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func orDefault(s *string) string {
	if s == nil || *s == "" {
		return models.DefaultMerchantField
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
