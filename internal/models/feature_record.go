package models

import (
	"fmt"
	"time"
)

// FeatureRecord is a RawTransaction after null-defaulting and feature
// derivation, ready for training or scoring. Parquet tags match
// FeatureColumns; rows are never mutated after creation.
type FeatureRecord struct {
	TransactionID       string    `json:"transaction_id" parquet:"transaction_id"`
	Timestamp           time.Time `json:"timestamp" parquet:"timestamp,timestamp(millisecond)"`
	Amount              float64   `json:"amount" parquet:"amount"`
	AmountLog           float64   `json:"amount_log" parquet:"amount_log"`
	MerchantCategory    string    `json:"merchant_category" parquet:"merchant_category"`
	MerchantName        string    `json:"merchant_name" parquet:"merchant_name"`
	MerchantCity        string    `json:"merchant_city" parquet:"merchant_city"`
	MerchantCountry     string    `json:"merchant_country" parquet:"merchant_country"`
	TransactionType     string    `json:"transaction_type" parquet:"transaction_type"`
	DeviceType          string    `json:"device_type" parquet:"device_type"`
	Hour                int       `json:"hour" parquet:"hour"`
	DayOfWeek           int       `json:"day_of_week" parquet:"day_of_week"`
	Month               int       `json:"month" parquet:"month"`
	IsWeekend           int       `json:"is_weekend" parquet:"is_weekend"`
	IsNight             int       `json:"is_night" parquet:"is_night"`
	IsHighRiskCountry   int       `json:"is_high_risk_country" parquet:"is_high_risk_country"`
	IsOnlineTransaction int       `json:"is_online_transaction" parquet:"is_online_transaction"`
	IsMobileDevice      int       `json:"is_mobile_device" parquet:"is_mobile_device"`
	IsFraud             int       `json:"is_fraud" parquet:"is_fraud"`
}

// PartitionKey returns the Hive-style partition path segment for this row,
// following PartitionColumns.
func (f *FeatureRecord) PartitionKey() string {
	return fmt.Sprintf("merchant_category=%s/is_fraud=%d", f.MerchantCategory, f.IsFraud)
}

// ScoringPayload projects the record onto the serving field set: every
// feature column except the label, the identifier and the merchant
// name/city, which the endpoint was not trained on.
func (f *FeatureRecord) ScoringPayload() *ScoringPayload {
	return &ScoringPayload{
		Timestamp:           f.Timestamp.Format(time.RFC3339),
		Amount:              f.Amount,
		AmountLog:           f.AmountLog,
		MerchantCategory:    f.MerchantCategory,
		MerchantCountry:     f.MerchantCountry,
		TransactionType:     f.TransactionType,
		DeviceType:          f.DeviceType,
		Hour:                f.Hour,
		DayOfWeek:           f.DayOfWeek,
		Month:               f.Month,
		IsWeekend:           f.IsWeekend,
		IsNight:             f.IsNight,
		IsHighRiskCountry:   f.IsHighRiskCountry,
		IsOnlineTransaction: f.IsOnlineTransaction,
		IsMobileDevice:      f.IsMobileDevice,
	}
}
