package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator"
)

// RawTransaction is one observed or synthesized transaction event before
// cleaning. Pointer fields are nullable in the source feed; TransactionID and
// Timestamp are required, everything else gets defaulted by the pipeline.
// IsFraud is only present in labeled training data.
type RawTransaction struct {
	TransactionID     string     `json:"transaction_id" validate:"required"`
	Timestamp         *time.Time `json:"timestamp,omitempty"`
	Amount            *float64   `json:"amount,omitempty" validate:"omitempty,gte=0"`
	MerchantCategory  *string    `json:"merchant_category,omitempty"`
	CardNumber        string     `json:"card_number,omitempty"`
	CardholderName    string     `json:"cardholder_name,omitempty"`
	CardholderAddress string     `json:"cardholder_address,omitempty"`
	MerchantName      *string    `json:"merchant_name,omitempty"`
	MerchantCity      *string    `json:"merchant_city,omitempty"`
	MerchantCountry   *string    `json:"merchant_country,omitempty"`
	TransactionType   string     `json:"transaction_type,omitempty"`
	DeviceType        string     `json:"device_type,omitempty"`
	IPAddress         string     `json:"ip_address,omitempty"`
	IsFraud           *int       `json:"is_fraud,omitempty"`
}

// ValidateTransaction validates an incoming raw transaction.
func (t *RawTransaction) ValidateTransaction() error {
	validate := validator.New()
	return validate.Struct(t)
}

// UnmarshalSQS parses a raw transaction from an SQS message body.
func UnmarshalSQS(body string) (*RawTransaction, error) {
	var result RawTransaction
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Labeled reports whether the record carries a fraud label.
func (t *RawTransaction) Labeled() bool {
	return t.IsFraud != nil
}
