package models

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Prediction verdicts.
const (
	VerdictSuspectedFraud = "SUSPECTED_FRAUD"
	VerdictApproved       = "APPROVED"
)

// PredictionRecord is the audit row written for every online score.
// PredictionDate (UTC day) is the partition key, PredictionID the sort key.
type PredictionRecord struct {
	PredictionDate       string  `json:"predictionDate" dynamodbav:"PredictionDate"`
	PredictionID         string  `json:"predictionId" dynamodbav:"PredictionID"`
	TransactionID        string  `json:"transactionId,omitempty" dynamodbav:"TransactionID"`
	ScoredAt             string  `json:"scoredAt" dynamodbav:"ScoredAt"`
	Amount               float64 `json:"amount" dynamodbav:"Amount"`
	MerchantCategory     string  `json:"merchantCategory" dynamodbav:"MerchantCategory"`
	MerchantCountry      string  `json:"merchantCountry" dynamodbav:"MerchantCountry"`
	TransactionType      string  `json:"transactionType" dynamodbav:"TransactionType"`
	DeviceType           string  `json:"deviceType" dynamodbav:"DeviceType"`
	PredictedProbability float64 `json:"predictedProbability" dynamodbav:"PredictedProbability"`
	Verdict              string  `json:"verdict" dynamodbav:"Verdict"`
}

// PredictionDateOf formats a scoring time into the partition key value.
func PredictionDateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MarshalDynamoDB marshals a PredictionRecord into a DynamoDB attribute map.
func (p *PredictionRecord) MarshalDynamoDB() (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(p)
}

// UnmarshalDynamoDB unmarshals a DynamoDB attribute map into a PredictionRecord.
func UnmarshalDynamoDB(av map[string]types.AttributeValue) (*PredictionRecord, error) {
	var record PredictionRecord
	if err := attributevalue.UnmarshalMap(av, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Get subject, message for a fraud alert on a high-probability score.
func (p *PredictionRecord) GetFraudAlertContent() (string, string) {
	return "High-Risk Transaction Scored", fmt.Sprintf(
		"CARDSENTRY: transaction scored %.1f%% fraud probability ($%.2f, %s, %s). Prediction ID %s.",
		p.PredictedProbability*100, p.Amount, p.MerchantCategory, p.MerchantCountry, p.PredictionID)
}
