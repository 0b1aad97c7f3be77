package models

// HistoricalStats is the dashboard's historical panel payload, read from the
// processed-data bucket. Absence is non-fatal; the panel is simply omitted.
type HistoricalStats struct {
	AvgFraudRate      float64          `json:"avg_fraud_rate"`
	TotalTransactions int              `json:"total_transactions"`
	DetectedFraud     int              `json:"detected_fraud"`
	Daily             []DailyFraudRate `json:"daily"`
}

type DailyFraudRate struct {
	Date      string  `json:"date"`
	FraudRate float64 `json:"fraud_rate"`
}
