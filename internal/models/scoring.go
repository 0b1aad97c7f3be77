package models

import "encoding/json"

// ScoreRequest is the partial transaction submitted on the online scoring
// path. It carries no identifier and no timestamp; time-derived features are
// computed from the wall-clock time the request is observed.
type ScoreRequest struct {
	Amount           float64 `json:"amount" validate:"gte=0"`
	MerchantCategory string  `json:"merchant_category"`
	MerchantCountry  string  `json:"merchant_country"`
	TransactionType  string  `json:"transaction_type"`
	DeviceType       string  `json:"device_type"`
}

// ScoringPayload is the JSON body sent to the prediction endpoint. It never
// contains the is_fraud label.
type ScoringPayload struct {
	Timestamp           string  `json:"timestamp"`
	Amount              float64 `json:"amount"`
	AmountLog           float64 `json:"amount_log"`
	MerchantCategory    string  `json:"merchant_category"`
	MerchantCountry     string  `json:"merchant_country"`
	TransactionType     string  `json:"transaction_type"`
	DeviceType          string  `json:"device_type"`
	Hour                int     `json:"hour"`
	DayOfWeek           int     `json:"day_of_week"`
	Month               int     `json:"month"`
	IsWeekend           int     `json:"is_weekend"`
	IsNight             int     `json:"is_night"`
	IsHighRiskCountry   int     `json:"is_high_risk_country"`
	IsOnlineTransaction int     `json:"is_online_transaction"`
	IsMobileDevice      int     `json:"is_mobile_device"`
}

// ScoreResponse is the prediction endpoint's reply.
type ScoreResponse struct {
	PredictedProbability float64 `json:"predicted_probability"`
}

func UnmarshalScoreRequest(body string) (*ScoreRequest, error) {
	var req ScoreRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return nil, err
	}
	return &req, nil
}
