package events

import (
	"context"
	"fmt"

	"github.com/CardSentry/FraudSight/internal/messaging"
	"github.com/CardSentry/FraudSight/internal/models"
)

type EventDispatcher interface {
	DispatchFraudAlertEvent(ctx context.Context, record models.PredictionRecord) error
}

type FsEventDispatcher struct {
	AlertMessenger messaging.AlertMessenger
	OnCallNumber   string
}

func NewFsEventDispatcher(alertMessenger messaging.AlertMessenger, onCallNumber string) *FsEventDispatcher {
	return &FsEventDispatcher{
		AlertMessenger: alertMessenger,
		OnCallNumber:   onCallNumber,
	}
}

// DispatchFraudAlertEvent publishes the alert to the topic and texts the
// on-call number when one is configured.
func (dispatcher *FsEventDispatcher) DispatchFraudAlertEvent(ctx context.Context, record models.PredictionRecord) error {
	if _, err := dispatcher.AlertMessenger.PublishFraudAlert(ctx, record); err != nil {
		return fmt.Errorf("error publishing fraud alert for prediction: %w", err)
	}

	if dispatcher.OnCallNumber != "" {
		if err := dispatcher.AlertMessenger.SendTextAlert(record, dispatcher.OnCallNumber); err != nil {
			return fmt.Errorf("error sending text alert for prediction: %w", err)
		}
	}

	fmt.Printf("Fraud suspected, dispatched alert for prediction %s\n", record.PredictionID)
	return nil
}
