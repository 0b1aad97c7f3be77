package messaging

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/CardSentry/FraudSight/internal/models"
)

type SQSHandler struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSHandler(client *sqs.Client, queueURL string) *SQSHandler {
	return &SQSHandler{
		client:   client,
		queueURL: queueURL,
	}
}

// SendTransaction sends a raw transaction to SQS
func (h *SQSHandler) SendTransaction(ctx context.Context, transaction *models.RawTransaction) error {
	jsonData, err := json.Marshal(transaction)
	if err != nil {
		return err
	}

	log.Printf("Sending transaction to SQS: %s", string(jsonData))

	_, err = h.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(h.queueURL),
		MessageBody: aws.String(string(jsonData)),
	})
	return err
}

// ReceiveTransactions receives messages from SQS
func (h *SQSHandler) ReceiveTransactions(ctx context.Context) ([]*models.RawTransaction, error) {
	output, err := h.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(h.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20, // Long polling
	})
	if err != nil {
		return nil, err
	}

	var transactions []*models.RawTransaction
	for _, msg := range output.Messages {
		var transaction models.RawTransaction
		if err := json.Unmarshal([]byte(*msg.Body), &transaction); err != nil {
			continue
		}
		transactions = append(transactions, &transaction)

		// Delete the message after processing
		_, err = h.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(h.queueURL),
			ReceiptHandle: msg.ReceiptHandle,
		})
		if err != nil {
			continue
		}
	}

	return transactions, nil
}
