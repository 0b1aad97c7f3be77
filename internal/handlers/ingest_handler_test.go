package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/CardSentry/FraudSight/internal/models"
)

type IngestHandlerTestSuite struct {
	suite.Suite
	mockService *MockScoringService
	handler     *FsIngestHandler
}

func (suite *IngestHandlerTestSuite) SetupTest() {
	suite.mockService = new(MockScoringService)
	suite.handler = NewFsIngestHandler(suite.mockService)
}

func sqsRecord(messageID, transactionID string) events.SQSMessage {
	ts := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
	return events.SQSMessage{
		MessageId: messageID,
		Body:      `{"transaction_id": "` + transactionID + `", "timestamp": "` + ts + `", "amount": 20}`,
	}
}

func (suite *IngestHandlerTestSuite) TestAllRecordsSucceed() {
	// Arrange
	event := events.SQSEvent{Records: []events.SQSMessage{
		sqsRecord("rid-1", "TXN001"),
		sqsRecord("rid-2", "TXN002"),
	}}

	suite.mockService.On("ScoreBatch", mock.Anything, mock.MatchedBy(func(transactions []models.RawTransaction) bool {
		return len(transactions) == 2
	})).Return([]models.PredictionRecord{
		{PredictionID: "p1", TransactionID: "TXN001", Verdict: models.VerdictApproved},
		{PredictionID: "p2", TransactionID: "TXN002", Verdict: models.VerdictApproved},
	}, nil, nil).Once()

	// Act
	result, err := suite.handler.ProcessTransactionEvent(context.Background(), event)

	// Assert
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), result.BatchItemFailures)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *IngestHandlerTestSuite) TestUndecodableMessageFailsOnlyItself() {
	// Arrange
	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "rid-bad", Body: "not json"},
		sqsRecord("rid-good", "TXN003"),
	}}

	suite.mockService.On("ScoreBatch", mock.Anything, mock.MatchedBy(func(transactions []models.RawTransaction) bool {
		return len(transactions) == 1 && transactions[0].TransactionID == "TXN003"
	})).Return([]models.PredictionRecord{
		{PredictionID: "p3", TransactionID: "TXN003"},
	}, nil, nil).Once()

	// Act
	result, err := suite.handler.ProcessTransactionEvent(context.Background(), event)

	// Assert
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), []string{"rid-bad"}, result.GetRids())
}

func (suite *IngestHandlerTestSuite) TestFailedTransactionsMapBackToMessageIDs() {
	// Arrange
	event := events.SQSEvent{Records: []events.SQSMessage{
		sqsRecord("rid-1", "TXN004"),
		sqsRecord("rid-2", "TXN005"),
	}}

	suite.mockService.On("ScoreBatch", mock.Anything, mock.Anything).
		Return([]models.PredictionRecord{{PredictionID: "p4", TransactionID: "TXN004"}},
			[]models.RawTransaction{{TransactionID: "TXN005"}},
			errors.New("scoring failed for transaction TXN005")).Once()

	// Act
	result, err := suite.handler.ProcessTransactionEvent(context.Background(), event)

	// Assert
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), []string{"rid-2"}, result.GetRids(),
		"Only the failed record should be redriven")
}

func (suite *IngestHandlerTestSuite) TestEmptyEvent() {
	// Arrange
	suite.mockService.On("ScoreBatch", mock.Anything, mock.Anything).
		Return(nil, nil, nil).Once()

	// Act
	result, err := suite.handler.ProcessTransactionEvent(context.Background(), events.SQSEvent{})

	// Assert
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), result.BatchItemFailures)
}

func TestIngestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(IngestHandlerTestSuite))
}
