package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/CardSentry/FraudSight/internal/models"
	"github.com/CardSentry/FraudSight/internal/storage"
)

type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) ReadHistoricalStats(ctx context.Context, key string) (*models.HistoricalStats, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HistoricalStats), args.Error(1)
}

type StatsHandlerTestSuite struct {
	suite.Suite
	mockReader *MockStatsReader
	handler    *FsStatsHandler
}

func (suite *StatsHandlerTestSuite) SetupTest() {
	suite.mockReader = new(MockStatsReader)
	suite.handler = NewFsStatsHandler(suite.mockReader, "data/processed/historical_stats.json")
}

func (suite *StatsHandlerTestSuite) TestStatsAvailable() {
	// Arrange
	stats := &models.HistoricalStats{
		AvgFraudRate:      0.012,
		TotalTransactions: 120000,
		DetectedFraud:     1440,
	}
	suite.mockReader.On("ReadHistoricalStats", mock.Anything, "data/processed/historical_stats.json").
		Return(stats, nil).Once()

	// Act
	response, err := suite.handler.HandleStatsRequest(context.Background(), events.APIGatewayProxyRequest{})

	// Assert
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, response.StatusCode)

	var body statsResponseBody
	assert.NoError(suite.T(), json.Unmarshal([]byte(response.Body), &body))
	assert.True(suite.T(), body.Available)
	assert.Equal(suite.T(), 0.012, body.Stats.AvgFraudRate)
	suite.mockReader.AssertExpectations(suite.T())
}

func (suite *StatsHandlerTestSuite) TestMissingStatsDegrade() {
	// Arrange
	suite.mockReader.On("ReadHistoricalStats", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: NoSuchKey", storage.ErrHistoricalStatsUnavailable)).Once()

	// Act
	response, err := suite.handler.HandleStatsRequest(context.Background(), events.APIGatewayProxyRequest{})

	// Assert
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, response.StatusCode, "Missing stats are not an error")

	var body statsResponseBody
	assert.NoError(suite.T(), json.Unmarshal([]byte(response.Body), &body))
	assert.False(suite.T(), body.Available)
	assert.Nil(suite.T(), body.Stats)
}

func (suite *StatsHandlerTestSuite) TestUnexpectedErrorReturns500() {
	// Arrange
	suite.mockReader.On("ReadHistoricalStats", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	// Act
	response, err := suite.handler.HandleStatsRequest(context.Background(), events.APIGatewayProxyRequest{})

	// Assert
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusInternalServerError, response.StatusCode)
}

func TestStatsHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(StatsHandlerTestSuite))
}
