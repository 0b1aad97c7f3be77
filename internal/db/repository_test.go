package db

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/CardSentry/FraudSight/internal/models"
)

type MockDynamoDBAPI struct {
	mock.Mock
}

func (m *MockDynamoDBAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (m *MockDynamoDBAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

type PredictionRepositoryTestSuite struct {
	suite.Suite
	mockClient *MockDynamoDBAPI
	repository PredictionRepository
}

func (suite *PredictionRepositoryTestSuite) SetupTest() {
	suite.mockClient = new(MockDynamoDBAPI)
	suite.repository = NewPredictionRepository(NewDynamoDBClient(suite.mockClient, "FraudPredictions"))
}

func sampleRecord() *models.PredictionRecord {
	return &models.PredictionRecord{
		PredictionDate:       "2024-03-15",
		PredictionID:         "pred-1",
		ScoredAt:             "2024-03-15T10:00:00Z",
		Amount:               50,
		PredictedProbability: 0.2,
		Verdict:              models.VerdictApproved,
	}
}

func (suite *PredictionRepositoryTestSuite) TestSavePrediction() {
	// Arrange
	suite.mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.PutItemInput) bool {
		return *input.TableName == "FraudPredictions" && input.ConditionExpression != nil
	})).Return(&dynamodb.PutItemOutput{}, nil).Once()

	// Act
	err := suite.repository.SavePrediction(context.Background(), sampleRecord())

	// Assert
	assert.NoError(suite.T(), err)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *PredictionRepositoryTestSuite) TestSavePredictionRejectsDuplicates() {
	// Arrange
	suite.mockClient.On("PutItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{}).Once()

	// Act
	err := suite.repository.SavePrediction(context.Background(), sampleRecord())

	// Assert
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "already recorded")
}

func (suite *PredictionRepositoryTestSuite) TestGetPrediction() {
	// Arrange
	item, err := sampleRecord().MarshalDynamoDB()
	assert.NoError(suite.T(), err)
	suite.mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{Item: item}, nil).Once()

	// Act
	record, err := suite.repository.GetPrediction(context.Background(), "2024-03-15", "pred-1")

	// Assert
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), sampleRecord(), record)
}

func (suite *PredictionRepositoryTestSuite) TestGetPredictionRequiresKeys() {
	_, err := suite.repository.GetPrediction(context.Background(), "", "pred-1")
	assert.Error(suite.T(), err)

	_, err = suite.repository.GetPrediction(context.Background(), "2024-03-15", "")
	assert.Error(suite.T(), err)

	suite.mockClient.AssertNotCalled(suite.T(), "GetItem")
}

func (suite *PredictionRepositoryTestSuite) TestGetPredictionNotFound() {
	// Arrange
	suite.mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{}, nil).Once()

	// Act
	_, err := suite.repository.GetPrediction(context.Background(), "2024-03-15", "pred-missing")

	// Assert
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "not found")
}

func (suite *PredictionRepositoryTestSuite) TestListPredictionsByDateFollowsPagination() {
	// Arrange
	first, err := sampleRecord().MarshalDynamoDB()
	assert.NoError(suite.T(), err)
	secondRecord := sampleRecord()
	secondRecord.PredictionID = "pred-2"
	second, err := secondRecord.MarshalDynamoDB()
	assert.NoError(suite.T(), err)

	lastKey := map[string]types.AttributeValue{
		PartitionKey: &types.AttributeValueMemberS{Value: "2024-03-15"},
	}
	suite.mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
		return input.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{first}, LastEvaluatedKey: lastKey}, nil).Once()
	suite.mockClient.On("Query", mock.Anything, mock.MatchedBy(func(input *dynamodb.QueryInput) bool {
		return input.ExclusiveStartKey != nil
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{second}}, nil).Once()

	// Act
	records, err := suite.repository.ListPredictionsByDate(context.Background(), "2024-03-15")

	// Assert
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 2)
	assert.Equal(suite.T(), "pred-1", records[0].PredictionID)
	assert.Equal(suite.T(), "pred-2", records[1].PredictionID)
	suite.mockClient.AssertExpectations(suite.T())
}

func (suite *PredictionRepositoryTestSuite) TestListPredictionsByDateEmpty() {
	// Arrange
	suite.mockClient.On("Query", mock.Anything, mock.Anything).
		Return(&dynamodb.QueryOutput{}, nil).Once()

	// Act
	records, err := suite.repository.ListPredictionsByDate(context.Background(), "2024-03-15")

	// Assert
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), records)
}

func (suite *PredictionRepositoryTestSuite) TestListPredictionsQueryError() {
	// Arrange
	suite.mockClient.On("Query", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled")).Once()

	// Act
	_, err := suite.repository.ListPredictionsByDate(context.Background(), "2024-03-15")

	// Assert
	assert.Error(suite.T(), err)
}

func TestPredictionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PredictionRepositoryTestSuite))
}
