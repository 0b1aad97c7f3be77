package training

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCreateAutoMLJobAPI struct {
	mock.Mock
}

func (m *MockCreateAutoMLJobAPI) CreateAutoMLJob(ctx context.Context, params *sagemaker.CreateAutoMLJobInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateAutoMLJobOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sagemaker.CreateAutoMLJobOutput), args.Error(1)
}

func TestCreateJobInput(t *testing.T) {
	cfg := DefaultAutopilotConfig("fraud-automl-1", "arn:aws:iam::123:role/train", "s3://bucket/data/processed/", "s3://bucket/models/")

	input := cfg.CreateJobInput()

	assert.Equal(t, "fraud-automl-1", *input.AutoMLJobName)
	assert.Equal(t, types.ProblemTypeBinaryClassification, input.ProblemType)
	assert.Equal(t, types.AutoMLMetricEnumAuc, input.AutoMLJobObjective.MetricName)
	assert.Equal(t, int32(100), *input.AutoMLJobConfig.CompletionCriteria.MaxCandidates)
	assert.Equal(t, int32(3600), *input.AutoMLJobConfig.CompletionCriteria.MaxRuntimePerTrainingJobInSeconds)
	assert.Equal(t, int32(86400), *input.AutoMLJobConfig.CompletionCriteria.MaxAutoMLJobRuntimeInSeconds)
	assert.Equal(t, "is_fraud", *input.InputDataConfig[0].TargetAttributeName)
	assert.Equal(t, "s3://bucket/data/processed/", *input.InputDataConfig[0].DataSource.S3DataSource.S3Uri)
	assert.Equal(t, "s3://bucket/models/", *input.OutputDataConfig.S3OutputPath)
}

func TestLaunchTrainingJob(t *testing.T) {
	mockClient := new(MockCreateAutoMLJobAPI)
	mockClient.On("CreateAutoMLJob", mock.Anything, mock.MatchedBy(func(input *sagemaker.CreateAutoMLJobInput) bool {
		return *input.AutoMLJobName == "fraud-automl-2"
	})).Return(&sagemaker.CreateAutoMLJobOutput{
		AutoMLJobArn: aws.String("arn:aws:sagemaker:us-east-1:123:automl-job/fraud-automl-2"),
	}, nil).Once()

	launcher := NewFsAutopilotLauncher(mockClient)
	cfg := DefaultAutopilotConfig("fraud-automl-2", "role", "s3://in/", "s3://out/")

	jobArn, err := launcher.LaunchTrainingJob(context.Background(), cfg)

	assert.NoError(t, err)
	assert.Equal(t, "arn:aws:sagemaker:us-east-1:123:automl-job/fraud-automl-2", jobArn)
	mockClient.AssertExpectations(t)
}

func TestLaunchTrainingJobError(t *testing.T) {
	mockClient := new(MockCreateAutoMLJobAPI)
	mockClient.On("CreateAutoMLJob", mock.Anything, mock.Anything).
		Return(nil, errors.New("access denied")).Once()

	launcher := NewFsAutopilotLauncher(mockClient)

	_, err := launcher.LaunchTrainingJob(context.Background(), DefaultAutopilotConfig("j", "r", "s3://in/", "s3://out/"))

	assert.Error(t, err)
}
