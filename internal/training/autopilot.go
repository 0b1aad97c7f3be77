// Package training hands the feature table to SageMaker Autopilot. It holds
// no training logic of its own; everything here is configuration for the
// managed service.
package training

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
)

// AutopilotConfig describes one AutoML training job over the processed
// feature table. TargetAttribute defaults to the fraud label.
type AutopilotConfig struct {
	JobName            string
	RoleArn            string
	TrainingDataS3URI  string
	OutputS3URI        string
	TargetAttribute    string
	MaxCandidates      int32
	MaxRuntimePerJob   time.Duration
	MaxTotalJobRuntime time.Duration
}

// DefaultAutopilotConfig mirrors the completion criteria the fraud model is
// tuned with: binary classification on AUC, 100 candidates, 1h per candidate,
// 24h overall.
func DefaultAutopilotConfig(jobName, roleArn, trainingURI, outputURI string) AutopilotConfig {
	return AutopilotConfig{
		JobName:            jobName,
		RoleArn:            roleArn,
		TrainingDataS3URI:  trainingURI,
		OutputS3URI:        outputURI,
		TargetAttribute:    "is_fraud",
		MaxCandidates:      100,
		MaxRuntimePerJob:   time.Hour,
		MaxTotalJobRuntime: 24 * time.Hour,
	}
}

// CreateJobInput builds the CreateAutoMLJob request for this config.
func (c AutopilotConfig) CreateJobInput() *sagemaker.CreateAutoMLJobInput {
	return &sagemaker.CreateAutoMLJobInput{
		AutoMLJobName: aws.String(c.JobName),
		ProblemType:   types.ProblemTypeBinaryClassification,
		RoleArn:       aws.String(c.RoleArn),
		AutoMLJobObjective: &types.AutoMLJobObjective{
			MetricName: types.AutoMLMetricEnumAuc,
		},
		AutoMLJobConfig: &types.AutoMLJobConfig{
			CompletionCriteria: &types.AutoMLJobCompletionCriteria{
				MaxCandidates:                     aws.Int32(c.MaxCandidates),
				MaxRuntimePerTrainingJobInSeconds: aws.Int32(int32(c.MaxRuntimePerJob.Seconds())),
				MaxAutoMLJobRuntimeInSeconds:      aws.Int32(int32(c.MaxTotalJobRuntime.Seconds())),
			},
		},
		InputDataConfig: []types.AutoMLChannel{
			{
				DataSource: &types.AutoMLDataSource{
					S3DataSource: &types.AutoMLS3DataSource{
						S3DataType: types.AutoMLS3DataTypeS3Prefix,
						S3Uri:      aws.String(c.TrainingDataS3URI),
					},
				},
				TargetAttributeName: aws.String(c.TargetAttribute),
			},
		},
		OutputDataConfig: &types.AutoMLOutputDataConfig{
			S3OutputPath: aws.String(c.OutputS3URI),
		},
	}
}

// CreateAutoMLJobAPI is the slice of the SageMaker client the launcher uses.
type CreateAutoMLJobAPI interface {
	CreateAutoMLJob(ctx context.Context, params *sagemaker.CreateAutoMLJobInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateAutoMLJobOutput, error)
}

// FsAutopilotLauncher submits AutoML jobs.
type FsAutopilotLauncher struct {
	client CreateAutoMLJobAPI
}

func NewFsAutopilotLauncher(client CreateAutoMLJobAPI) *FsAutopilotLauncher {
	return &FsAutopilotLauncher{client: client}
}

// LaunchTrainingJob submits the job and returns its ARN.
func (l *FsAutopilotLauncher) LaunchTrainingJob(ctx context.Context, cfg AutopilotConfig) (string, error) {
	output, err := l.client.CreateAutoMLJob(ctx, cfg.CreateJobInput())
	if err != nil {
		return "", fmt.Errorf("failed to create AutoML job %s: %w", cfg.JobName, err)
	}
	return aws.ToString(output.AutoMLJobArn), nil
}
