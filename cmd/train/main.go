package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sagemaker"

	"github.com/CardSentry/FraudSight/internal/config"
	"github.com/CardSentry/FraudSight/internal/training"
)

// Launches the Autopilot job over the processed feature table. The job runs
// inside SageMaker; this process only submits it.
func main() {
	ctx := context.Background()
	cfg := config.Load()

	if cfg.TrainingRoleArn == "" || cfg.TrainingOutputURI == "" {
		log.Fatal("TRAINING_ROLE_ARN and TRAINING_OUTPUT_URI must be set")
	}

	awsConf, err := config.LoadAWSConfig(ctx, cfg.Region)
	if err != nil {
		log.Fatalf("Unable to load AWS config: %v", err)
	}

	jobName := config.GetEnv("TRAINING_JOB_NAME", fmt.Sprintf("fraudsight-automl-%s", time.Now().UTC().Format("20060102-150405")))
	trainingURI := config.GetEnv("TRAINING_DATA_URI", fmt.Sprintf("s3://%s/%s/", cfg.ProcessedBucket, cfg.ProcessedPrefix))

	jobConfig := training.DefaultAutopilotConfig(jobName, cfg.TrainingRoleArn, trainingURI, cfg.TrainingOutputURI)

	launcher := training.NewFsAutopilotLauncher(sagemaker.NewFromConfig(awsConf.Config))
	jobArn, err := launcher.LaunchTrainingJob(ctx, jobConfig)
	if err != nil {
		log.Fatalf("Unable to launch training job: %v", err)
	}

	log.Printf("Launched AutoML job %s", jobName)
	log.Printf("Job ARN: %s", jobArn)
	log.Printf("Training data: %s", trainingURI)
	log.Printf("Output path: %s", cfg.TrainingOutputURI)
}
