package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/joho/godotenv"
)

const projectDirName = "FraudSight" // Your project name

// Config carries every boundary setting. It is built once by Load and passed
// explicitly to whatever needs it; there are no package-level singletons.
type Config struct {
	Region string

	// Storage boundary
	RawBucket          string
	ProcessedBucket    string
	RawPrefix          string
	ProcessedPrefix    string
	HistoricalStatsKey string

	// Prediction boundary
	EndpointName   string
	FraudThreshold float64

	// Training boundary
	TrainingRoleArn   string
	TrainingOutputURI string

	// Serving infrastructure
	PredictionsTable string
	QueueURL         string
	AlertTopicArn    string
	OnCallNumber     string
	TwilioFrom       string
	TwilioSecretName string
}

type TwilioSecrets struct {
	Username string `json:"TWILIO_USERNAME"`
	Password string `json:"TWILIO_PASSWORD"`
}

// LoadEnv loads environment variables from a .env file
func LoadEnv() {
	// Find project root directory dynamically
	projectName := regexp.MustCompile(`^(.*` + projectDirName + `)`)
	currentWorkDirectory, _ := os.Getwd()
	rootPath := projectName.Find([]byte(currentWorkDirectory))

	err := godotenv.Load(string(rootPath) + `/.env`)
	if err != nil {
		log.Printf("Warning: Could not load .env file from project root: %v", err)

		// Fallback to current directory
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: No .env file found in current directory")
		}
	} else {
		log.Printf("Loaded environment from %s/.env", string(rootPath))
	}
}

// Load builds the configuration from the environment.
func Load() *Config {
	LoadEnv()

	cfg := &Config{
		Region:             GetEnv("AWS_REGION", "us-east-1"),
		RawBucket:          GetEnv("RAW_BUCKET", ""),
		ProcessedBucket:    GetEnv("PROCESSED_BUCKET", ""),
		RawPrefix:          GetEnv("RAW_PREFIX", "data/raw"),
		ProcessedPrefix:    GetEnv("PROCESSED_PREFIX", "data/processed"),
		HistoricalStatsKey: GetEnv("HISTORICAL_STATS_KEY", "data/processed/historical_stats.json"),
		EndpointName:       GetEnv("SAGEMAKER_ENDPOINT", "fraud-detection-endpoint"),
		FraudThreshold:     GetEnvFloat("FRAUD_THRESHOLD", 0.5),
		TrainingRoleArn:    GetEnv("TRAINING_ROLE_ARN", ""),
		TrainingOutputURI:  GetEnv("TRAINING_OUTPUT_URI", ""),
		PredictionsTable:   GetEnv("PREDICTIONS_TABLE", "FraudPredictions"),
		QueueURL:           GetEnv("QUEUE_URL", ""),
		AlertTopicArn:      GetEnv("ALERT_TOPIC_ARN", ""),
		OnCallNumber:       GetEnv("ONCALL_NUMBER", ""),
		TwilioFrom:         GetEnv("TWILIO_FROM", ""),
		TwilioSecretName:   GetEnv("TWILIO_SECRET_NAME", "fraudsight/twilio"),
	}

	log.Printf("AWS Region: %s", cfg.Region)
	log.Printf("Raw bucket: %s", cfg.RawBucket)
	log.Printf("Processed bucket: %s", cfg.ProcessedBucket)
	log.Printf("SageMaker endpoint: %s", cfg.EndpointName)
	log.Printf("Predictions table: %s", cfg.PredictionsTable)
	log.Printf("SQS Queue URL: %s", cfg.QueueURL)
	log.Printf("CI Mode: %s", GetEnv("CI", "false"))

	return cfg
}

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvFloat retrieves a float environment variable or returns a default value
func GetEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid value for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return parsed
}

// AWSConfig stores AWS-specific configurations
type AWSConfig struct {
	Region      string
	Credentials aws.Credentials
	Config      aws.Config
}

// LoadAWSConfig initializes and returns a new AWSConfig instance
func LoadAWSConfig(ctx context.Context, region string) (*AWSConfig, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	// Static credentials only when provided; the default chain otherwise.
	if accessKey := GetEnv("AWS_ACCESS_KEY_ID", ""); accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: GetEnv("AWS_SECRET_ACCESS_KEY", ""),
				SessionToken:    GetEnv("AWS_SESSION_TOKEN", ""),
			},
		}))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	return &AWSConfig{
		Region:      region,
		Credentials: creds,
		Config:      cfg,
	}, nil
}

func IsCI() bool {
	return GetEnv("CI", "false") == "true"
}

// LoadTwilioSecrets fetches the Twilio credentials from Secrets Manager.
func LoadTwilioSecrets(ctx context.Context, cfg aws.Config, secretName string) (*TwilioSecrets, error) {
	svc := secretsmanager.NewFromConfig(cfg)

	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretName),
		VersionStage: aws.String("AWSCURRENT"), // default stage
	}

	result, err := svc.GetSecretValue(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve secret: %w", err)
	}

	var twilio TwilioSecrets
	if err := json.Unmarshal([]byte(*result.SecretString), &twilio); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	return &twilio, nil
}
