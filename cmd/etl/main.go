package main

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/CardSentry/FraudSight/internal/config"
	"github.com/CardSentry/FraudSight/internal/observability"
	"github.com/CardSentry/FraudSight/internal/pipeline"
	"github.com/CardSentry/FraudSight/internal/storage"
)

// The ETL job turns one raw CSV split into the partitioned feature table:
// raw bucket -> Clean -> parquet partitions under the processed prefix.
func main() {
	ctx := context.Background()
	cfg := config.Load()

	if endpoint := config.GetEnv("OTLP_ENDPOINT", ""); endpoint != "" {
		shutdown := observability.InitTracer(endpoint, "fraudsight-etl", config.GetEnv("SERVICE_VERSION", "dev"))
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}

	awsConf, err := config.LoadAWSConfig(ctx, cfg.Region)
	if err != nil {
		log.Fatalf("Unable to load AWS config: %v", err)
	}

	s3Client := s3.NewFromConfig(awsConf.Config)
	rawStorage := storage.NewS3Storage(s3Client, cfg.RawBucket)
	processedStorage := storage.NewS3Storage(s3Client, cfg.ProcessedBucket)

	runID := uuid.NewString()
	inputKey := config.GetEnv("INPUT_KEY", cfg.RawPrefix+"/train_data.csv")
	outputPrefix := config.GetEnv("OUTPUT_PREFIX", cfg.ProcessedPrefix)
	log.Printf("ETL run %s: s3://%s/%s -> s3://%s/%s", runID, cfg.RawBucket, inputKey, cfg.ProcessedBucket, outputPrefix)

	transactions, err := rawStorage.ReadRawTransactions(ctx, inputKey)
	if err != nil {
		log.Fatalf("Unable to read raw transactions: %v", err)
	}

	features, summary := pipeline.Clean(transactions)

	log.Printf("Cleaned %d/%d records (%d duplicates collapsed, %d skipped)",
		summary.OutputCount, summary.InputCount, summary.DuplicateCount, len(summary.Skipped))
	for _, skipped := range summary.Skipped {
		log.Printf("Skipped transaction %s: %s", skipped.TransactionID, skipped.Reason)
	}

	written, err := processedStorage.WriteFeatureTable(ctx, outputPrefix, features)
	if err != nil {
		log.Fatalf("Unable to write feature table (wrote %d partitions): %v", len(written), err)
	}

	log.Printf("ETL run %s complete: %d partition files written", runID, len(written))
	for _, key := range written {
		log.Printf("  s3://%s/%s", cfg.ProcessedBucket, key)
	}
}
