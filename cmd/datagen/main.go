package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/CardSentry/FraudSight/internal/config"
	"github.com/CardSentry/FraudSight/internal/datagen"
	"github.com/CardSentry/FraudSight/internal/models"
	"github.com/CardSentry/FraudSight/internal/storage"
)

// Fixed sample counts and fraud ratio for the reproducible train/test split.
const (
	trainSamples = 100000
	testSamples  = 20000
	fraudRatio   = 0.01
)

func main() {
	cfg := config.Load()

	seed := time.Now().UnixNano()
	if raw := config.GetEnv("DATAGEN_SEED", ""); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("Invalid DATAGEN_SEED: %v", err)
		}
		seed = parsed
	}

	outputDir := config.GetEnv("OUTPUT_DIR", "data/raw")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatalf("Unable to create output directory: %v", err)
	}

	generator := datagen.NewGenerator(seed)

	trainData := generateOrDie(generator, trainSamples)
	testData := generateOrDie(generator, testSamples)

	trainPath := filepath.Join(outputDir, "train_data.csv")
	testPath := filepath.Join(outputDir, "test_data.csv")
	writeOrDie(trainPath, trainData)
	writeOrDie(testPath, testData)

	log.Println("Data generation completed!")
	log.Printf("Training data: %d records -> %s", len(trainData), trainPath)
	log.Printf("Test data: %d records -> %s", len(testData), testPath)
	log.Printf("Fraud ratio in training: %.4f", realizedRatio(trainData))
	log.Printf("Fraud ratio in test: %.4f", realizedRatio(testData))

	// With a bucket configured the splits also land on S3 for the ETL job.
	if cfg.RawBucket != "" {
		ctx := context.Background()
		awsConf, err := config.LoadAWSConfig(ctx, cfg.Region)
		if err != nil {
			log.Fatalf("Unable to load AWS config: %v", err)
		}

		rawStorage := storage.NewS3Storage(s3.NewFromConfig(awsConf.Config), cfg.RawBucket)
		uploadOrDie(ctx, rawStorage, cfg.RawPrefix+"/train_data.csv", trainData)
		uploadOrDie(ctx, rawStorage, cfg.RawPrefix+"/test_data.csv", testData)
		log.Printf("Uploaded splits to s3://%s/%s", cfg.RawBucket, cfg.RawPrefix)
	}
}

func generateOrDie(generator *datagen.Generator, n int) []models.RawTransaction {
	batch, err := generator.Generate(n, fraudRatio)
	if err != nil {
		log.Fatalf("Data generation failed: %v", err)
	}
	return batch
}

func writeOrDie(path string, batch []models.RawTransaction) {
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("Unable to create %s: %v", path, err)
	}
	defer file.Close()

	if err := storage.EncodeRawTransactions(file, batch); err != nil {
		log.Fatalf("Unable to write %s: %v", path, err)
	}
}

func uploadOrDie(ctx context.Context, rawStorage *storage.S3Storage, key string, batch []models.RawTransaction) {
	if err := rawStorage.WriteRawTransactions(ctx, key, batch); err != nil {
		log.Fatalf("Unable to upload %s: %v", key, err)
	}
}

func realizedRatio(batch []models.RawTransaction) float64 {
	if len(batch) == 0 {
		return 0
	}
	fraud := 0
	for _, txn := range batch {
		if txn.IsFraud != nil && *txn.IsFraud == 1 {
			fraud++
		}
	}
	return float64(fraud) / float64(len(batch))
}
