package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/CardSentry/FraudSight/internal/config"
	"github.com/CardSentry/FraudSight/internal/messaging"
	"github.com/CardSentry/FraudSight/internal/models"
	"github.com/CardSentry/FraudSight/internal/storage"
)

// ProcessingState tracks which transactions have been published, so an
// interrupted replay resumes where it stopped instead of re-queueing.
type ProcessingState struct {
	LastProcessedIndex int       `json:"lastProcessedIndex"`
	LastRunTime        time.Time `json:"lastRunTime"`
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	batchSize, err := strconv.Atoi(config.GetEnv("BATCH_SIZE", ""))
	if err != nil || batchSize <= 0 {
		batchSize = 10
		log.Printf("Using default batch size: %d", batchSize)
	} else {
		log.Printf("Using configured batch size: %d", batchSize)
	}

	if cfg.QueueURL == "" {
		log.Fatal("QUEUE_URL must be set")
	}

	awsConf, err := config.LoadAWSConfig(ctx, cfg.Region)
	if err != nil {
		log.Fatalf("Unable to load AWS config: %v", err)
	}
	sqsHandler := messaging.NewSQSHandler(sqs.NewFromConfig(awsConf.Config), cfg.QueueURL)

	csvFilePath := config.GetEnv("CSV_FILE_PATH", "data/raw/test_data.csv")
	log.Printf("Using CSV file: %s", csvFilePath)

	statePath := filepath.Join(filepath.Dir(csvFilePath), "."+filepath.Base(csvFilePath)+".state")
	state, err := loadOrCreateState(statePath)
	if err != nil {
		log.Fatalf("Failed to load or create state: %v", err)
	}

	file, err := os.Open(csvFilePath)
	if err != nil {
		log.Fatalf("Unable to open CSV file: %v", err)
	}
	transactions, err := storage.DecodeRawTransactions(file)
	file.Close()
	if err != nil {
		log.Fatalf("Unable to decode CSV file: %v", err)
	}

	if state.LastProcessedIndex >= len(transactions) {
		log.Printf("All %d transactions already published, nothing to do", len(transactions))
		return
	}
	if state.LastProcessedIndex > 0 {
		log.Printf("Resuming from index %d", state.LastProcessedIndex)
	}

	var wg sync.WaitGroup
	var batchCount int
	var totalSent int

	for start := state.LastProcessedIndex; start < len(transactions); start += batchSize {
		end := start + batchSize
		if end > len(transactions) {
			end = len(transactions)
		}
		batch := transactions[start:end]

		publishBatch(ctx, &wg, sqsHandler, batch)

		state.LastProcessedIndex = end
		if err := saveState(state, statePath); err != nil {
			log.Printf("Error saving state: %v", err)
		}

		batchCount++
		totalSent += len(batch)
		log.Printf("Queued batch %d with %d transactions (up to index %d)", batchCount, len(batch), end)
	}

	wg.Wait()

	state.LastRunTime = time.Now()
	if err := saveState(state, statePath); err != nil {
		log.Printf("Error saving final state: %v", err)
	}

	log.Printf("Publishing complete. Sent %d transactions in %d batches", totalSent, batchCount)
}

// loadOrCreateState loads the processing state or starts a fresh one.
func loadOrCreateState(statePath string) (*ProcessingState, error) {
	state := &ProcessingState{}

	if _, err := os.Stat(statePath); err != nil {
		return state, nil
	}

	stateFile, err := os.Open(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	defer stateFile.Close()

	if err := json.NewDecoder(stateFile).Decode(state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return state, nil
}

// saveState writes the state through a temp file so a crash mid-write never
// corrupts it.
func saveState(state *ProcessingState, statePath string) error {
	tempFile, err := os.CreateTemp(filepath.Dir(statePath), ".tmp-state")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if err := json.NewEncoder(tempFile).Encode(state); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode state: %w", err)
	}
	tempFile.Close()

	if err := os.Rename(tempPath, statePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// publishBatch sends a batch of transactions to SQS in the background.
func publishBatch(ctx context.Context, wg *sync.WaitGroup, sqsHandler *messaging.SQSHandler, batch []models.RawTransaction) {
	wg.Add(1)
	go func(b []models.RawTransaction) {
		defer wg.Done()

		startTime := time.Now()
		successCount := 0

		for _, transaction := range b {
			txCopy := transaction
			if err := sqsHandler.SendTransaction(ctx, &txCopy); err != nil {
				log.Printf("Error sending transaction %s: %v", transaction.TransactionID, err)
				continue
			}
			successCount++
		}

		log.Printf("Batch completed: %d/%d successful in %v", successCount, len(b), time.Since(startTime))
	}(batch)
}
