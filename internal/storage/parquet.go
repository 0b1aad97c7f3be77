package storage

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/CardSentry/FraudSight/internal/models"
)

// WriteParquet writes feature records as a snappy-compressed parquet file.
func WriteParquet(w io.Writer, records []models.FeatureRecord) error {
	writer := parquet.NewGenericWriter[models.FeatureRecord](w,
		parquet.Compression(&parquet.Snappy),
	)

	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// PartitionFeatures groups feature records by their partition key
// (merchant_category, is_fraud), preserving row order inside each partition.
func PartitionFeatures(records []models.FeatureRecord) map[string][]models.FeatureRecord {
	partitions := make(map[string][]models.FeatureRecord)
	for _, record := range records {
		key := record.PartitionKey()
		partitions[key] = append(partitions[key], record)
	}
	return partitions
}
