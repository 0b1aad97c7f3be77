package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/CardSentry/FraudSight/internal/models"
)

// ErrHistoricalStatsUnavailable is returned when the dashboard's historical
// stats object cannot be read. Non-fatal: callers degrade by omitting the
// historical panel.
var ErrHistoricalStatsUnavailable = errors.New("historical stats unavailable")

// S3API is the slice of the S3 client the storage layer needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage wraps the AWS SDK client for one bucket.
type S3Storage struct {
	Client S3API
	Bucket string
}

func NewS3Storage(client S3API, bucket string) *S3Storage {
	return &S3Storage{
		Client: client,
		Bucket: bucket,
	}
}

// ReadRawTransactions fetches and decodes a raw transaction CSV object.
func (s *S3Storage) ReadRawTransactions(ctx context.Context, key string) ([]models.RawTransaction, error) {
	output, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, key, err)
	}
	defer output.Body.Close()

	transactions, err := DecodeRawTransactions(output.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode s3://%s/%s: %w", s.Bucket, key, err)
	}
	return transactions, nil
}

// WriteRawTransactions encodes raw transactions to CSV and uploads them.
func (s *S3Storage) WriteRawTransactions(ctx context.Context, key string, transactions []models.RawTransaction) error {
	var buf bytes.Buffer
	if err := EncodeRawTransactions(&buf, transactions); err != nil {
		return err
	}

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.Bucket, key, err)
	}
	return nil
}

// WriteFeatureTable writes feature records as parquet under prefix,
// partitioned by (merchant_category, is_fraud) in Hive layout. Returns the
// written object keys in deterministic partition order.
func (s *S3Storage) WriteFeatureTable(ctx context.Context, prefix string, records []models.FeatureRecord) ([]string, error) {
	partitions := PartitionFeatures(records)

	partitionKeys := make([]string, 0, len(partitions))
	for key := range partitions {
		partitionKeys = append(partitionKeys, key)
	}
	sort.Strings(partitionKeys)

	var written []string
	for _, partition := range partitionKeys {
		var buf bytes.Buffer
		if err := WriteParquet(&buf, partitions[partition]); err != nil {
			return written, fmt.Errorf("partition %s: %w", partition, err)
		}

		key := path.Join(prefix, partition, fmt.Sprintf("part-%s.parquet", uuid.NewString()))
		_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String("application/vnd.apache.parquet"),
		})
		if err != nil {
			return written, fmt.Errorf("failed to put s3://%s/%s: %w", s.Bucket, key, err)
		}
		written = append(written, key)
	}

	return written, nil
}

// ReadHistoricalStats fetches the dashboard's historical stats JSON. Any
// failure maps to ErrHistoricalStatsUnavailable.
func (s *S3Storage) ReadHistoricalStats(ctx context.Context, key string) (*models.HistoricalStats, error) {
	output, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoricalStatsUnavailable, err)
	}
	defer output.Body.Close()

	var stats models.HistoricalStats
	if err := json.NewDecoder(output.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoricalStatsUnavailable, err)
	}
	return &stats, nil
}
