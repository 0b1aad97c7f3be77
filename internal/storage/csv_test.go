package storage

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/CardSentry/FraudSight/internal/models"
)

type CSVCodecTestSuite struct {
	suite.Suite
}

func (suite *CSVCodecTestSuite) TestRoundTrip() {
	// Arrange
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	amount := 123.45
	category := "retail"
	label := 1
	original := []models.RawTransaction{
		{
			TransactionID:    "TXN00000001",
			Timestamp:        &ts,
			Amount:           &amount,
			MerchantCategory: &category,
			CardNumber:       "4111111111111111",
			CardholderName:   "Jordan Smith",
			TransactionType:  models.TransactionTypeOnline,
			DeviceType:       models.DeviceTypeMobile,
			IPAddress:        "192.0.2.10",
			IsFraud:          &label,
		},
	}

	// Act
	var buf bytes.Buffer
	err := EncodeRawTransactions(&buf, original)
	assert.NoError(suite.T(), err)

	decoded, err := DecodeRawTransactions(&buf)

	// Assert
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), decoded, 1)
	assert.Equal(suite.T(), "TXN00000001", decoded[0].TransactionID)
	assert.True(suite.T(), decoded[0].Timestamp.Equal(ts))
	assert.Equal(suite.T(), amount, *decoded[0].Amount)
	assert.Equal(suite.T(), category, *decoded[0].MerchantCategory)
	assert.Equal(suite.T(), 1, *decoded[0].IsFraud)
}

func (suite *CSVCodecTestSuite) TestHeaderMatchesSchema() {
	// Act
	var buf bytes.Buffer
	err := EncodeRawTransactions(&buf, nil)

	// Assert
	assert.NoError(suite.T(), err)
	header := strings.Split(strings.TrimSpace(buf.String()), ",")
	assert.Equal(suite.T(), models.RawColumns, header)
}

func (suite *CSVCodecTestSuite) TestEmptyCellsDecodeToNil() {
	// Arrange
	input := "transaction_id,timestamp,amount,merchant_category,is_fraud\n" +
		"TXN001,,,,\n"

	// Act
	decoded, err := DecodeRawTransactions(strings.NewReader(input))

	// Assert
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), decoded, 1)
	assert.Nil(suite.T(), decoded[0].Timestamp)
	assert.Nil(suite.T(), decoded[0].Amount)
	assert.Nil(suite.T(), decoded[0].MerchantCategory)
	assert.Nil(suite.T(), decoded[0].IsFraud)
}

func (suite *CSVCodecTestSuite) TestColumnOrderDoesNotMatter() {
	// Arrange: amount before transaction_id.
	input := "amount,transaction_id\n" +
		"42.50,TXN002\n"

	// Act
	decoded, err := DecodeRawTransactions(strings.NewReader(input))

	// Assert
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "TXN002", decoded[0].TransactionID)
	assert.Equal(suite.T(), 42.50, *decoded[0].Amount)
}

func (suite *CSVCodecTestSuite) TestMalformedCellsAreErrors() {
	cases := []string{
		"transaction_id,amount\nTXN003,not-a-number\n",
		"transaction_id,timestamp\nTXN004,yesterday\n",
		"transaction_id,is_fraud\nTXN005,maybe\n",
	}

	for _, input := range cases {
		_, err := DecodeRawTransactions(strings.NewReader(input))
		assert.Error(suite.T(), err)
		assert.Contains(suite.T(), err.Error(), "line 2")
	}
}

type PartitionTestSuite struct {
	suite.Suite
}

func (suite *PartitionTestSuite) TestPartitionKeysFollowHiveLayout() {
	// Arrange
	record := models.FeatureRecord{MerchantCategory: "travel", IsFraud: 1}

	// Assert
	assert.Equal(suite.T(), "merchant_category=travel/is_fraud=1", record.PartitionKey())
}

func (suite *PartitionTestSuite) TestPartitioningPreservesRowOrder() {
	// Arrange
	records := []models.FeatureRecord{
		{TransactionID: "TXN001", MerchantCategory: "retail", IsFraud: 0},
		{TransactionID: "TXN002", MerchantCategory: "food", IsFraud: 0},
		{TransactionID: "TXN003", MerchantCategory: "retail", IsFraud: 0},
		{TransactionID: "TXN004", MerchantCategory: "retail", IsFraud: 1},
	}

	// Act
	partitions := PartitionFeatures(records)

	// Assert
	assert.Len(suite.T(), partitions, 3)
	retail := partitions["merchant_category=retail/is_fraud=0"]
	assert.Len(suite.T(), retail, 2)
	assert.Equal(suite.T(), "TXN001", retail[0].TransactionID)
	assert.Equal(suite.T(), "TXN003", retail[1].TransactionID)
	assert.Len(suite.T(), partitions["merchant_category=retail/is_fraud=1"], 1)
}

func (suite *PartitionTestSuite) TestParquetWriteProducesData() {
	// Arrange
	records := []models.FeatureRecord{
		{TransactionID: "TXN001", Timestamp: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), Amount: 10, MerchantCategory: "retail"},
	}

	// Act
	var buf bytes.Buffer
	err := WriteParquet(&buf, records)

	// Assert
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), buf.Len())
	assert.Equal(suite.T(), "PAR1", buf.String()[:4], "Parquet files start with the PAR1 magic")
}

func TestCSVCodecTestSuite(t *testing.T) {
	suite.Run(t, new(CSVCodecTestSuite))
}

func TestPartitionTestSuite(t *testing.T) {
	suite.Run(t, new(PartitionTestSuite))
}
