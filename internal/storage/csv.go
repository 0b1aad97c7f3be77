package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/CardSentry/FraudSight/internal/models"
)

// EncodeRawTransactions writes raw transactions as CSV with the schema
// header. Missing nullable fields are written as empty cells.
func EncodeRawTransactions(w io.Writer, transactions []models.RawTransaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(models.RawColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range transactions {
		if err := writer.Write(rawTransactionRow(&txn)); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", txn.TransactionID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// DecodeRawTransactions reads raw transactions from CSV. Columns are located
// by header name, so column order in the file does not matter. Empty cells
// decode to nil fields; malformed numeric or timestamp cells are an error,
// since this is the storage boundary, not the cleaning policy.
func DecodeRawTransactions(r io.Reader) ([]models.RawTransaction, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[col] = i
	}

	var transactions []models.RawTransaction
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		txn, err := parseRawTransaction(record, colMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		transactions = append(transactions, *txn)
	}

	return transactions, nil
}

func rawTransactionRow(txn *models.RawTransaction) []string {
	row := make([]string, 0, len(models.RawColumns))
	for _, col := range models.RawColumns {
		row = append(row, rawField(txn, col))
	}
	return row
}

func rawField(txn *models.RawTransaction, column string) string {
	switch column {
	case "transaction_id":
		return txn.TransactionID
	case "timestamp":
		if txn.Timestamp == nil {
			return ""
		}
		return txn.Timestamp.Format(models.TimestampLayout)
	case "amount":
		if txn.Amount == nil {
			return ""
		}
		return strconv.FormatFloat(*txn.Amount, 'f', 2, 64)
	case "merchant_category":
		return deref(txn.MerchantCategory)
	case "card_number":
		return txn.CardNumber
	case "cardholder_name":
		return txn.CardholderName
	case "cardholder_address":
		return txn.CardholderAddress
	case "merchant_name":
		return deref(txn.MerchantName)
	case "merchant_city":
		return deref(txn.MerchantCity)
	case "merchant_country":
		return deref(txn.MerchantCountry)
	case "transaction_type":
		return txn.TransactionType
	case "device_type":
		return txn.DeviceType
	case "ip_address":
		return txn.IPAddress
	case "is_fraud":
		if txn.IsFraud == nil {
			return ""
		}
		return strconv.Itoa(*txn.IsFraud)
	default:
		return ""
	}
}

func parseRawTransaction(record []string, colMap map[string]int) (*models.RawTransaction, error) {
	cell := func(column string) string {
		idx, ok := colMap[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	txn := &models.RawTransaction{
		TransactionID:     cell("transaction_id"),
		MerchantCategory:  optional(cell("merchant_category")),
		CardNumber:        cell("card_number"),
		CardholderName:    cell("cardholder_name"),
		CardholderAddress: cell("cardholder_address"),
		MerchantName:      optional(cell("merchant_name")),
		MerchantCity:      optional(cell("merchant_city")),
		MerchantCountry:   optional(cell("merchant_country")),
		TransactionType:   cell("transaction_type"),
		DeviceType:        cell("device_type"),
		IPAddress:         cell("ip_address"),
	}

	if raw := cell("timestamp"); raw != "" {
		ts, err := time.Parse(models.TimestampLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", raw, err)
		}
		txn.Timestamp = &ts
	}

	if raw := cell("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		txn.Amount = &amount
	}

	if raw := cell("is_fraud"); raw != "" {
		label, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid is_fraud %q: %w", raw, err)
		}
		txn.IsFraud = &label
	}

	return txn, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
