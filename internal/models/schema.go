package models

// This file is the single definition of the transaction schema. The synthetic
// generator, the feature pipeline, the storage codecs and the scoring payload
// all consume these lists so the three can never drift apart.

// TimestampLayout is the wire format for timestamps in raw CSV files.
const TimestampLayout = "2006-01-02 15:04:05"

// Defaults substituted for missing nullable fields during cleaning.
const (
	DefaultAmount        = 0.0
	DefaultMerchantField = "unknown"
)

// Transaction type enum.
const (
	TransactionTypeOnline  = "online"
	TransactionTypeInStore = "in_store"
	TransactionTypeATM     = "atm"
)

// Device type enum.
const (
	DeviceTypeMobile      = "mobile"
	DeviceTypeDesktop     = "desktop"
	DeviceTypePOSTerminal = "pos_terminal"
	DeviceTypeATM         = "atm"
)

var TransactionTypes = []string{TransactionTypeOnline, TransactionTypeInStore, TransactionTypeATM}

var DeviceTypes = []string{DeviceTypeMobile, DeviceTypeDesktop, DeviceTypePOSTerminal, DeviceTypeATM}

var MerchantCategories = []string{"retail", "food", "travel", "entertainment", "utilities"}

// HighRiskCountries is the fixed watch-list behind the is_high_risk_country
// flag. Matching is case-sensitive and exact.
var HighRiskCountries = []string{"Russia", "China", "Nigeria", "Brazil"}

// RawColumns is the CSV header of raw transaction files, in order.
var RawColumns = []string{
	"transaction_id", "timestamp", "amount", "merchant_category",
	"card_number", "cardholder_name", "cardholder_address",
	"merchant_name", "merchant_city", "merchant_country",
	"transaction_type", "device_type", "ip_address", "is_fraud",
}

// FeatureColumns is the fixed, ordered column list of the feature table.
// Derived columns later in the list may depend on earlier ones.
var FeatureColumns = []string{
	"transaction_id", "timestamp", "amount", "amount_log",
	"merchant_category", "merchant_name", "merchant_city",
	"merchant_country", "transaction_type", "device_type",
	"hour", "day_of_week", "month", "is_weekend", "is_night",
	"is_high_risk_country", "is_online_transaction", "is_mobile_device",
	"is_fraud",
}

// PartitionColumns is the feature-table partitioning scheme. It only affects
// downstream query pruning, never correctness.
var PartitionColumns = []string{"merchant_category", "is_fraud"}

func IsHighRiskCountry(country string) bool {
	for _, c := range HighRiskCountries {
		if country == c {
			return true
		}
	}
	return false
}

func IsValidTransactionType(t string) bool {
	return contains(TransactionTypes, t)
}

func IsValidDeviceType(d string) bool {
	return contains(DeviceTypes, d)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
