// Package datagen produces labeled synthetic transaction batches with
// injected fraud patterns. It exists to exercise the feature pipeline and to
// bootstrap training data when no real feed is available; it is not part of
// the production path.
package datagen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/CardSentry/FraudSight/internal/models"
)

// historyWindow is the span the generated timestamps are drawn from,
// uniformly, ending at the generator's reference time.
const historyWindow = 30 * 24 * time.Hour

// Generator produces reproducible synthetic transaction data. The same seed
// and reference time always yield the same batch.
type Generator struct {
	rng   *rand.Rand
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator returns a seeded generator anchored at the current time.
func NewGenerator(seed int64) *Generator {
	return NewGeneratorAt(seed, time.Now())
}

// NewGeneratorAt returns a seeded generator anchored at a fixed reference
// time, for deterministic tests.
func NewGeneratorAt(seed int64, now time.Time) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(uint64(seed)),
		now:   now,
	}
}

// Generate returns exactly n raw transactions, of which exactly
// round(n*fraudRatio) carry is_fraud=1. Baseline amounts follow a
// lognormal(4, 1) distribution; fraud rows get the amount multiplied by a
// uniform factor in [2,10), a watch-list merchant country, a mobile device
// and an online transaction type. Amounts are rounded to 2 decimal places.
func (g *Generator) Generate(n int, fraudRatio float64) ([]models.RawTransaction, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count must be non-negative, got %d", n)
	}
	if fraudRatio < 0 || fraudRatio > 1 {
		return nil, fmt.Errorf("fraud ratio must be in [0,1], got %f", fraudRatio)
	}

	transactions := make([]models.RawTransaction, n)
	for i := 0; i < n; i++ {
		transactions[i] = g.baseline(i)
	}

	// Exactly the configured count of fraud rows, chosen without replacement.
	fraudCount := int(math.Round(float64(n) * fraudRatio))
	for _, idx := range g.rng.Perm(n)[:fraudCount] {
		g.injectFraud(&transactions[idx])
	}

	for i := range transactions {
		*transactions[i].Amount = roundCurrency(*transactions[i].Amount)
	}

	return transactions, nil
}

func (g *Generator) baseline(i int) models.RawTransaction {
	timestamp := g.now.Add(-time.Duration(g.rng.Float64() * float64(historyWindow)))
	amount := math.Exp(4 + g.rng.NormFloat64())
	label := 0

	return models.RawTransaction{
		TransactionID:     fmt.Sprintf("TXN%08d", i),
		Timestamp:         &timestamp,
		Amount:            &amount,
		MerchantCategory:  pick(g.rng, models.MerchantCategories),
		CardNumber:        g.faker.CreditCardNumber(nil),
		CardholderName:    g.faker.Name(),
		CardholderAddress: g.faker.Address().Address,
		MerchantName:      stringPtr(g.faker.Company()),
		MerchantCity:      stringPtr(g.faker.City()),
		MerchantCountry:   stringPtr(g.faker.Country()),
		TransactionType:   *pick(g.rng, models.TransactionTypes),
		DeviceType:        *pick(g.rng, models.DeviceTypes),
		IPAddress:         g.faker.IPv4Address(),
		IsFraud:           &label,
	}
}

func (g *Generator) injectFraud(txn *models.RawTransaction) {
	*txn.IsFraud = 1
	*txn.Amount *= 2 + 8*g.rng.Float64()
	txn.MerchantCountry = pick(g.rng, models.HighRiskCountries)
	txn.DeviceType = models.DeviceTypeMobile
	txn.TransactionType = models.TransactionTypeOnline
}

func pick(rng *rand.Rand, set []string) *string {
	v := set[rng.Intn(len(set))]
	return &v
}

func stringPtr(s string) *string {
	return &s
}

func roundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
