package allocator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nebenkosten/internal/models"
)

func ledgerWith(items ...models.CostItem) *models.CostLedger {
	l := models.NewCostLedger()
	for _, item := range items {
		l.Add(item, models.SourceLine)
	}
	return l
}

func TestAllocateSixMonths(t *testing.T) {
	costs := ledgerWith(
		models.CostItem{Name: "Hausmeister", Amount: decimal.NewFromInt(480)},
		models.CostItem{Name: "Wasser", Amount: decimal.NewFromInt(240)},
	)

	s := Allocate(Input{
		Year:              2023,
		TenantName:        "Emanu Mingo",
		Costs:             costs,
		PaymentMonths:     6,
		MonthlyPrepayment: decimal.NewFromInt(50),
	})

	// 720 annual over 6 of 12 months
	assert.True(t, decimal.NewFromInt(720).Equal(s.TotalAnnual))
	assert.True(t, decimal.NewFromInt(60).Equal(s.TotalMonthly))
	assert.True(t, decimal.NewFromInt(360).Equal(s.TotalCosts))
	assert.True(t, decimal.NewFromInt(300).Equal(s.Prepayments))
	assert.True(t, decimal.NewFromInt(60).Equal(s.Balance), "got %s", s.Balance)
	assert.True(t, s.OwedByTenant())

	require.Len(t, s.Items, 2)
	assert.Equal(t, "Hausmeister", s.Items[0].Name)
	assert.True(t, decimal.NewFromInt(40).Equal(s.Items[0].Monthly))
	assert.True(t, decimal.NewFromInt(240).Equal(s.Items[0].TenantShare))
}

func TestAllocateRefund(t *testing.T) {
	costs := ledgerWith(models.CostItem{Name: "Wasser", Amount: decimal.NewFromInt(120)})

	s := Allocate(Input{
		Year:              2023,
		Costs:             costs,
		PaymentMonths:     12,
		MonthlyPrepayment: decimal.NewFromInt(20),
	})

	// 120 costs against 240 prepaid
	assert.True(t, decimal.NewFromInt(-120).Equal(s.Balance))
	assert.False(t, s.OwedByTenant())
}

func TestAllocateRounding(t *testing.T) {
	costs := ledgerWith(models.CostItem{Name: "Niederschlag", Amount: decimal.NewFromFloat(21.89)})

	s := Allocate(Input{Year: 2023, Costs: costs, PaymentMonths: 5})

	// 21.89/12*5 = 9.1208... rounds to cents
	assert.True(t, decimal.NewFromFloat(9.12).Equal(s.Items[0].TenantShare), "got %s", s.Items[0].TenantShare)
	assert.True(t, decimal.NewFromFloat(1.82).Equal(s.Items[0].Monthly))
}

func TestAllocateEmptyLedger(t *testing.T) {
	s := Allocate(Input{Year: 2023, Costs: models.NewCostLedger(), PaymentMonths: 12})

	assert.Empty(t, s.Items)
	assert.True(t, s.TotalCosts.IsZero())
	assert.True(t, s.Balance.IsZero())
}

func TestProRata(t *testing.T) {
	annual := decimal.NewFromInt(365)

	full := ProRata(annual, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.True(t, decimal.NewFromInt(365).Equal(full), "got %s", full)

	oneDay := ProRata(annual, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, decimal.NewFromInt(1).Equal(oneDay))

	half := ProRata(decimal.NewFromInt(730), time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.True(t, decimal.NewFromInt(4).Equal(half), "got %s", half)
}
