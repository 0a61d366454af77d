// Package allocator turns an extracted cost ledger into the tenant's
// settlement: every annual amount is pro-rated straight-line over twelve
// months and multiplied by the months the tenant actually paid, then the
// prepayments made over the same months are deducted.
package allocator

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"nebenkosten/internal/models"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

var twelve = decimal.NewFromInt(12)

// Input carries everything the allocation needs.
type Input struct {
	Year              int
	TenantName        string
	Costs             *models.CostLedger
	PaymentMonths     int
	MonthlyPrepayment decimal.Decimal
	PeriodStart       time.Time
	PeriodEnd         time.Time
}

// Allocate computes the settlement. Tenant shares are rounded to cents per
// position; the balance is the rounded share total minus the prepayments.
func Allocate(in Input) *models.Settlement {
	months := decimal.NewFromInt(int64(in.PaymentMonths))

	s := &models.Settlement{
		Year:              in.Year,
		TenantName:        in.TenantName,
		PaymentMonths:     in.PaymentMonths,
		PeriodStart:       in.PeriodStart,
		PeriodEnd:         in.PeriodEnd,
		MonthlyPrepayment: in.MonthlyPrepayment,
	}

	totalCosts := decimal.Zero
	for _, item := range in.Costs.Items() {
		monthly := item.Amount.Div(twelve)
		share := monthly.Mul(months).Round(2)

		s.Items = append(s.Items, models.SettlementItem{
			Name:        item.Name,
			Annual:      item.Amount,
			Monthly:     monthly.Round(2),
			TenantShare: share,
		})
		totalCosts = totalCosts.Add(share)
	}

	s.TotalAnnual = in.Costs.Total().Round(2)
	s.TotalMonthly = s.TotalAnnual.Div(twelve).Round(2)
	s.TotalCosts = totalCosts.Round(2)
	s.Prepayments = in.MonthlyPrepayment.Mul(months).Round(2)
	s.Balance = s.TotalCosts.Sub(s.Prepayments).Round(2)

	log.WithFields(logrus.Fields{
		"year":    in.Year,
		"months":  in.PaymentMonths,
		"costs":   s.TotalCosts.StringFixed(2),
		"balance": s.Balance.StringFixed(2),
	}).Info("Computed settlement")

	return s
}

// ProRata pro-rates an annual amount over a date range by days, both ends
// inclusive, on a 365-day year.
func ProRata(annual decimal.Decimal, start, end time.Time) decimal.Decimal {
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 0 {
		days = 0
	}
	factor := decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(365))
	return annual.Mul(factor).Round(2)
}
