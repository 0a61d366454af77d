package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementItem is one cost position with its pro-rated tenant share.
type SettlementItem struct {
	Name        string
	Annual      decimal.Decimal
	Monthly     decimal.Decimal
	TenantShare decimal.Decimal
}

// Settlement is the computed annual statement for one tenant: the pro-rated
// cost shares against the prepayments made. A positive Balance means the
// tenant owes the difference (Nachzahlung), a negative one means a refund
// (Guthaben).
type Settlement struct {
	Year          int
	TenantName    string
	PaymentMonths int
	PeriodStart   time.Time
	PeriodEnd     time.Time

	Items        []SettlementItem
	TotalAnnual  decimal.Decimal
	TotalMonthly decimal.Decimal
	TotalCosts   decimal.Decimal

	MonthlyPrepayment decimal.Decimal
	Prepayments       decimal.Decimal
	Balance           decimal.Decimal
}

// OwedByTenant reports whether the settlement ends in a Nachzahlung.
func (s *Settlement) OwedByTenant() bool {
	return s.Balance.GreaterThan(decimal.Zero)
}
