package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractFacts holds the fields extracted from a rental contract. Every
// field is optional: an empty name, a zero date or an invalid NullDecimal
// means the contract did not state it, which is not the same as zero.
type ContractFacts struct {
	TenantName      string
	StartDate       time.Time
	BaseRent        decimal.NullDecimal
	AncillaryPrepay decimal.NullDecimal
	HeatingPrepay   decimal.NullDecimal
}

// MonthlyPrepayment derives the monthly operating-cost prepayment from the
// ancillary and heating components. The second return value is false when the
// contract stated neither; an absent component next to a present one counts
// as zero.
func (c ContractFacts) MonthlyPrepayment() (decimal.Decimal, bool) {
	if !c.AncillaryPrepay.Valid && !c.HeatingPrepay.Valid {
		return decimal.Zero, false
	}

	total := decimal.Zero
	if c.AncillaryPrepay.Valid {
		total = total.Add(c.AncillaryPrepay.Decimal)
	}
	if c.HeatingPrepay.Valid {
		total = total.Add(c.HeatingPrepay.Decimal)
	}
	return total, true
}

// IsEmpty reports whether no field at all was extracted.
func (c ContractFacts) IsEmpty() bool {
	return c.TenantName == "" &&
		c.StartDate.IsZero() &&
		!c.BaseRent.Valid &&
		!c.AncillaryPrepay.Valid &&
		!c.HeatingPrepay.Valid
}
