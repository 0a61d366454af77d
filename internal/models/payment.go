package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one incoming rent payment found on a bank statement.
type PaymentRecord struct {
	Date   time.Time       `csv:"Datum" json:"date"`
	Amount decimal.Decimal `csv:"Betrag" json:"amount"`
}

// PaymentLedger holds the rent payments of a single settlement year,
// sorted by date.
type PaymentLedger struct {
	Year     int
	Payments []PaymentRecord
}

// NewPaymentLedger sorts the records by date and wraps them. The caller has
// already filtered the records to the target year.
func NewPaymentLedger(year int, records []PaymentRecord) *PaymentLedger {
	sorted := make([]PaymentRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return &PaymentLedger{Year: year, Payments: sorted}
}

// Count returns the number of payments.
func (l *PaymentLedger) Count() int {
	return len(l.Payments)
}

// Total returns the sum of all payment amounts.
func (l *PaymentLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Average returns the mean payment amount rounded to cents, zero when the
// ledger is empty.
func (l *PaymentLedger) Average() decimal.Decimal {
	if len(l.Payments) == 0 {
		return decimal.Zero
	}
	return l.Total().Div(decimal.NewFromInt(int64(len(l.Payments)))).Round(2)
}

// First returns the date of the earliest payment, zero when empty.
func (l *PaymentLedger) First() time.Time {
	if len(l.Payments) == 0 {
		return time.Time{}
	}
	return l.Payments[0].Date
}

// Last returns the date of the latest payment, zero when empty.
func (l *PaymentLedger) Last() time.Time {
	if len(l.Payments) == 0 {
		return time.Time{}
	}
	return l.Payments[len(l.Payments)-1].Date
}

// MonthsCovered returns the distinct months with at least one payment,
// ascending.
func (l *PaymentLedger) MonthsCovered() []time.Month {
	seen := make(map[time.Month]bool)
	for _, p := range l.Payments {
		seen[p.Date.Month()] = true
	}

	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		if seen[m] {
			months = append(months, m)
		}
	}
	return months
}

// MissingMonths returns the months of the year without any payment,
// ascending.
func (l *PaymentLedger) MissingMonths() []time.Month {
	seen := make(map[time.Month]bool)
	for _, p := range l.Payments {
		seen[p.Date.Month()] = true
	}

	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		if !seen[m] {
			months = append(months, m)
		}
	}
	return months
}

// FullYear reports whether every month of the year saw a payment.
func (l *PaymentLedger) FullYear() bool {
	return len(l.MonthsCovered()) == 12
}
