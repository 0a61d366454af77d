package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func nullDec(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func TestMonthlyPrepayment(t *testing.T) {
	tests := []struct {
		name     string
		facts    ContractFacts
		expected decimal.Decimal
		present  bool
	}{
		{
			name:     "both components",
			facts:    ContractFacts{AncillaryPrepay: nullDec(150), HeatingPrepay: nullDec(80)},
			expected: decimal.NewFromInt(230),
			present:  true,
		},
		{
			name:     "only ancillary",
			facts:    ContractFacts{AncillaryPrepay: nullDec(150)},
			expected: decimal.NewFromInt(150),
			present:  true,
		},
		{
			name:     "only heating",
			facts:    ContractFacts{HeatingPrepay: nullDec(80)},
			expected: decimal.NewFromInt(80),
			present:  true,
		},
		{
			name:    "neither stated",
			facts:   ContractFacts{BaseRent: nullDec(1000)},
			present: false,
		},
		{
			name:     "explicit zero is present",
			facts:    ContractFacts{AncillaryPrepay: nullDec(0)},
			expected: decimal.Zero,
			present:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			total, present := tc.facts.MonthlyPrepayment()
			assert.Equal(t, tc.present, present)
			if tc.present {
				assert.True(t, tc.expected.Equal(total), "expected %s got %s", tc.expected, total)
			}
		})
	}
}

func TestContractFactsIsEmpty(t *testing.T) {
	assert.True(t, ContractFacts{}.IsEmpty())
	assert.False(t, ContractFacts{TenantName: "Rosenkranz"}.IsEmpty())
	assert.False(t, ContractFacts{BaseRent: nullDec(900)}.IsEmpty())
}
