// Package currencyutils provides parsing and formatting for German-formatted
// monetary amounts as they appear in Hausgeld statements, rental contracts and
// bank statements.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// amountRe matches a German-formatted amount with optional sign and optional
// thousands separators, e.g. "1.234,56", "-57,00", "+1.000,00".
var amountRe = regexp.MustCompile(`[+-]?\s*\d{1,3}(?:\.\d{3})*,\d{2}`)

// trailingAmountRe matches an amount at the very end of a line.
var trailingAmountRe = regexp.MustCompile(`[+-]?\d{1,3}(?:\.\d{3})*,\d{2}$`)

// ParseAmount parses a German-formatted amount string into a decimal value.
// It accepts "1.234,56", "1234,56", "-57,00" and plain "1234.56" and strips
// currency symbols and whitespace first.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if amountStr == "" {
		return decimal.Zero, fmt.Errorf("empty amount string")
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount converts a German or mixed currency string to a form
// decimal.NewFromString accepts. Handles "1.234,56", "€ 1.234,56", "1234,56",
// "+ 250,00 EUR" and already-standard "1234.56".
func StandardizeAmount(amountStr string) string {
	amountStr = strings.TrimSpace(amountStr)
	amountStr = strings.TrimSuffix(amountStr, "EUR")
	amountStr = strings.TrimSuffix(amountStr, "€")

	re := regexp.MustCompile(`[€$£\s]`)
	amountStr = re.ReplaceAllString(amountStr, "")

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// German format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Anglo format (1,234.56)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) > 1 && len(parts[len(parts)-1]) <= 2 {
			// Comma used as decimal separator (1234,56)
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// Comma used as thousand separator (1,234)
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return amountStr
}

// ParseTrailingAmount parses the amount at the end of a line, if any.
// Returns the amount, the line with the amount stripped, and whether a
// trailing amount was present.
func ParseTrailingAmount(line string) (decimal.Decimal, string, bool) {
	trimmed := strings.TrimRight(line, " \t")
	match := trailingAmountRe.FindString(trimmed)
	if match == "" {
		return decimal.Zero, line, false
	}

	amount, err := ParseAmount(match)
	if err != nil {
		log.WithField("token", match).Debug("trailing token looked like an amount but did not parse")
		return decimal.Zero, line, false
	}

	rest := strings.TrimRight(strings.TrimSuffix(trimmed, match), " \t")
	return amount, rest, true
}

// FindAmount returns the first German-formatted amount found in s.
func FindAmount(s string) (decimal.Decimal, bool) {
	match := amountRe.FindString(s)
	if match == "" {
		return decimal.Zero, false
	}
	amount, err := ParseAmount(match)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// FormatEUR formats a decimal amount the way German documents print it,
// e.g. "1.234,56 €".
func FormatEUR(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)

	result := strings.Join(grouped, ".") + "," + fracPart
	if negative {
		result = "-" + result
	}
	return result + " €"
}

// IsPlausibleCost reports whether an absolute amount falls inside the range a
// single annual cost position can realistically take. Guards against picking
// up ownership-share denominators or page totals from table cells.
func IsPlausibleCost(amount decimal.Decimal) bool {
	abs := amount.Abs()
	return abs.GreaterThan(decimal.NewFromFloat(0.01)) && abs.LessThan(decimal.NewFromInt(10000))
}
