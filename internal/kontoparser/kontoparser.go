// Package kontoparser extracts incoming rent payments from bank statement
// PDFs. Statements list a booking as a pair of lines: the counterparty and
// amount first, the booking description with the date below it. Two layouts
// exist for the second line; which one applies decides whether the rightmost
// or the first date is the posting date.
package kontoparser

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/models"
	"nebenkosten/internal/parsererror"
	"nebenkosten/internal/pdftext"
	"nebenkosten/internal/rules"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// eurAmountRe pulls the signed amount in front of the EUR suffix of a
// booking line.
var eurAmountRe = regexp.MustCompile(`([+-]?\s*[\d.,]+)\s*EUR`)

// Parser extracts rent payment ledgers from bank statements.
type Parser struct {
	extractor pdftext.Extractor
	rules     *rules.Rules
}

// New creates a Parser reading PDFs through the given extractor.
func New(extractor pdftext.Extractor, r *rules.Rules) *Parser {
	if r == nil {
		r = rules.DefaultRules()
	}
	return &Parser{extractor: extractor, rules: r}
}

// ParseFile extracts the payments of the target year from the statement PDF
// at path. Bookings outside the year or without a recognizable date are
// silently dropped.
func (p *Parser) ParseFile(path string, year int) (*models.PaymentLedger, error) {
	pages, err := p.extractor.Pages(path)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF",
			Msg:            err.Error(),
		}
	}

	ledger := p.ParsePages(pages, year)
	log.WithFields(logrus.Fields{
		"file":     path,
		"year":     year,
		"payments": ledger.Count(),
		"total":    ledger.Total().StringFixed(2),
	}).Info("Extracted rent payments")

	return ledger, nil
}

// ParsePages runs the line-pair scan over already-extracted pages.
func (p *Parser) ParsePages(pages []pdftext.Page, year int) *models.PaymentLedger {
	var records []models.PaymentRecord

	for _, page := range pages {
		lines := strings.Split(page.Text, "\n")

		for i := 0; i+1 < len(lines); i++ {
			record, ok := p.scanPair(lines[i], lines[i+1])
			if !ok {
				continue
			}
			if record.Date.Year() != year || !record.Amount.IsPositive() {
				continue
			}
			records = append(records, record)
		}
	}

	return models.NewPaymentLedger(year, records)
}

// scanPair reads one candidate booking from a header line and the
// description line below it.
func (p *Parser) scanPair(header, desc string) (models.PaymentRecord, bool) {
	if !strings.Contains(header, "EUR") || !containsAnyFold(header, p.rules.Bank.Keywords) {
		return models.PaymentRecord{}, false
	}

	amount, ok := headerAmount(header)
	if !ok {
		return models.PaymentRecord{}, false
	}

	date, ok := p.descDate(desc)
	if !ok {
		return models.PaymentRecord{}, false
	}

	return models.PaymentRecord{Date: date, Amount: amount}, true
}

// descDate finds the posting date on the description line. A line with a
// rent keyword lists value date before posting date, so the rightmost date
// wins; otherwise the first full date applies, and a leading MM/YY month
// token stands in for the first of that month.
func (p *Parser) descDate(desc string) (time.Time, bool) {
	if containsAnyFold(desc, p.rules.Bank.RentKeywords) {
		if date, ok := dateutils.LastDate(desc); ok {
			return date, true
		}
	}

	if date, ok := dateutils.FirstDate(desc); ok {
		return date, true
	}

	return dateutils.ParseMonthToken(desc)
}

// headerAmount parses the EUR amount of a header line as an absolute value.
func headerAmount(header string) (decimal.Decimal, bool) {
	m := eurAmountRe.FindStringSubmatch(header)
	if len(m) < 2 {
		return decimal.Zero, false
	}

	token := strings.NewReplacer("+", "", " ", "").Replace(m[1])
	amount, err := currencyutils.ParseAmount(token)
	if err != nil {
		return decimal.Zero, false
	}
	return amount.Abs(), true
}

func containsAnyFold(s string, substrings []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
