// Package vertragparser extracts the settlement-relevant facts from a rental
// contract: tenant name, start of tenancy, base rent and the two prepayment
// components. Contracts are free text, so each field runs through an ordered
// pattern cascade and the first match wins. A field no pattern matches stays
// absent, which is not an error.
package vertragparser

import (
	"regexp"
	"strings"

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

// Parser extracts contract facts from rental contract PDFs.
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

// ParseFile extracts the contract facts from the PDF at path.
func (p *Parser) ParseFile(path string) (models.ContractFacts, error) {
	pages, err := p.extractor.Pages(path)
	if err != nil {
		return models.ContractFacts{}, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF",
			Msg:            err.Error(),
		}
	}

	var texts []string
	for _, page := range pages {
		texts = append(texts, page.Text)
	}
	facts := p.ParseText(strings.Join(texts, "\n"))

	log.WithFields(logrus.Fields{
		"file":   path,
		"tenant": facts.TenantName,
		"empty":  facts.IsEmpty(),
	}).Info("Extracted rental contract facts")

	return facts, nil
}

// ParseText runs the field cascades over the concatenated contract text.
func (p *Parser) ParseText(text string) models.ContractFacts {
	var facts models.ContractFacts

	if name, ok := firstMatch(text, p.rules.Rental.TenantName); ok {
		// the greedy name capture can run onto the following line
		name = strings.SplitN(name, "\n", 2)[0]
		facts.TenantName = strings.TrimSpace(name)
	}

	if dateStr, ok := firstMatch(text, p.rules.Rental.StartDate); ok {
		if date, err := dateutils.ParseDateString(dateStr); err == nil {
			facts.StartDate = date
		} else {
			log.WithField("value", dateStr).Debug("Matched start date did not parse")
		}
	}

	facts.BaseRent = matchAmount(text, p.rules.Rental.BaseRent)
	facts.AncillaryPrepay = matchAmount(text, p.rules.Rental.AncillaryPrepay)
	facts.HeatingPrepay = matchAmount(text, p.rules.Rental.HeatingPrepay)

	return facts
}

// firstMatch tries the patterns in order and returns the first capture group
// of the first one that matches.
func firstMatch(text string, patterns []string) (string, bool) {
	for _, pattern := range patterns {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			log.WithField("pattern", pattern).WithError(err).Warn("Skipping invalid pattern")
			continue
		}
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}

// matchAmount runs an amount cascade. A matched token that fails to parse as
// a German amount falls through to the next pattern.
func matchAmount(text string, patterns []string) decimal.NullDecimal {
	for _, pattern := range patterns {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			log.WithField("pattern", pattern).WithError(err).Warn("Skipping invalid pattern")
			continue
		}

		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}

		// "850,--" style rents leave a dangling separator in the capture
		token := strings.TrimRight(strings.TrimSpace(m[1]), ",.-")
		amount, err := currencyutils.ParseAmount(token)
		if err != nil {
			continue
		}
		return decimal.NullDecimal{Decimal: amount, Valid: true}
	}
	return decimal.NullDecimal{}
}
