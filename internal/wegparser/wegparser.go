// Package wegparser extracts the apportionable cost positions from the
// annual statement (Hausgeldabrechnung) of a Wohnungseigentümergemeinschaft.
//
// The statements are layout-driven documents, so extraction is a set of line
// and table heuristics: cost positions appear as single text lines ending in
// an amount, as multi-row apportionment blocks, or as table rows. Everything
// from the summary boundary onward is ignored.
package wegparser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"nebenkosten/internal/currencyutils"
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

// amountTokenRe matches a whole token that is a positive German amount.
var amountTokenRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*,\d{2}$`)

// signedAmountTokenRe additionally allows a leading minus, for the share
// lines of apportionment blocks.
var signedAmountTokenRe = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})*,\d{2}$`)

// plainNumberRe matches a number without decimal places, with optional dot
// thousands separators. Table cells sometimes drop the cents.
var plainNumberRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*`)

var digitRe = regexp.MustCompile(`\d`)

// Parser extracts cost positions from WEG annual statements.
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

// ParseFile extracts the cost ledger from the statement PDF at path.
// An unreadable document is an error; a readable document without any cost
// positions yields an empty ledger.
func (p *Parser) ParseFile(path string) (*models.CostLedger, error) {
	pages, err := p.extractor.Pages(path)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF",
			Msg:            err.Error(),
		}
	}

	ledger := p.ParsePages(pages)
	log.WithFields(logrus.Fields{
		"file":  path,
		"costs": ledger.Len(),
		"total": ledger.Total().StringFixed(2),
	}).Info("Extracted WEG cost positions")

	return ledger, nil
}

// ParsePages runs the extraction heuristics over already-extracted pages.
func (p *Parser) ParsePages(pages []pdftext.Page) *models.CostLedger {
	ledger := models.NewCostLedger()
	textDone := false

	for _, page := range pages {
		if ledger.Finalized() {
			break
		}

		if !textDone {
			textDone = p.scanText(page.Text, ledger)
		}

		for _, table := range page.Tables {
			if ledger.Finalized() {
				break
			}
			p.scanTable(table, ledger)
		}
	}

	return ledger
}

// scanText walks the text lines of one page and collects single-line and
// apportionment-block candidates. Returns true once a boundary marker ended
// the cost section; table scanning continues regardless.
func (p *Parser) scanText(text string, ledger *models.CostLedger) bool {
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)

		if containsAny(lower, p.rules.WEG.BoundaryMarkers) {
			return true
		}

		if strings.Contains(lower, p.rules.WEG.SplitMarker) {
			p.scanSplitBlock(line, lines[i+1:], ledger)
			continue
		}

		p.scanLine(line, ledger)
	}

	return false
}

// scanSplitBlock handles one multi-row apportionment block. The marker line
// names the position; the following lines carry the whole-property share and
// the subgroup share, which sum to the tenant-relevant amount.
func (p *Parser) scanSplitBlock(markerLine string, rest []string, ledger *models.CostLedger) {
	name := splitBlockName(markerLine, p.rules.WEG.SplitMarker)
	if len(name) < 3 {
		return
	}

	var propertyShare, subgroupShare decimal.Decimal
	found := false

	for j := 0; j < len(rest) && j < 9; j++ {
		line := strings.TrimSpace(rest[j])
		lower := strings.ToLower(line)

		// the next block starts, this one is over
		if strings.Contains(lower, p.rules.WEG.SplitMarker) {
			break
		}

		if strings.Contains(lower, strings.ToLower(p.rules.WEG.PropertyLabel)) {
			if amount, ok := lastTokenAmount(line); ok {
				propertyShare = amount
				found = true
			}
		}

		if containsAllFold(line, p.rules.WEG.SubgroupLabels) {
			if amount, ok := lastTokenAmount(line); ok {
				subgroupShare = amount
				found = true
			}
		}
	}

	if !found {
		return
	}

	ledger.Add(models.CostItem{
		Name:   name,
		Amount: propertyShare.Add(subgroupShare),
	}, models.SourceSplit)
}

// scanLine handles one single-line candidate: tokens forming a name, then
// apportionment figures, then the amount as the last token.
func (p *Parser) scanLine(line string, ledger *models.CostLedger) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return
	}

	last := fields[len(fields)-1]
	if !amountTokenRe.MatchString(last) {
		return
	}

	var nameParts []string
	for _, f := range fields {
		if digitRe.MatchString(f) || containsFold(p.rules.WEG.NameEndKeywords, f) {
			break
		}
		nameParts = append(nameParts, f)
	}
	if len(nameParts) == 0 {
		return
	}

	name := strings.Join(nameParts, " ")
	lower := strings.ToLower(name)
	if len(name) < 3 || !p.nameAllowed(lower, p.rules.WEG.LineDeny) {
		return
	}

	amount, err := currencyutils.ParseAmount(last)
	if err != nil || !amount.IsPositive() {
		return
	}

	ledger.Add(models.CostItem{Name: name, Amount: amount}, models.SourceLine)
}

// scanTable handles one detected table. Subgroup tables contribute the
// subgroup share of a split position; normal tables contribute one candidate
// per row. Hitting a boundary or trailing-section header finalizes the
// ledger: everything after it is summary.
func (p *Parser) scanTable(table [][]string, ledger *models.CostLedger) {
	if len(table) == 0 {
		return
	}

	if p.hasSubgroupRows(table) {
		p.scanSubgroupTable(table, ledger)
		return
	}

	for _, row := range table {
		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0])
		if len(name) < 3 {
			continue
		}
		lower := strings.ToLower(name)

		if containsAny(lower, p.rules.WEG.BoundaryMarkers) ||
			containsAny(lower, p.rules.WEG.TrailingSections) {
			ledger.Finalize()
			return
		}

		if !p.nameAllowed(lower, p.rules.WEG.TableDeny) {
			continue
		}

		amount, ok := p.rowAmount(row)
		if !ok || !amount.IsPositive() {
			continue
		}

		ledger.Add(models.CostItem{Name: name, Amount: amount}, models.SourceTable)
	}
}

// hasSubgroupRows reports whether a table is the tabular form of an
// apportionment block: its data rows carry the subgroup marker or label.
func (p *Parser) hasSubgroupRows(table [][]string) bool {
	for _, row := range table[1:] {
		if len(row) < 2 {
			continue
		}
		if strings.Contains(row[0], p.rules.WEG.SubgroupMarker) {
			return true
		}
		if containsAllFold(row[1], p.rules.WEG.SubgroupLabels) {
			return true
		}
	}
	return false
}

// scanSubgroupTable extracts the subgroup share row of a tabular
// apportionment block. The position name sits in the table's first cell.
// A split block extracted from text already holds both shares, so the
// table value only fills in when the position is still unknown.
func (p *Parser) scanSubgroupTable(table [][]string, ledger *models.CostLedger) {
	if len(table[0]) == 0 {
		return
	}
	name := strings.TrimSpace(table[0][0])
	if name == "" {
		return
	}

	lower := strings.ToLower(name)
	if containsAny(lower, p.rules.WEG.BoundaryMarkers) {
		ledger.Finalize()
		return
	}

	for _, row := range table[1:] {
		if len(row) < 3 {
			continue
		}
		if !strings.Contains(row[0], p.rules.WEG.SubgroupMarker) ||
			!containsAllFold(row[1], p.rules.WEG.SubgroupLabels) {
			continue
		}

		amount, ok := cellAmount(row[len(row)-2])
		if !ok || !currencyutils.IsPlausibleCost(amount) {
			return
		}

		if amount.IsPositive() && !ledger.Has(name) {
			ledger.Add(models.CostItem{Name: name, Amount: amount}, models.SourceTable)
		}
		return
	}
}

// rowAmount finds the amount cell of a normal table row. The amount column
// is usually second from the right; only when that cell holds no number at
// all does the right-to-left fallback scan run.
func (p *Parser) rowAmount(row []string) (decimal.Decimal, bool) {
	limit := decimal.NewFromInt(10000)

	if len(row) >= 3 {
		cell := strings.TrimSpace(row[len(row)-2])
		if cell != "" && !containsAny(strings.ToLower(cell), []string{
			"miteigentumsanteile", "festbetrag", "tage", "verteilung", "ug1", "ug2",
		}) {
			if amount, ok := cellAmount(cell); ok && amount.Abs().LessThan(limit) {
				// the dedicated column is trusted even for zero
				return amount, true
			}
		}
	}

	for i := len(row) - 1; i >= 1; i-- {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		if containsAny(strings.ToLower(cell), []string{
			"miteigentumsanteile", "festbetrag", "aufgeteilt", "direkt",
			"tage", "der betrag wurde", "verteilung", "ug1", "ug2",
		}) {
			continue
		}
		if containsExact(p.rules.WEG.ShareConstants, cell) {
			continue
		}

		if amount, ok := cellAmount(cell); ok && currencyutils.IsPlausibleCost(amount) && amount.IsPositive() {
			return amount, true
		}
	}

	return decimal.Zero, false
}

// nameAllowed applies a denylist with the exact-label exceptions: "Anlagen"
// alone is the attachments note while compounds like "Außenanlagen" are real
// costs; "Hausgeld…" labels are the owner's own statement unless the name is
// about Nebenkosten; "…abrechnung" headers are skipped unless the name names
// a heating, water or cost position.
func (p *Parser) nameAllowed(lower string, deny []string) bool {
	if lower == "anlagen" {
		return false
	}
	if strings.Contains(lower, "hausgeld") && !strings.Contains(lower, "neben") {
		return false
	}
	if strings.Contains(lower, "abrechnung") && !containsAny(lower, []string{"heiz", "wasser", "kosten"}) {
		return false
	}

	for _, d := range deny {
		if d == "hausgeld" || d == "abrechnung" {
			continue
		}
		if strings.Contains(lower, d) {
			return false
		}
	}
	return true
}

func splitBlockName(line, marker string) string {
	lower := strings.ToLower(line)
	idx := strings.Index(lower, marker)
	if idx < 0 {
		return ""
	}
	name := strings.TrimSpace(line[:idx])

	// drop the whole-building total that precedes the marker
	if _, rest, ok := currencyutils.ParseTrailingAmount(name); ok {
		name = strings.TrimSpace(rest)
	}
	return name
}

// lastTokenAmount parses the final whitespace token of a line as a signed
// German amount.
func lastTokenAmount(line string) (decimal.Decimal, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return decimal.Zero, false
	}
	last := fields[len(fields)-1]
	if !signedAmountTokenRe.MatchString(last) {
		return decimal.Zero, false
	}

	amount, err := currencyutils.ParseAmount(last)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// cellAmount reads a number out of a table cell: a full German amount if the
// cell has one, otherwise a bare number without cents.
func cellAmount(cell string) (decimal.Decimal, bool) {
	if amount, ok := currencyutils.FindAmount(cell); ok {
		return amount, true
	}

	match := plainNumberRe.FindString(cell)
	if match == "" {
		return decimal.Zero, false
	}
	// dots in a bare number are thousands separators
	amount, err := decimal.NewFromString(strings.ReplaceAll(match, ".", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAllFold(s string, substrings []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if !strings.Contains(lower, strings.ToLower(sub)) {
			return false
		}
	}
	return len(substrings) > 0
}

func containsFold(list []string, s string) bool {
	lower := strings.ToLower(s)
	for _, item := range list {
		if lower == item {
			return true
		}
	}
	return false
}

func containsExact(list []string, s string) bool {
	for _, item := range list {
		if s == item {
			return true
		}
	}
	return false
}
