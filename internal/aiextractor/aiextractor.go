// Package aiextractor is the Gemini-backed fallback for documents the
// pattern-based parsers cannot read: scanned statements, unusual layouts,
// foreign templates. It sends the document text to the model and maps the
// JSON answer onto the same ledger types the regular parsers produce.
package aiextractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/models"
	"nebenkosten/internal/parsererror"
	"nebenkosten/internal/pdftext"
	"nebenkosten/internal/rules"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return // Don't change the logger if nil is passed
	}
	log = logger
}

// DefaultModel is the Gemini model used when the caller does not pick one.
const DefaultModel = "gemini-1.5-pro"

// maxPages caps how much document text goes into a single prompt.
const maxPages = 30

// Extractor holds the Gemini client state and the text extraction backend.
// The client is created lazily on the first request.
type Extractor struct {
	apiKey    string
	modelName string
	extractor pdftext.Extractor
	rules     *rules.Rules

	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates an Extractor. extractor and r may be nil, in which case the
// default PDF backend and the built-in rules are used.
func New(apiKey, modelName string, extractor pdftext.Extractor, r *rules.Rules) *Extractor {
	if modelName == "" {
		modelName = DefaultModel
	}
	if extractor == nil {
		extractor = pdftext.NewExtractor()
	}
	if r == nil {
		r = rules.DefaultRules()
	}
	return &Extractor{
		apiKey:    apiKey,
		modelName: modelName,
		extractor: extractor,
		rules:     r,
	}
}

// Close releases the Gemini client.
func (e *Extractor) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}

// ensureClient ensures the Gemini client is initialized
func (e *Extractor) ensureClient(ctx context.Context) error {
	if e.client != nil {
		return nil
	}
	if e.apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	e.client = client
	e.model = client.GenerativeModel(e.modelName)
	return nil
}

// documentText extracts the text of the first maxPages pages, each prefixed
// with a page marker so the model can refer to positions.
func (e *Extractor) documentText(pdfPath string) (string, error) {
	pages, err := e.extractor.Pages(pdfPath)
	if err != nil {
		return "", err
	}
	if len(pages) > maxPages {
		pages = pages[:maxPages]
	}

	var parts []string
	for i, page := range pages {
		parts = append(parts, fmt.Sprintf("--- Seite %d ---\n%s", i+1, page.Text))
	}
	return strings.Join(parts, "\n\n"), nil
}

// generate sends a prompt to Gemini and returns the raw response text.
func (e *Extractor) generate(ctx context.Context, document, prompt string) (string, error) {
	if err := e.ensureClient(ctx); err != nil {
		return "", &parsererror.AIError{Document: document, Err: err}
	}

	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &parsererror.AIError{Document: document, Err: fmt.Errorf("Gemini API error: %w", err)}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &parsererror.AIError{Document: document, Err: fmt.Errorf("no response from Gemini API")}
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// ExtractWEGCosts asks the model for the apportionable cost table of a WEG
// annual statement and returns the cost ledger plus the stated total.
func (e *Extractor) ExtractWEGCosts(ctx context.Context, pdfPath string) (*models.CostLedger, decimal.Decimal, error) {
	text, err := e.documentText(pdfPath)
	if err != nil {
		return nil, decimal.Zero, &parsererror.AIError{Document: "WEG", Err: err}
	}

	prompt := wegSystemPrompt + "\n\n" + wegPrompt + "\n\n---\n\nPDF-Inhalt:\n" + text
	raw, err := e.generate(ctx, "WEG", prompt)
	if err != nil {
		return nil, decimal.Zero, err
	}

	ledger, total, err := parseWEGResponse(raw, e.rules.AI.ExcludedKeywords)
	if err != nil {
		return nil, decimal.Zero, &parsererror.AIError{Document: "WEG", Err: err}
	}

	log.WithFields(logrus.Fields{
		"file":  pdfPath,
		"costs": ledger.Len(),
		"total": total,
	}).Info("AI extracted WEG costs")
	return ledger, total, nil
}

// BankSummary is the model's reading of a bank statement: the individual
// rent payments plus the totals the model itself reports.
type BankSummary struct {
	Ledger        *models.PaymentLedger
	TotalMonths   int
	TotalRentPaid decimal.Decimal
	Period        string
}

// ExtractBankPayments asks the model for the monthly rent payments on a bank
// statement. tenantName narrows the search when known.
func (e *Extractor) ExtractBankPayments(ctx context.Context, pdfPath string, tenantName string, year int) (*BankSummary, error) {
	text, err := e.documentText(pdfPath)
	if err != nil {
		return nil, &parsererror.AIError{Document: "bank", Err: err}
	}

	prompt := bankSystemPrompt + "\n\n" + bankPrompt(tenantName) + "\n\n---\n\nKontoauszug:\n" + text
	raw, err := e.generate(ctx, "bank", prompt)
	if err != nil {
		return nil, err
	}

	summary, err := parseBankResponse(raw, year)
	if err != nil {
		return nil, &parsererror.AIError{Document: "bank", Err: err}
	}

	log.WithFields(logrus.Fields{
		"file":     pdfPath,
		"payments": summary.Ledger.Count(),
		"period":   summary.Period,
	}).Info("AI extracted rent payments")
	return summary, nil
}

// ExtractContract asks the model for the tenant name and the base rent of a
// rental contract.
func (e *Extractor) ExtractContract(ctx context.Context, pdfPath string) (*models.ContractFacts, error) {
	text, err := e.documentText(pdfPath)
	if err != nil {
		return nil, &parsererror.AIError{Document: "contract", Err: err}
	}

	prompt := contractSystemPrompt + "\n\n" + contractPrompt + "\n\n---\n\nMietvertrag:\n" + text
	raw, err := e.generate(ctx, "contract", prompt)
	if err != nil {
		return nil, err
	}

	facts, err := parseContractResponse(raw)
	if err != nil {
		return nil, &parsererror.AIError{Document: "contract", Err: err}
	}

	log.WithFields(logrus.Fields{
		"file":   pdfPath,
		"tenant": facts.TenantName,
	}).Info("AI extracted contract facts")
	return facts, nil
}

type wegResponse struct {
	UmlagefaehigeKosten []map[string]decimal.Decimal `json:"umlagefaehige_kosten"`
	GesamtSumme         decimal.Decimal              `json:"gesamt_summe"`
}

func parseWEGResponse(raw string, excludedKeywords []string) (*models.CostLedger, decimal.Decimal, error) {
	var resp wegResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, decimal.Zero, fmt.Errorf("response is not valid JSON: %w", err)
	}

	ledger := models.NewCostLedger()
	for _, entry := range resp.UmlagefaehigeKosten {
		for name, amount := range entry {
			lower := strings.ToLower(name)
			excluded := false
			for _, keyword := range excludedKeywords {
				if strings.Contains(lower, keyword) {
					excluded = true
					break
				}
			}
			if excluded {
				log.WithField("name", name).Debug("Skipping non-apportionable AI cost")
				continue
			}
			ledger.Add(models.CostItem{Name: name, Amount: amount}, models.SourceLine)
		}
	}

	total := resp.GesamtSumme
	if total.IsZero() {
		total = ledger.Total()
	}
	return ledger, total, nil
}

type bankPayment struct {
	Month       string          `json:"month"`
	AmountEUR   decimal.Decimal `json:"amount_eur"`
	PaymentDate string          `json:"payment_date"`
}

type bankResponse struct {
	Payments         []bankPayment   `json:"payments"`
	TotalMonths      int             `json:"total_months"`
	TotalRentPaidEUR decimal.Decimal `json:"total_rent_paid_eur"`
	Period           string          `json:"period"`
}

func parseBankResponse(raw string, year int) (*BankSummary, error) {
	var resp bankResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	var records []models.PaymentRecord
	for _, payment := range resp.Payments {
		date, err := dateutils.ParseDateString(payment.PaymentDate)
		if err != nil {
			log.WithFields(logrus.Fields{
				"month": payment.Month,
				"date":  payment.PaymentDate,
			}).Warn("Dropping AI payment with unparseable date")
			continue
		}
		if date.Year() != year {
			log.WithFields(logrus.Fields{
				"date": payment.PaymentDate,
				"year": year,
			}).Debug("Dropping AI payment outside target year")
			continue
		}
		records = append(records, models.PaymentRecord{Date: date, Amount: payment.AmountEUR.Abs()})
	}

	totalMonths := resp.TotalMonths
	if totalMonths == 0 {
		totalMonths = len(records)
	}

	return &BankSummary{
		Ledger:        models.NewPaymentLedger(year, records),
		TotalMonths:   totalMonths,
		TotalRentPaid: resp.TotalRentPaidEUR,
		Period:        resp.Period,
	}, nil
}

type contractResponse struct {
	TenantName  string          `json:"tenant_name"`
	BaseRentEUR decimal.Decimal `json:"base_rent_eur"`
}

func parseContractResponse(raw string) (*models.ContractFacts, error) {
	var resp contractResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	facts := &models.ContractFacts{TenantName: strings.TrimSpace(resp.TenantName)}
	if !resp.BaseRentEUR.IsZero() {
		facts.BaseRent = decimal.NewNullDecimal(resp.BaseRentEUR)
	}
	return facts, nil
}

// Prepayment is the monthly advance derived from what the tenant actually
// paid on top of the base rent.
type Prepayment struct {
	PaymentMonths    int
	Monthly          decimal.Decimal
	TotalRentPaid    decimal.Decimal
	TotalBaseRent    decimal.Decimal
	TotalNebenkosten decimal.Decimal
}

// MonthlyPrepayment derives the monthly advance payment from a bank summary
// and the contract base rent: everything paid beyond base rent, spread over
// the months covered.
func MonthlyPrepayment(bank *BankSummary, baseRent decimal.Decimal) Prepayment {
	months := bank.TotalMonths
	totalBase := baseRent.Mul(decimal.NewFromInt(int64(months)))
	totalNK := bank.TotalRentPaid.Sub(totalBase)

	monthly := decimal.Zero
	if months > 0 {
		monthly = totalNK.Div(decimal.NewFromInt(int64(months))).Round(2)
	}

	return Prepayment{
		PaymentMonths:    months,
		Monthly:          monthly,
		TotalRentPaid:    bank.TotalRentPaid,
		TotalBaseRent:    totalBase,
		TotalNebenkosten: totalNK.Round(2),
	}
}

// extractJSON trims markdown code fences and any prose around the outermost
// JSON object. Gemini wraps JSON answers in fences more often than not.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
