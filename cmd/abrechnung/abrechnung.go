// Package abrechnung runs the full settlement pipeline
package abrechnung

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"nebenkosten/cmd/root"
	"nebenkosten/internal/aiextractor"
	"nebenkosten/internal/allocator"
	"nebenkosten/internal/config"
	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/fileutils"
	"nebenkosten/internal/kontoparser"
	"nebenkosten/internal/models"
	"nebenkosten/internal/pdftext"
	"nebenkosten/internal/report"
	"nebenkosten/internal/rules"
	"nebenkosten/internal/vertragparser"
	"nebenkosten/internal/wegparser"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Cmd represents the abrechnung command
var Cmd = &cobra.Command{
	Use:   "abrechnung",
	Short: "Compute the tenant settlement and write the statement documents",
	Long: `Run the full settlement pipeline: extract the apportionable costs from the
WEG statement, optionally the tenant facts from the rental contract and the
rent payments from a bank statement, compute the pro-rated tenant shares
against the prepayments, and write the XLSX/PDF statement, the CSV exports
and the cover texts into the output directory.

Example:
  nebenkosten abrechnung --weg Hausgeldabrechnung_2023.pdf \
    --vertrag Mietvertrag.pdf --konto Kontoauszug_2023.pdf -y 2023 -o output/`,
	Run: abrechnungFunc,
}

var (
	wegFile     string
	vertragFile string
	kontoFile   string
	tenant      string
	prepayment  string
	months      int
	message     string
)

func init() {
	Cmd.Flags().StringVar(&wegFile, "weg", "", "WEG annual statement PDF (required)")
	Cmd.Flags().StringVar(&vertragFile, "vertrag", "", "Rental contract PDF")
	Cmd.Flags().StringVar(&kontoFile, "konto", "", "Bank statement PDF")
	Cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant name, overrides the contract")
	Cmd.Flags().StringVar(&prepayment, "prepayment", "", "Monthly prepayment in EUR, overrides the contract")
	Cmd.Flags().IntVar(&months, "months", 0, "Payment months, overrides the bank statement")
	Cmd.Flags().StringVar(&message, "message", "", "Extra paragraph for the cover mail")
}

func abrechnungFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Settlement command called")

	if wegFile == "" {
		root.Log.Fatal("WEG statement must be specified with --weg")
	}
	year := root.SettlementYear()
	cfg := config.GetGlobalConfig()
	r := root.LoadRules()
	extractor := pdftext.NewExtractor()

	var ai *aiextractor.Extractor
	if root.SharedFlags.UseAI {
		ai = aiextractor.New(root.GeminiAPIKey(), cfg.AI.Model, extractor, r)
		defer func() {
			if err := ai.Close(); err != nil {
				root.Log.Warnf("Failed to close AI client: %v", err)
			}
		}()
	}

	// 1. Apportionable costs from the WEG statement.
	costs := extractCosts(ai, cfg, r, extractor)

	// 2. Tenant facts from the rental contract.
	facts := extractFacts(ai, cfg, r, extractor)
	tenantName := tenant
	if tenantName == "" {
		tenantName = facts.TenantName
	}
	if tenantName == "" {
		root.Log.Fatal("Tenant name must come from --tenant or the rental contract")
	}

	// 3. Rent payments from the bank statement.
	payments := extractPayments(ai, cfg, r, extractor, tenantName, year)

	// 4. Payment months and monthly prepayment.
	paymentMonths := months
	if paymentMonths == 0 && payments != nil {
		paymentMonths = len(payments.MonthsCovered())
	}
	if paymentMonths == 0 {
		paymentMonths = 12
		root.Log.Warn("No payment data, assuming 12 payment months")
	}

	monthlyPrepay := resolvePrepayment(facts)

	// 5. Settlement.
	settlement := allocator.Allocate(allocator.Input{
		Year:              year,
		TenantName:        tenantName,
		Costs:             costs,
		PaymentMonths:     paymentMonths,
		MonthlyPrepayment: monthlyPrepay,
		PeriodStart:       time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:         time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	})

	label := "Guthaben"
	if settlement.OwedByTenant() {
		label = "Nachzahlung"
	}
	root.Log.Infof("Settlement %d for %s: costs %s, prepayments %s, %s %s",
		year, tenantName,
		currencyutils.FormatEUR(settlement.TotalCosts),
		currencyutils.FormatEUR(settlement.Prepayments),
		label, currencyutils.FormatEUR(settlement.Balance.Abs()))

	// 6. Output documents.
	writeOutputs(settlement, payments, costs)
}

func extractCosts(ai *aiextractor.Extractor, cfg *config.Config, r *rules.Rules, extractor pdftext.Extractor) *models.CostLedger {
	if ai != nil {
		ctx, cancel := aiContext(cfg)
		defer cancel()
		ledger, _, err := ai.ExtractWEGCosts(ctx, wegFile)
		if err != nil {
			root.Log.Fatalf("AI WEG extraction failed: %v", err)
		}
		return ledger
	}

	ledger, err := wegparser.New(extractor, r).ParseFile(wegFile)
	if err != nil {
		root.Log.Fatalf("Failed to parse WEG statement: %v", err)
	}
	if ledger.Len() == 0 {
		root.Log.Fatal("No apportionable costs found in WEG statement")
	}
	return ledger
}

func extractFacts(ai *aiextractor.Extractor, cfg *config.Config, r *rules.Rules, extractor pdftext.Extractor) models.ContractFacts {
	if vertragFile == "" {
		return models.ContractFacts{}
	}

	if ai != nil {
		ctx, cancel := aiContext(cfg)
		defer cancel()
		facts, err := ai.ExtractContract(ctx, vertragFile)
		if err != nil {
			root.Log.Fatalf("AI contract extraction failed: %v", err)
		}
		return *facts
	}

	facts, err := vertragparser.New(extractor, r).ParseFile(vertragFile)
	if err != nil {
		root.Log.Fatalf("Failed to parse rental contract: %v", err)
	}
	return facts
}

func extractPayments(ai *aiextractor.Extractor, cfg *config.Config, r *rules.Rules, extractor pdftext.Extractor, tenantName string, year int) *models.PaymentLedger {
	if kontoFile == "" {
		return nil
	}

	if ai != nil {
		ctx, cancel := aiContext(cfg)
		defer cancel()
		summary, err := ai.ExtractBankPayments(ctx, kontoFile, tenantName, year)
		if err != nil {
			root.Log.Fatalf("AI bank extraction failed: %v", err)
		}
		return summary.Ledger
	}

	ledger, err := kontoparser.New(extractor, r).ParseFile(kontoFile, year)
	if err != nil {
		root.Log.Fatalf("Failed to parse bank statement: %v", err)
	}
	return ledger
}

func resolvePrepayment(facts models.ContractFacts) decimal.Decimal {
	if prepayment != "" {
		value, err := decimal.NewFromString(prepayment)
		if err != nil {
			root.Log.Fatalf("Invalid --prepayment value %q: %v", prepayment, err)
		}
		return value
	}
	if value, ok := facts.MonthlyPrepayment(); ok {
		return value
	}
	root.Log.Warn("No prepayment data, assuming zero prepayments")
	return decimal.Zero
}

func writeOutputs(settlement *models.Settlement, payments *models.PaymentLedger, costs *models.CostLedger) {
	outDir := root.SharedFlags.Output
	if outDir == "" {
		outDir = config.GetGlobalConfig().Settlement.OutputDir
	}
	parties := root.Parties()
	slug := tenantSlug(settlement.TenantName)
	base := fmt.Sprintf("abrechnung_%d_%s", settlement.Year, slug)

	xlsx, err := report.BuildSettlementXLSX(settlement, parties)
	if err != nil {
		root.Log.Fatalf("Failed to build XLSX statement: %v", err)
	}
	writeFile(filepath.Join(outDir, base+".xlsx"), xlsx)

	pdf, err := report.BuildSettlementPDF(settlement, parties)
	if err != nil {
		root.Log.Fatalf("Failed to build PDF statement: %v", err)
	}
	writeFile(filepath.Join(outDir, base+".pdf"), pdf)

	if err := report.WriteSettlementCSV(settlement, filepath.Join(outDir, base+".csv")); err != nil {
		root.Log.Fatalf("Failed to write settlement CSV: %v", err)
	}
	if err := report.WriteCostsCSV(costs.Items(), filepath.Join(outDir, "kosten.csv")); err != nil {
		root.Log.Fatalf("Failed to write cost CSV: %v", err)
	}
	if payments != nil {
		if err := report.WritePaymentsCSV(payments, filepath.Join(outDir, "zahlungen.csv")); err != nil {
			root.Log.Fatalf("Failed to write payment CSV: %v", err)
		}
	}

	writeFile(filepath.Join(outDir, "email.txt"), []byte(report.EmailText(settlement, parties, message)))
	writeFile(filepath.Join(outDir, "whatsapp.txt"), []byte(report.WhatsAppText(settlement, parties)))

	root.Log.Infof("Wrote settlement documents to %s", outDir)
}

func writeFile(path string, data []byte) {
	if err := fileutils.WriteFile(path, data, 0644); err != nil {
		root.Log.Fatalf("Failed to write %s: %v", path, err)
	}
}

func aiContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
}

func tenantSlug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}
