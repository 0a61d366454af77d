// Package konto handles extraction from bank statements
package konto

import (
	"context"
	"time"

	"nebenkosten/cmd/root"
	"nebenkosten/internal/aiextractor"
	"nebenkosten/internal/config"
	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/kontoparser"
	"nebenkosten/internal/models"
	"nebenkosten/internal/pdftext"
	"nebenkosten/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the konto command
var Cmd = &cobra.Command{
	Use:   "konto",
	Short: "Extract rent payments from a bank statement",
	Long: `Extract the incoming rent payments of the settlement year from a bank
statement PDF and print them, including the covered months. With -o the
payments are also written as CSV.

Example:
  nebenkosten konto -i Kontoauszug_2023.pdf -y 2023 -o zahlungen.csv`,
	Run: kontoFunc,
}

var tenantName string

func init() {
	Cmd.Flags().StringVar(&tenantName, "tenant", "", "Tenant name, narrows the AI search")
}

func kontoFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Bank statement extraction command called")

	input := root.SharedFlags.Input
	if input == "" {
		root.Log.Fatal("Input file must be specified with -i")
	}
	year := root.SettlementYear()

	var ledger *models.PaymentLedger
	if root.SharedFlags.UseAI {
		cfg := config.GetGlobalConfig()
		extractor := aiextractor.New(root.GeminiAPIKey(), cfg.AI.Model, nil, root.LoadRules())
		defer func() {
			if err := extractor.Close(); err != nil {
				root.Log.Warnf("Failed to close AI client: %v", err)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
		defer cancel()

		summary, err := extractor.ExtractBankPayments(ctx, input, tenantName, year)
		if err != nil {
			root.Log.Fatalf("AI extraction failed: %v", err)
		}
		ledger = summary.Ledger
		root.Log.Infof("AI reported period: %s, total rent: %s",
			summary.Period, currencyutils.FormatEUR(summary.TotalRentPaid))
	} else {
		p := kontoparser.New(pdftext.NewExtractor(), root.LoadRules())
		var err error
		ledger, err = p.ParseFile(input, year)
		if err != nil {
			root.Log.Fatalf("Failed to parse bank statement: %v", err)
		}
	}

	for _, payment := range ledger.Payments {
		root.Log.Infof("  %s  %12s",
			dateutils.ToGermanFormat(payment.Date), currencyutils.FormatEUR(payment.Amount))
	}
	root.Log.Infof("%d payments, total %s, average %s",
		ledger.Count(), currencyutils.FormatEUR(ledger.Total()), currencyutils.FormatEUR(ledger.Average()))

	if missing := ledger.MissingMonths(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, dateutils.MonthName(m))
		}
		root.Log.Warnf("Months without payment: %v", names)
	}

	if root.SharedFlags.Output != "" {
		if err := report.WritePaymentsCSV(ledger, root.SharedFlags.Output); err != nil {
			root.Log.Fatalf("Failed to write payment CSV: %v", err)
		}
		root.Log.Infof("Wrote payments to %s", root.SharedFlags.Output)
	}
}
