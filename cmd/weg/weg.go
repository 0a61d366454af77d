// Package weg handles extraction from WEG annual statements
package weg

import (
	"context"
	"time"

	"nebenkosten/cmd/root"
	"nebenkosten/internal/aiextractor"
	"nebenkosten/internal/config"
	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/models"
	"nebenkosten/internal/pdftext"
	"nebenkosten/internal/report"
	"nebenkosten/internal/wegparser"

	"github.com/spf13/cobra"
)

// Cmd represents the weg command
var Cmd = &cobra.Command{
	Use:   "weg",
	Short: "Extract the apportionable costs from a WEG Hausgeldabrechnung",
	Long: `Extract the apportionable (umlagefähige) cost items from a WEG annual
statement PDF and print them. With -o the items are also written as CSV.

Example:
  nebenkosten weg -i Hausgeldabrechnung_2023.pdf -o kosten.csv`,
	Run: wegFunc,
}

func wegFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("WEG extraction command called")

	input := root.SharedFlags.Input
	if input == "" {
		root.Log.Fatal("Input file must be specified with -i")
	}

	var ledger *models.CostLedger
	if root.SharedFlags.UseAI {
		ledger = extractWithAI(input)
	} else {
		p := wegparser.New(pdftext.NewExtractor(), root.LoadRules())
		var err error
		ledger, err = p.ParseFile(input)
		if err != nil {
			root.Log.Fatalf("Failed to parse WEG statement: %v", err)
		}
	}

	for _, item := range ledger.Items() {
		root.Log.Infof("  %-50s %12s", item.Name, currencyutils.FormatEUR(item.Amount))
	}
	root.Log.Infof("Total: %s (%d items)", currencyutils.FormatEUR(ledger.Total()), ledger.Len())

	if root.SharedFlags.Output != "" {
		if err := report.WriteCostsCSV(ledger.Items(), root.SharedFlags.Output); err != nil {
			root.Log.Fatalf("Failed to write cost CSV: %v", err)
		}
		root.Log.Infof("Wrote cost items to %s", root.SharedFlags.Output)
	}
}

func extractWithAI(input string) *models.CostLedger {
	cfg := config.GetGlobalConfig()
	extractor := aiextractor.New(root.GeminiAPIKey(), cfg.AI.Model, nil, root.LoadRules())
	defer func() {
		if err := extractor.Close(); err != nil {
			root.Log.Warnf("Failed to close AI client: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	defer cancel()

	ledger, total, err := extractor.ExtractWEGCosts(ctx, input)
	if err != nil {
		root.Log.Fatalf("AI extraction failed: %v", err)
	}
	root.Log.Infof("AI reported total: %s", currencyutils.FormatEUR(total))
	return ledger
}
