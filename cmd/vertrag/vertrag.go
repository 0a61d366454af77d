// Package vertrag handles extraction from rental contracts
package vertrag

import (
	"context"
	"time"

	"nebenkosten/cmd/root"
	"nebenkosten/internal/aiextractor"
	"nebenkosten/internal/config"
	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/models"
	"nebenkosten/internal/pdftext"
	"nebenkosten/internal/vertragparser"

	"github.com/spf13/cobra"
)

// Cmd represents the vertrag command
var Cmd = &cobra.Command{
	Use:   "vertrag",
	Short: "Extract tenant name, start date and rent components from a rental contract",
	Long: `Extract the tenant name, the contract start date, the base rent and the
advance payment components from a rental contract PDF.

Example:
  nebenkosten vertrag -i Mietvertrag.pdf`,
	Run: vertragFunc,
}

func vertragFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Contract extraction command called")

	input := root.SharedFlags.Input
	if input == "" {
		root.Log.Fatal("Input file must be specified with -i")
	}

	var facts models.ContractFacts
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

		aiFacts, err := extractor.ExtractContract(ctx, input)
		if err != nil {
			root.Log.Fatalf("AI extraction failed: %v", err)
		}
		facts = *aiFacts
	} else {
		p := vertragparser.New(pdftext.NewExtractor(), root.LoadRules())
		var err error
		facts, err = p.ParseFile(input)
		if err != nil {
			root.Log.Fatalf("Failed to parse rental contract: %v", err)
		}
	}

	if facts.IsEmpty() {
		root.Log.Warn("No contract facts found in document")
		return
	}

	root.Log.Infof("Tenant:            %s", facts.TenantName)
	if !facts.StartDate.IsZero() {
		root.Log.Infof("Start date:        %s", dateutils.ToGermanFormat(facts.StartDate))
	}
	if facts.BaseRent.Valid {
		root.Log.Infof("Base rent:         %s", currencyutils.FormatEUR(facts.BaseRent.Decimal))
	}
	if facts.AncillaryPrepay.Valid {
		root.Log.Infof("Ancillary prepay:  %s", currencyutils.FormatEUR(facts.AncillaryPrepay.Decimal))
	}
	if facts.HeatingPrepay.Valid {
		root.Log.Infof("Heating prepay:    %s", currencyutils.FormatEUR(facts.HeatingPrepay.Decimal))
	}
	if prepay, ok := facts.MonthlyPrepayment(); ok {
		root.Log.Infof("Monthly prepay:    %s", currencyutils.FormatEUR(prepay))
	}
}
