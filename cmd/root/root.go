// Package root contains the root command for the application
package root

import (
	"nebenkosten/internal/aiextractor"
	"nebenkosten/internal/allocator"
	"nebenkosten/internal/common"
	"nebenkosten/internal/config"
	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/fileutils"
	"nebenkosten/internal/kontoparser"
	"nebenkosten/internal/pdftext"
	"nebenkosten/internal/report"
	"nebenkosten/internal/rules"
	"nebenkosten/internal/vertragparser"
	"nebenkosten/internal/wegparser"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Year   int
	Rules  string
	UseAI  bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "nebenkosten",
		Short: "A CLI tool to build the annual Nebenkostenabrechnung from WEG statements, rental contracts and bank statements.",
		Long: `nebenkosten reads the PDFs of a settlement year - the WEG Hausgeldabrechnung,
the rental contract and the tenant's bank statements - and computes the
tenant's pro-rated utility cost settlement, including the XLSX/PDF statement
and the cover texts.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to nebenkosten!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize and configure logging
			config.LoadEnv()
			Log = config.ConfigureLogging()

			// Set the configured logger for all packages
			currencyutils.SetLogger(Log)
			pdftext.SetLogger(Log)
			rules.SetLogger(Log)
			wegparser.SetLogger(Log)
			vertragparser.SetLogger(Log)
			kontoparser.SetLogger(Log)
			allocator.SetLogger(Log)
			report.SetLogger(Log)
			aiextractor.SetLogger(Log)
			fileutils.SetLogger(Log)
			common.SetLogger(Log)

			// Ensure CSV delimiter is updated after env variables are loaded
			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				Log.WithField("delimiter", delim).Debug("Setting CSV delimiter from environment")
				common.SetDelimiter([]rune(delim)[0])
			}
		},
	}

	// SharedFlags holds the common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input PDF file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	Cmd.PersistentFlags().IntVarP(&SharedFlags.Year, "year", "y", 0, "Settlement year")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Rules, "rules", "", "Extraction rules YAML file (optional)")
	Cmd.PersistentFlags().BoolVar(&SharedFlags.UseAI, "ai", false, "Use the Gemini-based extraction path")
}

// LoadRules loads the extraction rules, from the --rules file when given,
// otherwise the built-in defaults.
func LoadRules() *rules.Rules {
	if SharedFlags.Rules == "" {
		return rules.DefaultRules()
	}
	r, err := rules.Load(SharedFlags.Rules)
	if err != nil {
		Log.Fatalf("Failed to load rules file %s: %v", SharedFlags.Rules, err)
	}
	return r
}

// SettlementYear resolves the settlement year from the --year flag or the
// configuration, failing when neither is set.
func SettlementYear() int {
	if SharedFlags.Year != 0 {
		return SharedFlags.Year
	}
	if year := config.GetGlobalConfig().Settlement.Year; year != 0 {
		return year
	}
	Log.Fatal("Settlement year must be set via --year or the settlement.year config key")
	return 0
}

// GeminiAPIKey resolves the Gemini API key from the configuration, falling
// back to the GEMINI_API_KEY environment variable.
func GeminiAPIKey() string {
	if key := config.GetGlobalConfig().AI.APIKey; key != "" {
		return key
	}
	return config.GetGeminiAPIKey()
}

// Parties builds the statement letterhead from the configuration.
func Parties() report.Parties {
	cfg := config.GetGlobalConfig()
	return report.Parties{
		LandlordName:    cfg.Landlord.Name,
		LandlordAddress: cfg.Landlord.Address,
		PropertyAddress: cfg.Property.Address,
		City:            cfg.Landlord.City,
	}
}
