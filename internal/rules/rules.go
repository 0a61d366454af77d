// Package rules holds the heuristic configuration the document extractors
// run on: boundary markers, label denylists, keyword lists and the regex
// cascades for contract fields. The baked-in defaults match the documents of
// the Lietzenburger Straße property; a YAML file can override any section for
// other properties without code changes.
//
// Order matters everywhere: pattern cascades are tried first-match-wins, and
// marker lists are checked in the order given.
package rules

import (
	"fmt"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Rules bundles the extractor configuration for one property.
type Rules struct {
	WEG    WEGRules    `yaml:"weg"`
	Rental RentalRules `yaml:"rental"`
	Bank   BankRules   `yaml:"bank"`
	AI     AIRules     `yaml:"ai"`
}

// WEGRules configures the annual-statement cost extractor.
type WEGRules struct {
	// BoundaryMarkers terminate the line scan: once one appears, the cost
	// section is over.
	BoundaryMarkers []string `yaml:"boundary_markers"`

	// TrailingSections additionally terminate the table scan and discard
	// everything after them, including later pages.
	TrailingSections []string `yaml:"trailing_sections"`

	// SplitMarker introduces a multi-row apportionment block.
	SplitMarker string `yaml:"split_marker"`

	// PropertyLabel marks the whole-property share line of a split block.
	PropertyLabel string `yaml:"property_label"`

	// SubgroupLabels all have to appear on the subgroup share line of a
	// split block, and identify subgroup rows in tables.
	SubgroupLabels []string `yaml:"subgroup_labels"`

	// SubgroupMarker flags a subgroup row inside a table.
	SubgroupMarker string `yaml:"subgroup_marker"`

	// NameEndKeywords end the name part of a single-line candidate.
	NameEndKeywords []string `yaml:"name_end_keywords"`

	// LineDeny lists substrings that disqualify a line candidate's name.
	LineDeny []string `yaml:"line_deny"`

	// TableDeny is the stricter denylist applied to table rows.
	TableDeny []string `yaml:"table_deny"`

	// ShareConstants are apportionment denominators and unit counts that
	// must never be read as amounts from table cells.
	ShareConstants []string `yaml:"share_constants"`
}

// RentalRules configures the rental-contract extractor. Each field carries an
// ordered capture-group cascade.
type RentalRules struct {
	TenantName      []string `yaml:"tenant_name"`
	StartDate       []string `yaml:"start_date"`
	BaseRent        []string `yaml:"base_rent"`
	AncillaryPrepay []string `yaml:"ancillary_prepay"`
	HeatingPrepay   []string `yaml:"heating_prepay"`
}

// BankRules configures the bank-statement extractor.
type BankRules struct {
	// Keywords mark a booking line as a candidate rent payment. Matched
	// case-insensitively as substrings.
	Keywords []string `yaml:"keywords"`

	// RentKeywords on the line after the amount select the
	// description-then-date layout, where the rightmost date is the
	// posting date.
	RentKeywords []string `yaml:"rent_keywords"`
}

// AIRules configures the AI extraction path.
type AIRules struct {
	// ExcludedKeywords drop cost names the model returns that are not
	// apportionable to tenants.
	ExcludedKeywords []string `yaml:"excluded_keywords"`
}

// DefaultRules returns the built-in configuration.
func DefaultRules() *Rules {
	return &Rules{
		WEG: WEGRules{
			BoundaryMarkers: []string{
				"umlagefähige kosten:",
				"nicht umlagefähige kosten:",
				// Some text layers lose umlauts.
				"umlagefaehige kosten:",
				"nicht umlagefaehige kosten:",
			},
			TrailingSections: []string{
				"sonstige betriebliche",
				"eigentümerversammlung",
				"verwaltung",
				"gutachten",
				"laufende reparaturen",
			},
			SplitMarker:    "der betrag wurde wie folgt aufgeteilt:",
			PropertyLabel:  "Objekt WEG",
			SubgroupLabels: []string{"UG2", "Lietzenburger Straße 3-9"},
			SubgroupMarker: "=>",
			NameEndKeywords: []string{
				"miteigentumsanteile",
				"festbetrag",
				"anzahl",
			},
			LineDeny: []string{
				"gesamt betrag",
				"basis",
				"verteilung",
				"hausgeld",
				"betrag",
				"kostenart",
				"objekt weg",
				"einheitennr",
				"abrechnungszeitraum",
				"vorauszahlung",
				"abrechnungsspitze",
				"datum",
				"debitorennr",
				"nutzungszeitraum",
				"abrechnung",
				"berech.tage",
				"wohnung",
			},
			TableDeny: []string{
				"kostenart",
				"gesamt betrag",
				"summe:",
				"total",
				"anfangsbestand",
				"endbestand",
				"entnahmen",
				"gesamtkosten:",
				"hausgeld",
				"abrechnungszeitraum",
				"objekt:",
				"eigentümernr",
				"vertragsnr",
				"einheitennr",
				"sehr geehrte",
				"anbei erhalten",
				"mit freundlichen",
				"wir freuen uns",
				"bitte teilen",
				"=>",
				"ug1 ",
				"ug2 ",
				"untergruppe",
				"abrechnungsspitze",
				"ungezieferbekämpfung (nicht",
			},
			ShareConstants: []string{
				"5424.00",
				"5.424,00",
				"5424,00",
				"4504,00",
				"10000,00",
				"57,00",
				"57.00",
			},
		},
		Rental: RentalRules{
			TenantName: []string{
				`Mieter[:\s]+([A-ZÄÖÜ][a-zäöüß]+(?:\s+[A-ZÄÖÜ][a-zäöüß]+)+)`,
				`Mieterin[:\s]+([A-ZÄÖÜ][a-zäöüß]+(?:\s+[A-ZÄÖÜ][a-zäöüß]+)+)`,
				`Name[:\s]+([A-ZÄÖÜ][a-zäöüß]+(?:\s+[A-ZÄÖÜ][a-zäöüß]+)+)`,
			},
			StartDate: []string{
				`Mietbeginn[:\s]+(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`,
				`ab dem[:\s]+(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`,
				`Beginn[:\s]+(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`,
			},
			BaseRent: []string{
				`Grundmiete[:\s]+(?:EUR\s*)?([\d.,]+)`,
				`Kaltmiete[:\s]+(?:EUR\s*)?([\d.,]+)`,
				`Nettomiete[:\s]+(?:EUR\s*)?([\d.,]+)`,
			},
			AncillaryPrepay: []string{
				`Betriebskostenvorauszahlung[:\s]+(?:EUR\s*)?([\d.,]+)`,
				`Nebenkosten[:\s]+(?:EUR\s*)?([\d.,]+)`,
				`Betriebskosten[:\s]+(?:EUR\s*)?([\d.,]+)`,
			},
			HeatingPrepay: []string{
				`Heizung[:\s]+(?:EUR\s*)?([\d.,]+)`,
				`Heizkosten[:\s]+(?:EUR\s*)?([\d.,]+)`,
				`Heizkostenvorauszahlung[:\s]+(?:EUR\s*)?([\d.,]+)`,
			},
		},
		Bank: BankRules{
			Keywords: []string{
				"miete",
				"rent",
				"lietzenburger",
				"rosenkranz",
				"mingo",
				"vinayak",
				"gopi",
			},
			RentKeywords: []string{
				"miete",
				"rent",
				"lietzenburger",
			},
		},
		AI: AIRules{
			ExcludedKeywords: []string{
				"instandhaltung",
				"reparatur",
				"rücklage",
				"versicherungsschaden",
				"schaden",
				"schadensbehebung",
				"verwaltung",
				"hausverwaltung",
				"aufwand versicherung",
			},
		},
	}
}

// Load reads a YAML rules file over the defaults. Sections absent from the
// file keep their default values.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	r := DefaultRules()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	log.WithField("file", path).Info("Loaded extraction rules")
	return r, nil
}

// Validate compiles every pattern cascade so a broken rules file fails at
// load time instead of mid-extraction.
func (r *Rules) Validate() error {
	cascades := map[string][]string{
		"tenant_name":      r.Rental.TenantName,
		"start_date":       r.Rental.StartDate,
		"base_rent":        r.Rental.BaseRent,
		"ancillary_prepay": r.Rental.AncillaryPrepay,
		"heating_prepay":   r.Rental.HeatingPrepay,
	}
	for field, patterns := range cascades {
		for _, p := range patterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("field %s: bad pattern %q: %w", field, p, err)
			}
		}
	}

	if len(r.WEG.BoundaryMarkers) == 0 {
		return fmt.Errorf("weg.boundary_markers must not be empty")
	}
	if r.WEG.SplitMarker == "" {
		return fmt.Errorf("weg.split_marker must not be empty")
	}
	return nil
}
