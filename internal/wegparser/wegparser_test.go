package wegparser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nebenkosten/internal/models"
	"nebenkosten/internal/parsererror"
	"nebenkosten/internal/pdftext"
)

func parsePages(t *testing.T, pages []pdftext.Page) *models.CostLedger {
	t.Helper()
	p := New(pdftext.NewMockExtractor(pages, nil), nil)
	ledger, err := p.ParseFile("statement.pdf")
	require.NoError(t, err)
	return ledger
}

func findItem(items []models.CostItem, name string) (models.CostItem, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return models.CostItem{}, false
}

func TestParseSingleLineCosts(t *testing.T) {
	text := "Abrechnung für das Jahr 2023\n" +
		"Niederschlagsentwässerung 3.840,51 10.000,00 Miteigentumsanteile 57,00 365/365 21,89\n" +
		"Hausnebenkosten 1.200,00 5.424,00 Miteigentumsanteile 57,00 365/365 12,61\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	require.Equal(t, 2, ledger.Len())
	item, ok := findItem(ledger.Items(), "Niederschlagsentwässerung")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(21.89).Equal(item.Amount))
}

func TestParseStopsAtBoundary(t *testing.T) {
	text := "Wasserkosten 100,00\n" +
		"Umlagefähige Kosten: 3.518,71\n" +
		"Niederschlagsentwässerung 21,89\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	assert.Equal(t, 1, ledger.Len())
	assert.True(t, ledger.Has("Wasserkosten"))
	assert.False(t, ledger.Has("Niederschlagsentwässerung"))
}

func TestParseStopsAtNonApportionableBoundary(t *testing.T) {
	text := "Wasserkosten 100,00\n" +
		"Nicht umlagefähige Kosten: 950,00\n" +
		"Instandhaltung 500,00\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	assert.Equal(t, 1, ledger.Len())
}

func TestParseStopsAtBoundaryWithoutUmlauts(t *testing.T) {
	// Some PDF text layers transliterate umlauts to ASCII.
	text := "Wasserkosten 100,00\n" +
		"Nicht umlagefaehige Kosten: 950,00\n" +
		"Instandhaltung 500,00\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	assert.Equal(t, 1, ledger.Len())
	assert.True(t, ledger.Has("Wasserkosten"))
}

func TestParseSplitBlock(t *testing.T) {
	text := "Ungezieferbekämpfung 2.471,60 Der Betrag wurde wie folgt aufgeteilt:\n" +
		"=> Objekt WEG Lietzenburger Straße 1-9 10.000,00 57,00 12,00\n" +
		"=> UG2 Lietzenburger Straße 3-9 4.504,00 57,00 9,89\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	item, ok := findItem(ledger.Items(), "Ungezieferbekämpfung")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(21.89).Equal(item.Amount), "got %s", item.Amount)
}

func TestParseSplitBlockSingleShare(t *testing.T) {
	// only the subgroup line carries an amount, the missing share counts as zero
	text := "Treppenhausreinigung 800,00 Der Betrag wurde wie folgt aufgeteilt:\n" +
		"=> Objekt WEG Lietzenburger Straße 1-9 Verteilung direkt\n" +
		"=> UG2 Lietzenburger Straße 3-9 4.504,00 57,00 10,12\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	item, ok := findItem(ledger.Items(), "Treppenhausreinigung")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(10.12).Equal(item.Amount))
}

func TestSplitBlockOverridesTableAmount(t *testing.T) {
	table := [][]string{
		{"Ungezieferbekämpfung", "Verteilung", "9,89", ""},
		{"Wasserkosten", "Verteilung", "100,00", ""},
	}
	text := "Ungezieferbekämpfung 2.471,60 Der Betrag wurde wie folgt aufgeteilt:\n" +
		"=> Objekt WEG Lietzenburger Straße 1-9 10.000,00 57,00 12,00\n" +
		"=> UG2 Lietzenburger Straße 3-9 4.504,00 57,00 9,89\n"

	// table first, split block on a later page: split still wins
	ledger := parsePages(t, []pdftext.Page{
		{Text: "Objekt WEG Lietzenburger Straße 1-9", Tables: [][][]string{table}},
		{Text: text},
	})

	item, ok := findItem(ledger.Items(), "Ungezieferbekämpfung")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(21.89).Equal(item.Amount), "got %s", item.Amount)
}

func TestParseDuplicateKeepsLarger(t *testing.T) {
	text := "Hausmeisterkosten 30,00\nHausmeisterkosten 50,00\nHausmeister-Kosten 40,00\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	require.Equal(t, 1, ledger.Len())
	assert.True(t, decimal.NewFromInt(50).Equal(ledger.Items()[0].Amount))
}

func TestNameDenylist(t *testing.T) {
	text := "Gesamt Betrag 999,00\n" +
		"Vorauszahlung 500,00\n" +
		"Außenanlagen 75,50\n" +
		"Heiz- und Wasserkostenabrechnung 250,00\n"

	ledger := parsePages(t, []pdftext.Page{{Text: text}})

	assert.False(t, ledger.Has("Gesamt Betrag"))
	assert.False(t, ledger.Has("Vorauszahlung"))
	assert.True(t, ledger.Has("Außenanlagen"))
	assert.True(t, ledger.Has("Heiz- und Wasserkostenabrechnung"))
}

func TestParseNormalTable(t *testing.T) {
	table := [][]string{
		{"Kostenart", "Verteilung", "Betrag", ""},
		{"Hausmeisterkosten", "5.424,00", "1.234,56", ""},
		{"Anlagen", "", "3,00", ""},
		{"Hausgeldabrechnung", "", "500,00", ""},
		{"Schornsteinfeger", "57,00", "0,00", ""},
	}

	ledger := parsePages(t, []pdftext.Page{{Tables: [][][]string{table}}})

	require.Equal(t, 1, ledger.Len())
	item := ledger.Items()[0]
	assert.Equal(t, "Hausmeisterkosten", item.Name)
	assert.True(t, decimal.NewFromFloat(1234.56).Equal(item.Amount))
}

func TestTableFallbackSkipsShareConstants(t *testing.T) {
	table := [][]string{
		{"Heizung", "Miteigentumsanteile", "57,00"},
		{"Wasser", "Miteigentumsanteile", "380,10"},
	}

	ledger := parsePages(t, []pdftext.Page{{Tables: [][][]string{table}}})

	// 57,00 is an ownership-share constant, not an amount
	assert.False(t, ledger.Has("Heizung"))

	item, ok := findItem(ledger.Items(), "Wasser")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(380.10).Equal(item.Amount))
}

func TestTableStopsAtTrailingSection(t *testing.T) {
	page1 := pdftext.Page{Tables: [][][]string{{
		{"Wasserkosten", "x", "100,00", ""},
		{"Verwaltung", "x", "1.000,00", ""},
		{"Gartenpflege", "x", "200,00", ""},
	}}}
	page2 := pdftext.Page{Text: "Niederschlagsentwässerung 21,89\n"}

	ledger := parsePages(t, []pdftext.Page{page1, page2})

	// everything from the trailing-section header onward is discarded,
	// including later pages
	assert.Equal(t, 1, ledger.Len())
	assert.True(t, ledger.Has("Wasserkosten"))
	assert.True(t, ledger.Finalized())
}

func TestSubgroupTable(t *testing.T) {
	table := [][]string{
		{"Dachrinnenreinigung", "Betrag", "Verteilung", ""},
		{"=>", "Objekt WEG Lietzenburger Straße 1-9", "12,00", ""},
		{"=>", "UG2 Lietzenburger Straße 3-9", "9,89", ""},
	}

	ledger := parsePages(t, []pdftext.Page{{Tables: [][][]string{table}}})

	item, ok := findItem(ledger.Items(), "Dachrinnenreinigung")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(9.89).Equal(item.Amount))
}

func TestSubgroupTableDoesNotOverrideText(t *testing.T) {
	text := "Dachrinnenreinigung 500,00 Der Betrag wurde wie folgt aufgeteilt:\n" +
		"=> Objekt WEG Lietzenburger Straße 1-9 10.000,00 57,00 12,00\n" +
		"=> UG2 Lietzenburger Straße 3-9 4.504,00 57,00 9,89\n"
	table := [][]string{
		{"Dachrinnenreinigung", "Betrag", "Verteilung", ""},
		{"=>", "UG2 Lietzenburger Straße 3-9", "9,89", ""},
	}

	ledger := parsePages(t, []pdftext.Page{{Text: text, Tables: [][][]string{table}}})

	item, ok := findItem(ledger.Items(), "Dachrinnenreinigung")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(21.89).Equal(item.Amount))
}

func TestParseFileUnreadable(t *testing.T) {
	p := New(pdftext.NewMockExtractor(nil, errors.New("not a pdf")), nil)

	_, err := p.ParseFile("broken.pdf")
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseEmptyDocument(t *testing.T) {
	ledger := parsePages(t, []pdftext.Page{{Text: "Sehr geehrte Damen und Herren,\nAnbei erhalten Sie das Schreiben.\n"}})

	assert.Equal(t, 0, ledger.Len())
	assert.True(t, ledger.Total().IsZero())
}
