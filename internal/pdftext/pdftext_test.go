package pdftext

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"Two cells", "Hausmeisterkosten          1.234,56", []string{"Hausmeisterkosten", "1.234,56"}},
		{"Four cells", "Wasser   5.424,00   Miteigentumsanteile   123,45", []string{"Wasser", "5.424,00", "Miteigentumsanteile", "123,45"}},
		{"Single cell", "Sehr geehrter Herr Rosenkranz,", []string{"Sehr geehrter Herr Rosenkranz,"}},
		{"Leading indent trimmed", "   Heizkosten     80,00", []string{"Heizkosten", "80,00"}},
		{"Empty line", "   ", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitColumns(tc.line))
		})
	}
}

func TestDetectTables(t *testing.T) {
	pageText := "Abrechnung 2023\n" +
		"\n" +
		"Kostenart                 Verteilung        Betrag\n" +
		"Hausmeisterkosten         5.424,00        1.234,56\n" +
		"Wasser/Abwasser           5.424,00          380,10\n" +
		"\n" +
		"Mit freundlichen Grüßen\n"

	tables := DetectTables(pageText)
	assert.Len(t, tables, 1)
	assert.Len(t, tables[0], 3)
	assert.Equal(t, []string{"Kostenart", "Verteilung", "Betrag"}, tables[0][0])
	assert.Equal(t, []string{"Hausmeisterkosten", "5.424,00", "1.234,56"}, tables[0][1])
}

func TestDetectTablesIgnoresLoneColumnarLine(t *testing.T) {
	pageText := "Einleitung\n" +
		"Summe:          1.000,00\n" +
		"Schlusstext\n"

	assert.Empty(t, DetectTables(pageText))
}

func TestDetectTablesMultiple(t *testing.T) {
	pageText := "A    1,00\nB    2,00\n\nText dazwischen\n\nC    3,00\nD    4,00\n"

	tables := DetectTables(pageText)
	assert.Len(t, tables, 2)
	assert.Equal(t, [][]string{{"A", "1,00"}, {"B", "2,00"}}, tables[0])
	assert.Equal(t, [][]string{{"C", "3,00"}, {"D", "4,00"}}, tables[1])
}

func TestMockExtractor(t *testing.T) {
	pages := []Page{{Text: "Seite eins"}}

	m := NewMockExtractor(pages, nil)
	got, err := m.Pages("egal.pdf")
	assert.NoError(t, err)
	assert.Equal(t, pages, got)

	m = NewMockExtractor(nil, errors.New("kaputt"))
	_, err = m.Pages("egal.pdf")
	assert.Error(t, err)
}
