package kontoparser

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nebenkosten/internal/models"
	"nebenkosten/internal/parsererror"
	"nebenkosten/internal/pdftext"
)

func parse(t *testing.T, text string, year int) *models.PaymentLedger {
	t.Helper()
	p := New(pdftext.NewMockExtractor([]pdftext.Page{{Text: text}}, nil), nil)
	ledger, err := p.ParseFile("kontoauszug.pdf", year)
	require.NoError(t, err)
	return ledger
}

func TestParseDescriptionThenDateLayout(t *testing.T) {
	text := "Emanuela Mingo +1.100,00 EUR\n" +
		"MIETE LIETZENBURGER STR 3 EREF: NOTPROVIDED Wert 23.08.2023 24.08.2023\n"

	l := parse(t, text, 2023)

	require.Equal(t, 1, l.Count())
	// the rightmost date is the posting date
	assert.Equal(t, time.Date(2023, 8, 24, 0, 0, 0, 0, time.UTC), l.Payments[0].Date)
	assert.True(t, decimal.NewFromInt(1100).Equal(l.Payments[0].Amount))
}

func TestParseFirstDateLayout(t *testing.T) {
	text := "Vinayak Gopi + 1.510,00 EUR\n" +
		"12/23 03.12.2023 - 04.12.2023\n"

	l := parse(t, text, 2023)

	require.Equal(t, 1, l.Count())
	// without a rent keyword the first date applies
	assert.Equal(t, time.Date(2023, 12, 3, 0, 0, 0, 0, time.UTC), l.Payments[0].Date)
	assert.True(t, decimal.NewFromInt(1510).Equal(l.Payments[0].Amount))
}

func TestParseMonthTokenLayout(t *testing.T) {
	text := "Vinayak Gopi + 1.510,00 EUR\n" +
		"09/23 Dauerauftrag\n"

	l := parse(t, text, 2023)

	require.Equal(t, 1, l.Count())
	// a bare month token stands in for the first of the month
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), l.Payments[0].Date)
}

func TestParseYearFilter(t *testing.T) {
	text := "Emanuela Mingo +1.100,00 EUR\n" +
		"MIETE LIETZENBURGER STR 3 31.12.2022\n" +
		"Emanuela Mingo +1.100,00 EUR\n" +
		"MIETE LIETZENBURGER STR 3 02.01.2023\n"

	l := parse(t, text, 2023)

	require.Equal(t, 1, l.Count())
	assert.Equal(t, 2023, l.Payments[0].Date.Year())
}

func TestParseIgnoresOtherBookings(t *testing.T) {
	text := "REWE Markt -54,30 EUR\n" +
		"Lastschrift 05.06.2023\n" +
		"Gehalt Firma GmbH +3.000,00 EUR\n" +
		"Lohn 01.06.2023\n"

	l := parse(t, text, 2023)
	assert.Equal(t, 0, l.Count())
}

func TestParseNegativeAmountTakenAbsolute(t *testing.T) {
	text := "Miete Rosenkranz -1.100,00 EUR\n" +
		"MIETE LIETZENBURGER 05.04.2023\n"

	l := parse(t, text, 2023)

	require.Equal(t, 1, l.Count())
	assert.True(t, decimal.NewFromInt(1100).Equal(l.Payments[0].Amount))
}

func TestParseHeaderWithoutDateDropped(t *testing.T) {
	text := "Emanuela Mingo +1.100,00 EUR\n" +
		"MIETE ohne Datum\n"

	l := parse(t, text, 2023)
	assert.Equal(t, 0, l.Count())
}

func TestParseStatsAcrossMonths(t *testing.T) {
	text := "Emanuela Mingo +1.100,00 EUR\n" +
		"MIETE LIETZENBURGER 02.01.2023\n" +
		"Emanuela Mingo +1.100,00 EUR\n" +
		"MIETE LIETZENBURGER 01.02.2023\n" +
		"Emanuela Mingo +1.100,00 EUR\n" +
		"MIETE LIETZENBURGER 03.04.2023\n"

	l := parse(t, text, 2023)

	assert.Equal(t, 3, l.Count())
	assert.Equal(t, []time.Month{time.January, time.February, time.April}, l.MonthsCovered())
	assert.Contains(t, l.MissingMonths(), time.March)
	assert.False(t, l.FullYear())
	assert.True(t, decimal.NewFromInt(1100).Equal(l.Average()))
}

func TestParseFileUnreadable(t *testing.T) {
	p := New(pdftext.NewMockExtractor(nil, errors.New("kein PDF")), nil)

	_, err := p.ParseFile("broken.pdf", 2023)
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)
}
