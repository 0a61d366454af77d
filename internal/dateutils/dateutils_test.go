package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateString(t *testing.T) {
	tests := []struct {
		name     string
		dateStr  string
		expected time.Time
		hasError bool
	}{
		{"German full", "15.03.2023", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"Slash", "15/03/2023", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"Dash", "15-03-2023", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"German short year", "15.03.23", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"Whitespace", "  01.12.2022 ", time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), false},
		{"Empty", "", time.Time{}, true},
		{"Garbage", "irgendwann", time.Time{}, true},
		{"ISO not accepted", "2023-03-15", time.Time{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseDateString(tc.dateStr)

			if tc.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, result)
			}
		})
	}
}

func TestFindDates(t *testing.T) {
	line := "Wert 02.01.2023 Buchung 03.01.2023 Dauerauftrag"

	dates := FindDates(line)
	assert.Len(t, dates, 2)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), dates[1])

	first, ok := FirstDate(line)
	assert.True(t, ok)
	assert.Equal(t, 2, first.Day())

	last, ok := LastDate(line)
	assert.True(t, ok)
	assert.Equal(t, 3, last.Day())

	_, ok = FirstDate("keine Daten")
	assert.False(t, ok)
}

func TestFindDatesSkipsInvalid(t *testing.T) {
	dates := FindDates("99.99.2023 und 15.06.2023")
	assert.Len(t, dates, 1)
	assert.Equal(t, time.June, dates[0].Month())
}

func TestParseMonthToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{"Leading token", "03/23 Miete Rosenkranz", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"Single digit month", "4/23", time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"Not at start", "Miete 03/23", time.Time{}, false},
		{"Month out of range", "13/23", time.Time{}, false},
		{"No token", "Miete Januar", time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := ParseMonthToken(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, result)
			}
		})
	}
}

func TestToGermanFormat(t *testing.T) {
	assert.Equal(t, "15.03.2023", ToGermanFormat(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", ToGermanFormat(time.Time{}))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Januar", MonthName(time.January))
	assert.Equal(t, "März", MonthName(time.March))
	assert.Equal(t, "Dezember", MonthName(time.December))
}

func TestStartEndOfMonth(t *testing.T) {
	d := time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, StartOfMonth(d).Day())
	assert.Equal(t, 28, EndOfMonth(d).Day())
}
