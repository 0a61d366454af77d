// Package dateutils provides date parsing for German documents: full dates in
// the formats rental contracts use, bare DD.MM.YYYY tokens in statement lines,
// and the MM/YY month tokens some bank exports print instead of a date.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date format constants used throughout the application
const (
	DateLayoutGerman      = "02.01.2006"
	DateLayoutSlash       = "02/01/2006"
	DateLayoutDash        = "02-01-2006"
	DateLayoutGermanShort = "02.01.06"
	DateLayoutISO         = "2006-01-02"
)

// ContractDateFormats is the ordered list of formats tried when parsing a
// date field from a rental contract. Order matters: the two-digit-year form
// must come last or it would shadow the full form.
var ContractDateFormats = []string{
	DateLayoutGerman,
	DateLayoutSlash,
	DateLayoutDash,
	DateLayoutGermanShort,
}

var (
	germanDateRe = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)
	monthTokenRe = regexp.MustCompile(`^(\d{1,2})/(\d{2})\b`)
)

// ParseDateString attempts to parse a German date string using the contract
// format cascade. Returns an error when no format matches.
func ParseDateString(dateStr string) (time.Time, error) {
	cleanDate := CleanDateString(dateStr)
	if cleanDate == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range ContractDateFormats {
		if t, err := time.Parse(format, cleanDate); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)

	re := regexp.MustCompile(`\s+`)
	dateStr = re.ReplaceAllString(dateStr, " ")

	return dateStr
}

// FindDates returns all DD.MM.YYYY tokens in s, parsed, in order of
// appearance. Tokens that fail to parse (e.g. 99.99.2023) are skipped.
func FindDates(s string) []time.Time {
	var dates []time.Time
	for _, match := range germanDateRe.FindAllString(s, -1) {
		if t, err := time.Parse(DateLayoutGerman, match); err == nil {
			dates = append(dates, t)
		}
	}
	return dates
}

// FirstDate returns the first DD.MM.YYYY date in s.
func FirstDate(s string) (time.Time, bool) {
	dates := FindDates(s)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[0], true
}

// LastDate returns the rightmost DD.MM.YYYY date in s. Statement lines list
// the posting date after the value date, so the rightmost one is the posting
// date.
func LastDate(s string) (time.Time, bool) {
	dates := FindDates(s)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[len(dates)-1], true
}

// ParseMonthToken parses a leading MM/YY token into the first day of that
// month. The two-digit year is taken as 20YY.
func ParseMonthToken(s string) (time.Time, bool) {
	match := monthTokenRe.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return time.Time{}, false
	}

	month, err := strconv.Atoi(match[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(match[2])
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
}

// ToGermanFormat formats a time.Time as DD.MM.YYYY
func ToGermanFormat(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutGerman)
}

// MonthName returns the German name of a month, for report and email text.
func MonthName(m time.Month) string {
	names := [...]string{
		"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember",
	}
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}
