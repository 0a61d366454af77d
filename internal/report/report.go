// Package report renders a computed settlement into the documents that go
// out to the tenant: the XLSX statement, a PDF rendition, CSV exports of the
// underlying ledgers, and the accompanying e-mail and messenger texts.
package report

import (
	"time"

	"github.com/sirupsen/logrus"

	"nebenkosten/internal/models"
)

var log = logrus.New()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return // Don't change the logger if nil is passed
	}
	log = logger
}

// Parties carries the letterhead data of a statement: who sends it, who
// receives it, and which unit it is about.
type Parties struct {
	LandlordName    string
	LandlordAddress string
	PropertyAddress string
	City            string
}

// periodBounds returns the settlement period, defaulting to the full
// calendar year when the caller left the bounds unset.
func periodBounds(s *models.Settlement) (time.Time, time.Time) {
	start, end := s.PeriodStart, s.PeriodEnd
	if start.IsZero() {
		start = time.Date(s.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if end.IsZero() {
		end = time.Date(s.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return start, end
}
