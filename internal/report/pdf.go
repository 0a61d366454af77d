package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/models"
)

// BuildSettlementPDF renders the annual statement as a PDF letter with the
// same structure as the spreadsheet: letterhead, cost table, prepayment
// deduction and closing balance.
func BuildSettlementPDF(s *models.Settlement, p Parties) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; route umlauts and the euro sign through the
	// built-in translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	line := func(h float64, text string) {
		pdf.Cell(0, h, tr(text))
		pdf.Ln(h)
	}

	pdf.SetFont("Arial", "", 10)
	line(5, p.LandlordName)
	line(5, p.LandlordAddress)
	pdf.Ln(5)
	line(5, "Frau/Herr")
	line(5, s.TenantName)
	line(5, p.PropertyAddress)
	pdf.Ln(5)
	line(5, fmt.Sprintf("%s, %s", p.City, dateutils.ToGermanFormat(time.Now())))
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 14)
	line(7, fmt.Sprintf("Betriebskostenabrechnung %d", s.Year))
	line(7, fmt.Sprintf("Heizkostenabrechnung %d", s.Year))
	pdf.Ln(3)

	start, end := periodBounds(s)
	period := fmt.Sprintf("%s - %s", dateutils.ToGermanFormat(start), dateutils.ToGermanFormat(end))

	pdf.SetFont("Arial", "", 10)
	line(5, fmt.Sprintf("Objekt: Mieteinheit %s", p.PropertyAddress))
	pdf.Ln(3)
	line(5, "Sehr geehrte/r Frau/Herr,")
	pdf.Ln(2)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf(
		"gemäß § 3 des Mietvertrages sind die Heiz- und Warmwasserkosten sowie die Betriebskosten Ihrer "+
			"Einheit in der Miete nicht enthalten, sondern werden separat abgerechnet. Ich erlaube mir daher, "+
			"für den Zeitraum %s die Heiz- und Warmwasserkosten sowie die Betriebskosten nachfolgend abzurechnen.",
		period)), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	line(6, "Betriebs-/Heizkostenabrechnung")
	pdf.SetFont("Arial", "", 10)
	line(5, fmt.Sprintf("Abrechnungszeitraum WEG %s", period))
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(110, 6, tr("Kostenart"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, tr("Betrag"), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, item := range s.Items {
		pdf.CellFormat(110, 6, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(currencyutils.FormatEUR(item.TenantShare)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(217, 225, 242)
	pdf.CellFormat(110, 6, tr("Gesamtkosten"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 6, tr(currencyutils.FormatEUR(s.TotalCosts)), "1", 0, "R", true, 0, "")
	pdf.Ln(-1)
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	line(5, "abzgl. Ist-Vorauszahlungen")
	pdf.CellFormat(110, 6, tr(fmt.Sprintf("%d x Vorauszahlungen", s.PaymentMonths)), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, tr("-"+currencyutils.FormatEUR(s.Prepayments)), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.Ln(4)

	label := "Guthaben"
	if s.OwedByTenant() {
		label = "Nachzahlung"
		pdf.SetFillColor(255, 235, 156)
	} else {
		pdf.SetFillColor(198, 239, 206)
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(110, 8, tr(label), "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, tr(currencyutils.FormatEUR(s.Balance.Abs())), "1", 0, "R", true, 0, "")
	pdf.Ln(-1)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 4, tr(
		"Die Wohn-/Hausgeldabrechnung der Wohnungseigentümergemeinschaft ist in der Anlage in Kopie "+
			"beigefügt. Die Belege dazu können nach vorheriger Terminabstimmung bei der Hausverwaltung "+
			"eingesehen werden."), "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	line(5, "Mit freundlichen Grüßen,")
	pdf.Ln(3)
	line(5, p.LandlordName)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}

	log.WithFields(logrus.Fields{
		"tenant": s.TenantName,
		"year":   s.Year,
		"items":  len(s.Items),
	}).Info("Rendered settlement PDF")

	return buf.Bytes(), nil
}
