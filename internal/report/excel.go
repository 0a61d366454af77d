package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"nebenkosten/internal/currencyutils"
	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/models"
)

// BuildSettlementXLSX renders the annual statement as a spreadsheet: the
// letterhead, the cost table with the tenant shares, the prepayment
// deduction and the highlighted closing balance. It returns the workbook
// as a byte slice.
func BuildSettlementXLSX(s *models.Settlement, p Parties) ([]byte, error) {
	f := excelize.NewFile()
	sheet := fmt.Sprintf("Abrechnung %d", s.Year)
	_ = f.SetSheetName("Sheet1", sheet)
	_ = f.SetColWidth(sheet, "A", "A", 40)
	_ = f.SetColWidth(sheet, "B", "B", 15)

	var styleErr error
	style := func(st *excelize.Style) int {
		id, err := f.NewStyle(st)
		if err != nil && styleErr == nil {
			styleErr = err
		}
		return id
	}

	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	right := &excelize.Alignment{Horizontal: "right", Vertical: "center"}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	normal := style(&excelize.Style{Font: &excelize.Font{Family: "Arial", Size: 10}})
	small := style(&excelize.Style{Font: &excelize.Font{Family: "Arial", Size: 9}})
	subheader := style(&excelize.Style{Font: &excelize.Font{Family: "Arial", Size: 11, Bold: true}})
	title := style(&excelize.Style{Font: &excelize.Font{Family: "Arial", Size: 16, Bold: true}})
	tableHead := style(&excelize.Style{
		Font:   &excelize.Font{Family: "Arial", Size: 10, Bold: true},
		Fill:   fill("F0F0F0"),
		Border: thin,
	})
	tableHeadRight := style(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10, Bold: true},
		Fill:      fill("F0F0F0"),
		Border:    thin,
		Alignment: right,
	})
	cell := style(&excelize.Style{
		Font:   &excelize.Font{Family: "Arial", Size: 10},
		Border: thin,
	})
	cellRight := style(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Border:    thin,
		Alignment: right,
	})
	total := style(&excelize.Style{
		Font:   &excelize.Font{Family: "Arial", Size: 10, Bold: true},
		Fill:   fill("D9E1F2"),
		Border: thin,
	})
	totalRight := style(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 10, Bold: true},
		Fill:      fill("D9E1F2"),
		Border:    thin,
		Alignment: right,
	})

	balanceColor := "C6EFCE" // Guthaben
	if s.OwedByTenant() {
		balanceColor = "FFEB9C" // Nachzahlung
	}
	balance := style(&excelize.Style{
		Font:   &excelize.Font{Family: "Arial", Size: 12, Bold: true},
		Fill:   fill(balanceColor),
		Border: thin,
	})
	balanceRight := style(&excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Size: 12, Bold: true},
		Fill:      fill(balanceColor),
		Border:    thin,
		Alignment: right,
	})

	if styleErr != nil {
		return nil, fmt.Errorf("building cell styles: %w", styleErr)
	}

	set := func(col string, row int, value interface{}, styleID int) {
		ref := fmt.Sprintf("%s%d", col, row)
		_ = f.SetCellValue(sheet, ref, value)
		_ = f.SetCellStyle(sheet, ref, ref, styleID)
	}

	start, end := periodBounds(s)
	period := fmt.Sprintf("%s - %s", dateutils.ToGermanFormat(start), dateutils.ToGermanFormat(end))

	row := 1
	set("A", row, p.LandlordName, normal)
	row++
	set("A", row, p.LandlordAddress, normal)
	row += 2

	set("A", row, "Frau/Herr", normal)
	row++
	set("A", row, s.TenantName, normal)
	row++
	set("A", row, p.PropertyAddress, normal)
	row += 3

	set("A", row, fmt.Sprintf("%s, %s", p.City, dateutils.ToGermanFormat(time.Now())), normal)
	row += 2

	set("A", row, fmt.Sprintf("Betriebskostenabrechnung %d", s.Year), title)
	row++
	set("A", row, fmt.Sprintf("Heizkostenabrechnung %d", s.Year), title)
	row += 2

	set("A", row, fmt.Sprintf("Objekt: Mieteinheit %s", p.PropertyAddress), normal)
	row += 2

	set("A", row, "Sehr geehrte/r Frau/Herr,", normal)
	row += 2
	for _, line := range []string{
		"gemäß § 3 des Mietvertrages sind die Heiz- und Warmwasserkosten sowie die Betriebskosten Ihrer",
		"Einheit in der Miete nicht enthalten, sondern werden separat abgerechnet. Ich erlaube mir daher, für",
		fmt.Sprintf("den Zeitraum %s die Heiz- und Warmwasserkosten sowie die Betriebskosten", period),
		"nachfolgend abzurechnen.",
	} {
		set("A", row, line, normal)
		row++
	}
	row += 2

	set("A", row, "Betriebs-/Heizkostenabrechnung", subheader)
	row++
	set("A", row, fmt.Sprintf("Abrechnungszeitraum WEG %s", period), normal)
	row += 2

	set("A", row, "Kostenart", tableHead)
	set("B", row, "Betrag", tableHeadRight)
	row++
	for _, item := range s.Items {
		set("A", row, item.Name, cell)
		set("B", row, currencyutils.FormatEUR(item.TenantShare), cellRight)
		row++
	}

	set("A", row, "Gesamtkosten", total)
	set("B", row, currencyutils.FormatEUR(s.TotalCosts), totalRight)
	row += 2

	set("A", row, "abzgl. Ist-Vorauszahlungen", normal)
	row++
	set("A", row, fmt.Sprintf("%d x Vorauszahlungen", s.PaymentMonths), cell)
	set("B", row, "-"+currencyutils.FormatEUR(s.Prepayments), cellRight)
	row += 2

	label := "Guthaben"
	if s.OwedByTenant() {
		label = "Nachzahlung"
	}
	set("A", row, label, balance)
	set("B", row, currencyutils.FormatEUR(s.Balance.Abs()), balanceRight)
	row += 3

	for _, line := range []string{
		"Die Wohn-/Hausgeldabrechnung der Wohnungseigentümergemeinschaft ist in",
		"der Anlage in Kopie beigefügt. Die Belege dazu können nach vorheriger Termin-",
		"abstimmung bei der Hausverwaltung eingesehen werden.",
	} {
		set("A", row, line, small)
		row++
	}
	row += 2

	set("A", row, "Mit freundlichen Grüßen,", normal)
	row += 2
	set("A", row, p.LandlordName, normal)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	log.WithFields(logrus.Fields{
		"tenant": s.TenantName,
		"year":   s.Year,
		"items":  len(s.Items),
	}).Info("Rendered settlement XLSX")

	return buf.Bytes(), nil
}
