package report

import (
	"github.com/shopspring/decimal"

	"nebenkosten/internal/common"
	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/models"
)

type paymentRow struct {
	Date   string          `csv:"Datum"`
	Amount decimal.Decimal `csv:"Betrag"`
}

type settlementRow struct {
	Name        string          `csv:"Kostenart"`
	Annual      decimal.Decimal `csv:"Jahresbetrag"`
	Monthly     decimal.Decimal `csv:"Monatsbetrag"`
	TenantShare decimal.Decimal `csv:"Mieteranteil"`
}

// WriteCostsCSV exports the extracted cost items to a CSV file.
func WriteCostsCSV(items []models.CostItem, path string) error {
	return common.WriteCSVFile(items, path)
}

// WritePaymentsCSV exports the rent payments to a CSV file with dates in
// German format.
func WritePaymentsCSV(ledger *models.PaymentLedger, path string) error {
	rows := make([]paymentRow, 0, len(ledger.Payments))
	for _, p := range ledger.Payments {
		rows = append(rows, paymentRow{
			Date:   dateutils.ToGermanFormat(p.Date),
			Amount: p.Amount,
		})
	}
	return common.WriteCSVFile(rows, path)
}

// WriteSettlementCSV exports the per-item settlement breakdown to a CSV file.
func WriteSettlementCSV(s *models.Settlement, path string) error {
	rows := make([]settlementRow, 0, len(s.Items))
	for _, item := range s.Items {
		rows = append(rows, settlementRow{
			Name:        item.Name,
			Annual:      item.Annual,
			Monthly:     item.Monthly,
			TenantShare: item.TenantShare,
		})
	}
	return common.WriteCSVFile(rows, path)
}
