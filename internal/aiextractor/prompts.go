package aiextractor

import "fmt"

const wegSystemPrompt = "Du bist ein Experte für Nebenkostenabrechnungen und Wirtschaftspläne von Wohnungseigentümergemeinschaften."

const wegPrompt = `Make a copyable list of values and costs of the so called 'umlagefähigekosten' which are in the column of 'betrag'.

Return the results as JSON in this format:
{
    "umlagefaehige_kosten": [{"cost_name": amount}, ...],
    "gesamt_summe": total_amount
}
`

const bankSystemPrompt = "Du bist ein Experte für Bankkontoauszüge und Mietzahlungsanalyse."

func bankPrompt(tenantName string) string {
	tenantInfo := ""
	if tenantName != "" {
		tenantInfo = fmt.Sprintf(" vom Mieter %s", tenantName)
	}
	return fmt.Sprintf(`Mach eine Liste von wie viel Miete%s jeden Monat gezahlt wurde. Nimm nur die Miete, keine anderen Zahlungen. Am Ende summier wie viel Miete gezahlt wurde und wie viele Monate und schreib den Zeitraum von wann bis wann die Miete überwiesen wurde.

Achte drauf das wenn die Miete Anfang des Monats überwiesen wurde dann ist sie für den selben Monat. Wenn die Miete am Ende des Monats überwiesen wurde dann ist es für den nächsten Monat. Achte auf das Datum unter dem Betrag.

Return the results as JSON in this format:
{
  "payments": [
    {
      "month": "November 2024",
      "amount_eur": 1510,
      "payment_date": "05.11.2024"
    }
  ],
  "total_months": 5,
  "total_rent_paid_eur": 7510,
  "period": "08 2024 - 12 2024"
}
`, tenantInfo)
}

const contractSystemPrompt = "Du bist ein Experte für Mietverträge und Mietrecht."

const contractPrompt = `Lies den Mietvertrag und extrahiere ausschließlich den Namen des Mieters und die Grundmiete.

Der gesuchte Name steht im Abschnitt „Zwischen Mieter:" bzw. bei der Zeile „Vorname, Nachname". Verwende genau diesen Namen.

Gib **keinen anderen Namen** aus dem Dokument aus (z. B. nicht den Vermieter oder Personen aus anderen Textteilen). Es darf nur der tatsächliche Mietername ausgegeben werden.

Gib das Ergebnis ausschließlich in folgendem JSON-Format zurück, ohne zusätzlichen Text:

{
  "tenant_name": "Max Mustermann",
  "base_rent_eur": 1100
}
`
