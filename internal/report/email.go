package report

import (
	"fmt"
	"strings"

	"nebenkosten/internal/dateutils"
	"nebenkosten/internal/models"
)

// EmailText builds the cover mail that accompanies the statement. The text
// branches on the sign of the balance: a Nachzahlung asks for a transfer
// within 30 days, a Guthaben asks for the tenant's bank details.
// customMessage, when non-empty, is inserted before the closing lines.
func EmailText(s *models.Settlement, p Parties, customMessage string) string {
	start, end := periodBounds(s)

	var b strings.Builder
	fmt.Fprintf(&b, "Betreff: Nebenkostenabrechnung %d - %s\n\n", s.Year, p.PropertyAddress)
	fmt.Fprintf(&b, "Sehr geehrte/r %s,\n\n", s.TenantName)
	fmt.Fprintf(&b, "anbei erhalten Sie die Nebenkostenabrechnung für den Zeitraum %s bis %s.\n\n",
		dateutils.ToGermanFormat(start), dateutils.ToGermanFormat(end))

	amount := s.Balance.Abs().StringFixed(2)
	if s.OwedByTenant() {
		fmt.Fprintf(&b, "Aus der Verrechnung Ihrer geleisteten Vorauszahlungen mit den tatsächlichen Kosten ergibt sich eine Nachzahlung in Höhe von %s EUR.\n\n", amount)
		b.WriteString("Bitte überweisen Sie den Betrag innerhalb von 30 Tagen auf das folgende Konto:\n\n")
		b.WriteString("[Kontoinhaber]\n[IBAN]\n[BIC]\n")
		fmt.Fprintf(&b, "Verwendungszweck: Nebenkostenabrechnung %d\n", s.Year)
	} else {
		fmt.Fprintf(&b, "Aus der Verrechnung Ihrer geleisteten Vorauszahlungen mit den tatsächlichen Kosten ergibt sich ein Guthaben in Höhe von %s EUR.\n\n", amount)
		b.WriteString("Bitte teilen Sie mir Ihre Bankverbindung mit, damit ich Ihnen den Betrag überweisen kann.\n")
	}

	if customMessage != "" {
		fmt.Fprintf(&b, "\n%s\n", customMessage)
	}

	b.WriteString("\nDie detaillierte Abrechnung sowie eine Kopie der Hausgeldabrechnung der Wohnungseigentümergemeinschaft finden Sie im Anhang.\n\n")
	b.WriteString("Bei Fragen stehe ich Ihnen gerne zur Verfügung.\n\n")
	b.WriteString("Mit freundlichen Grüßen,\n\n")
	b.WriteString(p.LandlordName)
	b.WriteString("\n")

	return b.String()
}

// WhatsAppText builds the short messenger note that announces the statement.
func WhatsAppText(s *models.Settlement, p Parties) string {
	amount := s.Balance.Abs().StringFixed(2)

	var b strings.Builder
	fmt.Fprintf(&b, "Hallo %s,\n\n", firstName(s.TenantName))
	if s.OwedByTenant() {
		fmt.Fprintf(&b, "die Nebenkostenabrechnung %d ist fertig. Es ergibt sich eine Nachzahlung von %s EUR.\n\n", s.Year, amount)
		b.WriteString("Ich schicke dir die Abrechnung gleich per E-Mail zu.\n\n")
	} else {
		fmt.Fprintf(&b, "gute Nachrichten! Die Nebenkostenabrechnung %d zeigt ein Guthaben von %s EUR.\n\n", s.Year, amount)
		b.WriteString("Details kommen per E-Mail.\n\n")
	}
	fmt.Fprintf(&b, "VG, %s", firstName(p.LandlordName))

	return b.String()
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return full
	}
	return fields[0]
}
