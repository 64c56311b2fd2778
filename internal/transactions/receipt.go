package transactions

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatReceipt renders a plain-text receipt for one transaction, with
// amounts formatted in the transaction's currency. Unknown currency codes
// fall back to IDR, the chain's home currency.
func FormatReceipt(tx Transaction) string {
	unit, err := currency.ParseISO(tx.Currency)
	if err != nil {
		unit = currency.IDR
	}
	printer := message.NewPrinter(language.Indonesian)

	var b strings.Builder
	b.WriteString("STRUK " + tx.ID + "\n")
	for _, line := range tx.Lines {
		amount := unit.Amount(float64(line.PriceCents*int64(line.Qty)) / 100)
		printer.Fprintf(&b, "%dx %s  %v\n", line.Qty, line.Name, currency.Symbol(amount))
	}
	total := unit.Amount(float64(tx.TotalCents) / 100)
	printer.Fprintf(&b, "TOTAL  %v\n", currency.Symbol(total))
	return b.String()
}
