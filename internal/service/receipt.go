package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

const ticketSeparator = "------------------------------------------"

// ticketText builds the receipt block handed to the renderer. Lines wrapped
// in "**" render bold.
func ticketText(o domain.PaymentOutcome, toPay int, when time.Time, collector string) string {
	rec := o.Record

	var b strings.Builder
	b.WriteString("**Comprobante de Pago**\n\n\n")
	fmt.Fprintf(&b, "**Fecha:** %s\n\n", when.Format("02/01/2006 - 15:04:05"))
	fmt.Fprintf(&b, "**Cliente:** %s %s\n", rec.FirstName, rec.LastName)
	fmt.Fprintf(&b, "**Comercio:** %s\n", rec.Merchant)
	fmt.Fprintf(&b, "**Dirección:** %s\n", rec.Address)
	b.WriteString(ticketSeparator + "\n\n")
	fmt.Fprintf(&b, "**IMPORTE POR CUOTA: $%s**\n", displayAmount(rec.InstallmentAmount))
	fmt.Fprintf(&b, "**CUOTAS PAGADAS HOY: %d**\n", toPay)
	fmt.Fprintf(&b, "**ARTÍCULO: %s (Código: %s)**\n", rec.Item, rec.ItemCode)
	fmt.Fprintf(&b, "**PAGO DE CUOTAS NRO: %s**\n", o.RangeLabel)
	fmt.Fprintf(&b, "**SALDO PAGADO TOTAL: $%s de $%s**\n", displayAmount(o.PaidToDate), displayAmount(rec.TotalCredit))
	fmt.Fprintf(&b, "**REMITO Nro: %s**\n", o.ReceiptNumber)
	b.WriteString(ticketSeparator + "\n\n")
	fmt.Fprintf(&b, "**TOTAL PAGADO HOY: $%s**\n", displayAmount(o.AmountDueNow))
	fmt.Fprintf(&b, "**COBRADOR: %s**\n\n", collector)
	b.WriteString("Exija y conserve este comprobante de pago.\n")
	b.WriteString("**********************************\n\n")
	b.WriteString("**¡ATENCIÓN!**\n")
	b.WriteString("- Los pagos se realizan de Lunes a Sábado,\n  y feriados inclusive.\n")
	b.WriteString("**********************************")
	return b.String()
}

// displayAmount formats a money value for the printed receipt with grouped
// thousands, e.g. 1234.5 -> "1,234.50".
func displayAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
