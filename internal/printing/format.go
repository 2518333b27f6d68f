package printing

import (
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/pkg/printer"
)

func decimalFromInt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNumber).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.UnitName, item.Name, money(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money(item.UnitPrice))
		}
		if item.Note != "" {
			doc.NoteLine(item.Note)
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.Subtotal))
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+money(r.Discount))
	}
	if r.Tax.IsPositive() {
		doc.KeyValue("Tax:", money(r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.Total)).
		SetBold(false)

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your business!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatKitchenTicket converts a kitchen ticket into ESC/POS bytes. No
// prices, big quantities, per-line modifier notes.
func FormatKitchenTicket(t *entity.KitchenTicket, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		TextF("TABLE %s", t.TableNumber).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if t.GuestCount > 0 {
		doc.TextF("%d guests", t.GuestCount)
	}
	doc.Text(t.Date)

	doc.SetAlign(printer.AlignLeft).
		Separator('=')

	doc.SetFontSize(printer.FontTall)
	for _, item := range t.Items {
		if item.UnitName != "" {
			doc.TextF("%d %s %s", item.Quantity, item.UnitName, item.Name)
		} else {
			doc.TextF("%dx %s", item.Quantity, item.Name)
		}
		if item.Note != "" {
			doc.NoteLine(item.Note)
		}
	}
	doc.SetFontSize(printer.FontNormal)

	if t.Notes != "" {
		doc.Separator('-').
			Text(t.Notes)
	}

	doc.Separator('=').
		FeedLines(3).
		Cut()

	return doc.Bytes()
}
