package printing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/notify"
	"github.com/dukapos/terminal/pkg/logger"
	"github.com/dukapos/terminal/pkg/printer"
)

type stubPrinter struct {
	err     error
	printed [][]byte
}

func (p *stubPrinter) Print(data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.printed = append(p.printed, data)
	return nil
}

func (p *stubPrinter) IsConnected() bool { return p.err == nil }

func newTestService(receipt *stubPrinter) (*Service, *notify.Hub) {
	registry := printer.NewRegistry()
	registry.Register(printer.NameReceipt, receipt)
	hub := notify.NewHub()
	svc := NewService(registry, entity.ReceiptHeader{StoreName: "Duka One"}, 32, hub, logger.Nop())
	return svc, hub
}

func testSale() *entity.Sale {
	return &entity.Sale{
		ID:            uuid.New(),
		ReceiptNumber: "R-0042",
		Items: []entity.SaleItem{
			{ProductID: uuid.New(), Name: "Bread", Quantity: 2, UnitPrice: decimal.RequireFromString("1.10")},
		},
		Subtotal:      decimal.RequireFromString("2.20"),
		Total:         decimal.RequireFromString("2.20"),
		PaymentMethod: "cash",
	}
}

func TestPrintReceiptWritesToReceiptPrinter(t *testing.T) {
	receipt := &stubPrinter{}
	svc, hub := newTestService(receipt)

	<-svc.PrintReceipt(testSale())

	require.Len(t, receipt.printed, 1)
	assert.Contains(t, string(receipt.printed[0]), "Duka One")
	assert.Contains(t, string(receipt.printed[0]), "R-0042")
	assert.Empty(t, hub.Peek())
}

func TestPrintFailureNotifiesWithoutBlocking(t *testing.T) {
	receipt := &stubPrinter{err: errors.New("paper jam")}
	svc, hub := newTestService(receipt)

	select {
	case <-svc.PrintReceipt(testSale()):
	case <-time.After(time.Second):
		t.Fatal("print job never finished")
	}

	notifications := hub.Peek()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelWarning, notifications[0].Level)
	assert.Contains(t, notifications[0].Message, "R-0042")
}

func TestKitchenTicketFallsBackToNullPrinter(t *testing.T) {
	// No kitchen printer registered; the registry hands back the null
	// printer and the job completes without a notification.
	svc, hub := newTestService(&stubPrinter{})

	<-svc.PrintKitchenTicket(&entity.KitchenTicket{
		TableNumber: "7",
		GuestCount:  2,
		Date:        "2026-08-30 12:00",
		Items:       []entity.ReceiptItem{{Name: "Pilau", Quantity: 1, Note: "no onions"}},
	})

	assert.Empty(t, hub.Peek())
}

func TestBuildReceiptNamesAndTotals(t *testing.T) {
	svc, _ := newTestService(&stubPrinter{})

	sale := testSale()
	sale.Items = append(sale.Items, entity.SaleItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.RequireFromString("3.00")})

	r := svc.BuildReceipt(sale)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "Bread", r.Items[0].Name)
	assert.True(t, r.Items[0].Total.Equal(decimal.RequireFromString("2.20")))
	// Items the server did not name get a placeholder
	assert.Equal(t, "Item", r.Items[1].Name)
}

func TestFormatKitchenTicketHasNoPrices(t *testing.T) {
	data := FormatKitchenTicket(&entity.KitchenTicket{
		TableNumber: "3",
		Date:        "2026-08-30 12:00",
		Items:       []entity.ReceiptItem{{Name: "Ugali", Quantity: 2}},
	}, 32)

	out := string(data)
	assert.Contains(t, out, "TABLE 3")
	assert.Contains(t, out, "2x Ugali")
	assert.NotContains(t, out, "TOTAL")
}
