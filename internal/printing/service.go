// Package printing formats receipts and kitchen tickets and runs print
// jobs in the background. A failed print never blocks or undoes anything;
// it is reported through the notification hub and can be retried on its
// own.
package printing

import (
	"time"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/notify"
	"github.com/dukapos/terminal/pkg/logger"
	"github.com/dukapos/terminal/pkg/printer"
)

// Service owns receipt formatting and the printer registry.
type Service struct {
	registry *printer.Registry
	header   entity.ReceiptHeader
	width    int
	hub      *notify.Hub
	log      *logger.Logger
}

// NewService creates the printing service.
func NewService(registry *printer.Registry, header entity.ReceiptHeader, paperWidth int, hub *notify.Hub, log *logger.Logger) *Service {
	if paperWidth <= 0 {
		paperWidth = 32
	}
	return &Service{
		registry: registry,
		header:   header,
		width:    paperWidth,
		hub:      hub,
		log:      log.WithComponent("printing"),
	}
}

// BuildReceipt composes a printable receipt from the canonical sale. The
// sale passed here should be the server-fetched copy so the receipt number
// and resolved item names come from the backend, not the terminal's
// optimistic payload.
func (s *Service) BuildReceipt(sale *entity.Sale) *entity.Receipt {
	r := &entity.Receipt{
		Header:        s.header,
		ReceiptNumber: sale.ReceiptNumber,
		Date:          receiptDate(sale.CreatedAt),
		PaymentMethod: string(sale.PaymentMethod),
		Subtotal:      sale.Subtotal,
		Discount:      sale.DiscountAmount,
		Tax:           sale.Tax,
		Total:         sale.Total,
	}
	for _, item := range sale.Items {
		name := item.Name
		if name == "" {
			name = "Item"
		}
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.UnitPrice.Mul(decimalFromInt(item.Quantity)),
			Note:      item.Note,
		})
	}
	return r
}

// PrintReceipt formats and prints asynchronously. The returned channel
// closes when the job finishes; the orchestrator never waits on it, but
// tests do.
func (s *Service) PrintReceipt(sale *entity.Sale) <-chan struct{} {
	receipt := s.BuildReceipt(sale)
	data := FormatReceipt(receipt, s.width)
	return s.submit(printer.NameReceipt, data, "Receipt "+receipt.ReceiptNumber)
}

// PrintKitchenTicket formats and prints a kitchen slip asynchronously.
func (s *Service) PrintKitchenTicket(ticket *entity.KitchenTicket) <-chan struct{} {
	data := FormatKitchenTicket(ticket, s.width)
	return s.submit(printer.NameKitchen, data, "Kitchen ticket for table "+ticket.TableNumber)
}

// TestPrint sends a short test page to the receipt printer, synchronously.
func (s *Service) TestPrint() error {
	doc := printer.NewDocument(s.width)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("PRINTER TEST").
		SetBold(false).
		Text(s.header.StoreName).
		Text(time.Now().Format("2006-01-02 15:04")).
		FeedLines(3).
		PartialCut()
	return s.registry.Get(printer.NameReceipt).Print(doc.Bytes())
}

// Status reports whether each registered printer can be reached.
func (s *Service) Status() map[string]bool {
	out := make(map[string]bool)
	for _, name := range s.registry.Names() {
		out[name] = s.registry.Get(name).IsConnected()
	}
	return out
}

func (s *Service) submit(printerName string, data []byte, label string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.registry.Get(printerName).Print(data); err != nil {
			s.log.Warnw("print job failed", "printer", printerName, "label", label, "error", err)
			s.hub.Publish(notify.LevelWarning, "printer", label+" did not print: "+err.Error())
			return
		}
		s.log.Debugw("print job finished", "printer", printerName, "label", label)
	}()
	return done
}

func receiptDate(createdAt string) string {
	if createdAt == "" {
		return time.Now().Format("2006-01-02 15:04")
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return t.Local().Format("2006-01-02 15:04")
	}
	return createdAt
}
