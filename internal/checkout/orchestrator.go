// Package checkout drives the submission protocol: validate, submit
// exactly one sale, optionally create a delivery, re-fetch the canonical
// sale, and fire a non-blocking receipt print.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/internal/notify"
	"github.com/dukapos/terminal/internal/pricing"
	"github.com/dukapos/terminal/pkg/apperror"
	"github.com/dukapos/terminal/pkg/logger"
)

// Backend is the slice of the cloud API the orchestrator needs.
type Backend interface {
	CreateSale(ctx context.Context, sale *entity.Sale) (*entity.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	CreateDelivery(ctx context.Context, delivery *entity.Delivery) (*entity.Delivery, error)
}

// Printer is the slice of the printing service the orchestrator needs.
// Print jobs are fire-and-forget; the returned channel is for tests only.
type Printer interface {
	PrintReceipt(sale *entity.Sale) <-chan struct{}
	PrintKitchenTicket(ticket *entity.KitchenTicket) <-chan struct{}
}

// ShiftSource reports the currently open shift without touching the
// network, so precondition checks stay local.
type ShiftSource interface {
	Current() *entity.Shift
}

// Snapshot is the immutable view of a session taken at submission time.
// Cart edits made after the snapshot cannot affect the in-flight request.
type Snapshot struct {
	Register   string
	SaleType   enum.SaleType
	Lines      []entity.CartLine
	Discount   *entity.SaleDiscount
	CustomerID *uuid.UUID
	Table      *entity.Table
	GuestCount int
}

// Session is what the orchestrator needs from a register session.
type Session interface {
	Register() string
	CheckoutSnapshot() Snapshot
	ResetAfterSale()
}

// DeliveryInfo is the optional delivery collected during payment.
type DeliveryInfo struct {
	Recipient string
	Phone     string
	Address   string
	Notes     string
}

// Request is one checkout invocation.
type Request struct {
	PaymentMethod enum.PaymentMethod
	Notes         string
	Delivery      *DeliveryInfo
}

// KitchenRequest is one send-to-kitchen invocation.
type KitchenRequest struct {
	Notes string
}

// Result is what a successful checkout returns. Warnings carry the
// post-submission failures that did not invalidate the sale.
type Result struct {
	Sale     *entity.Sale
	Warnings []string
}

// Orchestrator runs the checkout protocol for every register.
type Orchestrator struct {
	backend  Backend
	printing Printer
	shifts   ShiftSource
	hub      *notify.Hub
	log      *logger.Logger
	outletID uuid.UUID

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewOrchestrator creates the orchestrator for one outlet.
func NewOrchestrator(backend Backend, printing Printer, shifts ShiftSource, hub *notify.Hub, outletID uuid.UUID, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		backend:  backend,
		printing: printing,
		shifts:   shifts,
		hub:      hub,
		log:      log.WithComponent("checkout"),
		outletID: outletID,
		inFlight: make(map[string]bool),
	}
}

// begin marks the register busy. Second concurrent checkout on the same
// register is refused: there is no cancellation of an in-flight
// submission, and a duplicate would risk a double sale.
func (o *Orchestrator) begin(register string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight[register] {
		return false
	}
	o.inFlight[register] = true
	return true
}

func (o *Orchestrator) end(register string) {
	o.mu.Lock()
	delete(o.inFlight, register)
	o.mu.Unlock()
}

// validate runs the local precondition checks and returns the open shift
// it checked. The caller builds the payload from that same shift; the
// source is read exactly once, so a shift closing mid-checkout cannot
// slip a nil between the check and the use. Each failure carries its own
// message and no network call has happened yet.
func (o *Orchestrator) validate(snap *Snapshot, needTable bool) (*entity.Shift, error) {
	if len(snap.Lines) == 0 {
		return nil, apperror.NewPreconditionError("Cart is empty")
	}
	if o.outletID == uuid.Nil {
		return nil, apperror.NewPreconditionError("No outlet is selected")
	}
	shift := o.shifts.Current()
	if shift == nil || !shift.Open {
		return nil, apperror.NewPreconditionError("No shift is open on this register")
	}
	if needTable && snap.Table == nil {
		return nil, apperror.NewPreconditionError("Select a table before sending to the kitchen")
	}
	return shift, nil
}

// Checkout submits the sale for the session's current cart. On success the
// session is reset; on submission failure the cart and discount are left
// untouched so the cashier can retry.
func (o *Orchestrator) Checkout(ctx context.Context, session Session, req Request) (*Result, error) {
	register := session.Register()
	if !o.begin(register) {
		return nil, apperror.NewPreconditionError("A checkout is already in progress on this register")
	}
	defer o.end(register)

	if !req.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	snap := session.CheckoutSnapshot()
	shift, err := o.validate(&snap, false)
	if err != nil {
		return nil, err
	}

	payload := BuildSalePayload(&snap, o.outletID, shift.ID, enum.SaleStatusCompleted, req.PaymentMethod, req.Notes)

	created, err := o.backend.CreateSale(ctx, payload)
	if err != nil {
		o.log.Warnw("sale submission failed", "register", register, "error", err)
		return nil, err
	}
	o.log.Infow("sale created", "register", register, "sale_id", created.ID, "total", created.Total)

	result := &Result{Sale: created}

	// Delivery is a separate, best-effort follow-up. The sale is the
	// durable fact; a delivery failure is reported, never rolled back.
	if req.Delivery != nil {
		_, err := o.backend.CreateDelivery(ctx, &entity.Delivery{
			SaleID:    created.ID,
			Recipient: req.Delivery.Recipient,
			Phone:     req.Delivery.Phone,
			Address:   req.Delivery.Address,
			Notes:     req.Delivery.Notes,
		})
		if err != nil {
			msg := "Sale recorded, but the delivery could not be created: " + err.Error()
			o.hub.Publish(notify.LevelWarning, "delivery", msg)
			result.Warnings = append(result.Warnings, msg)
		}
	}

	// Re-read the canonical sale so the receipt shows server-computed
	// fields (receipt number, resolved item names). A failed refetch
	// falls back to the submitted copy.
	canonical, err := o.backend.GetSale(ctx, created.ID)
	if err != nil {
		msg := "Sale recorded, but the receipt copy could not be refreshed"
		o.hub.Publish(notify.LevelWarning, "checkout", msg)
		result.Warnings = append(result.Warnings, msg)
		canonical = created
	}
	result.Sale = canonical

	// Fire and forget. Clearing the cart never waits on the printer.
	o.printing.PrintReceipt(canonical)

	session.ResetAfterSale()
	return result, nil
}

// SendToKitchen submits a kitchen-tracked sale for the selected table and
// clears the cart without collecting payment.
func (o *Orchestrator) SendToKitchen(ctx context.Context, session Session, req KitchenRequest) (*Result, error) {
	register := session.Register()
	if !o.begin(register) {
		return nil, apperror.NewPreconditionError("A checkout is already in progress on this register")
	}
	defer o.end(register)

	snap := session.CheckoutSnapshot()
	shift, err := o.validate(&snap, true)
	if err != nil {
		return nil, err
	}

	payload := BuildSalePayload(&snap, o.outletID, shift.ID, enum.SaleStatusKitchen, "", req.Notes)

	created, err := o.backend.CreateSale(ctx, payload)
	if err != nil {
		o.log.Warnw("kitchen order submission failed", "register", register, "error", err)
		return nil, err
	}
	o.log.Infow("kitchen order created", "register", register, "sale_id", created.ID, "table", snap.Table.Number)

	o.printing.PrintKitchenTicket(buildKitchenTicket(&snap, req.Notes))

	session.ResetAfterSale()
	return &Result{Sale: created}, nil
}

// BuildSalePayload turns a snapshot into the backend wire shape. Monetary
// fields are rounded to 2 decimal places here and nowhere earlier, so line
// arithmetic never compounds rounding error.
func BuildSalePayload(snap *Snapshot, outletID, shiftID uuid.UUID, status enum.SaleStatus, payment enum.PaymentMethod, notes string) *entity.Sale {
	items := make([]entity.SaleItem, 0, len(snap.Lines))
	subtotal := decimal.Zero
	for i := range snap.Lines {
		line := &snap.Lines[i]
		subtotal = subtotal.Add(line.Total())

		item := entity.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.Round(2),
			Note:      line.Note,
		}
		if line.Variation != nil {
			id := line.Variation.ID
			item.VariationID = &id
		}
		if line.Unit != nil {
			id := line.Unit.ID
			item.UnitID = &id
		}
		items = append(items, item)
	}

	discount := decimal.Zero
	var discountType enum.DiscountType
	var discountReason string
	if snap.Discount != nil {
		discount = pricing.ComputeDiscountAmount(subtotal, *snap.Discount).Round(2)
		discountType = snap.Discount.Type
		discountReason = snap.Discount.Reason
	}

	tax := decimal.Zero
	roundedSubtotal := subtotal.Round(2)
	total := roundedSubtotal.Sub(discount).Add(tax)

	sale := &entity.Sale{
		OutletID:       outletID,
		ShiftID:        shiftID,
		Status:         status,
		SaleType:       snap.SaleType,
		CustomerID:     snap.CustomerID,
		Items:          items,
		Subtotal:       roundedSubtotal,
		Tax:            tax,
		DiscountAmount: discount,
		DiscountType:   discountType,
		DiscountReason: discountReason,
		Total:          total,
		PaymentMethod:  payment,
		Notes:          notes,
	}
	if snap.Table != nil {
		id := snap.Table.ID
		sale.TableID = &id
		sale.GuestCount = snap.GuestCount
	}
	return sale
}

func buildKitchenTicket(snap *Snapshot, notes string) *entity.KitchenTicket {
	ticket := &entity.KitchenTicket{
		TableNumber: snap.Table.Number,
		GuestCount:  snap.GuestCount,
		Date:        time.Now().Format("2006-01-02 15:04"),
		Notes:       notes,
	}
	for i := range snap.Lines {
		line := &snap.Lines[i]
		item := entity.ReceiptItem{
			Name:     line.DisplayName,
			Quantity: line.Quantity,
			Note:     line.Note,
		}
		if line.Unit != nil {
			item.UnitName = line.Unit.Name
		}
		ticket.Items = append(ticket.Items, item)
	}
	return ticket
}
