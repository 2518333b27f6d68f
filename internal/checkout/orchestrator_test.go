package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/internal/notify"
	"github.com/dukapos/terminal/pkg/apperror"
	"github.com/dukapos/terminal/pkg/logger"
)

type fakeBackend struct {
	mu            sync.Mutex
	createCalls   int
	getCalls      int
	deliveryCalls int

	createErr   error
	getErr      error
	deliveryErr error

	created *entity.Sale
	block   chan struct{} // when set, CreateSale waits on it
}

func (f *fakeBackend) CreateSale(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	f.mu.Lock()
	f.createCalls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *sale
	created.ID = uuid.New()
	created.ReceiptNumber = "R-0001"
	f.mu.Lock()
	f.created = &created
	f.mu.Unlock()
	return &created, nil
}

func (f *fakeBackend) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	canonical := *f.created
	canonical.ReceiptNumber = "R-0001-SERVER"
	return &canonical, nil
}

func (f *fakeBackend) CreateDelivery(ctx context.Context, delivery *entity.Delivery) (*entity.Delivery, error) {
	f.mu.Lock()
	f.deliveryCalls++
	f.mu.Unlock()
	if f.deliveryErr != nil {
		return nil, f.deliveryErr
	}
	return delivery, nil
}

func (f *fakeBackend) calls() (create, get, delivery int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.getCalls, f.deliveryCalls
}

type fakePrinter struct {
	mu       sync.Mutex
	receipts []*entity.Sale
	tickets  []*entity.KitchenTicket
}

func (f *fakePrinter) PrintReceipt(sale *entity.Sale) <-chan struct{} {
	f.mu.Lock()
	f.receipts = append(f.receipts, sale)
	f.mu.Unlock()
	done := make(chan struct{})
	close(done)
	return done
}

func (f *fakePrinter) PrintKitchenTicket(ticket *entity.KitchenTicket) <-chan struct{} {
	f.mu.Lock()
	f.tickets = append(f.tickets, ticket)
	f.mu.Unlock()
	done := make(chan struct{})
	close(done)
	return done
}

type fakeShifts struct {
	shift *entity.Shift
}

func (f *fakeShifts) Current() *entity.Shift { return f.shift }

type fakeSession struct {
	mu       sync.Mutex
	register string
	snap     Snapshot
	resets   int
}

func (f *fakeSession) Register() string { return f.register }

func (f *fakeSession) CheckoutSnapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := f.snap
	snap.Lines = append([]entity.CartLine(nil), f.snap.Lines...)
	return snap
}

func (f *fakeSession) ResetAfterSale() {
	f.mu.Lock()
	f.resets++
	f.snap.Lines = nil
	f.mu.Unlock()
}

func openShift() *fakeShifts {
	return &fakeShifts{shift: &entity.Shift{ID: uuid.New(), Open: true}}
}

func sessionWithLines(lines ...entity.CartLine) *fakeSession {
	return &fakeSession{
		register: "till-1",
		snap: Snapshot{
			Register: "till-1",
			SaleType: enum.SaleTypeRetail,
			Lines:    lines,
		},
	}
}

func cartLine(price string, qty int64) entity.CartLine {
	return entity.CartLine{
		ID:          uuid.New(),
		ProductID:   uuid.New(),
		Source:      entity.LineSourceBase,
		DisplayName: "Item",
		UnitPrice:   decimal.RequireFromString(price),
		Quantity:    qty,
	}
}

func newTestOrchestrator(backend Backend, shifts ShiftSource, printer Printer) (*Orchestrator, *notify.Hub) {
	hub := notify.NewHub()
	o := NewOrchestrator(backend, printer, shifts, hub, uuid.New(), logger.Nop())
	return o, hub
}

func TestCheckoutHappyPath(t *testing.T) {
	backend := &fakeBackend{}
	printer := &fakePrinter{}
	session := sessionWithLines(cartLine("10.50", 2), cartLine("4.50", 1))
	o, _ := newTestOrchestrator(backend, openShift(), printer)

	result, err := o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
	require.NoError(t, err)

	// Canonical refetched copy is returned and printed
	assert.Equal(t, "R-0001-SERVER", result.Sale.ReceiptNumber)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 1, session.resets)
	require.Len(t, printer.receipts, 1)
	assert.Equal(t, "R-0001-SERVER", printer.receipts[0].ReceiptNumber)

	create, get, delivery := backend.calls()
	assert.Equal(t, 1, create)
	assert.Equal(t, 1, get)
	assert.Equal(t, 0, delivery)
}

func TestCheckoutPayloadTotals(t *testing.T) {
	snap := Snapshot{
		Register: "till-1",
		SaleType: enum.SaleTypeRetail,
		Lines:    []entity.CartLine{cartLine("10.50", 2), cartLine("4.50", 1)},
		Discount: &entity.SaleDiscount{Type: enum.DiscountTypePercentage, Value: decimal.NewFromInt(10)},
	}

	sale := BuildSalePayload(&snap, uuid.New(), uuid.New(), enum.SaleStatusCompleted, enum.PaymentCash, "")

	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("25.50")))
	assert.True(t, sale.DiscountAmount.Equal(decimal.RequireFromString("2.55")))
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("22.95")))
	assert.Len(t, sale.Items, 2)
}

func TestCheckoutPreconditionsMakeNoNetworkCalls(t *testing.T) {
	cases := []struct {
		name    string
		session *fakeSession
		shifts  ShiftSource
		message string
	}{
		{
			name:    "empty cart",
			session: sessionWithLines(),
			shifts:  openShift(),
			message: "Cart is empty",
		},
		{
			name:    "no shift",
			session: sessionWithLines(cartLine("1.00", 1)),
			shifts:  &fakeShifts{},
			message: "No shift is open on this register",
		},
		{
			name:    "closed shift",
			session: sessionWithLines(cartLine("1.00", 1)),
			shifts:  &fakeShifts{shift: &entity.Shift{ID: uuid.New(), Open: false}},
			message: "No shift is open on this register",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{}
			o, _ := newTestOrchestrator(backend, tc.shifts, &fakePrinter{})

			_, err := o.Checkout(context.Background(), tc.session, Request{PaymentMethod: enum.PaymentCash})
			require.Error(t, err)
			assert.Equal(t, tc.message, apperror.GetAppError(err).Message)
			assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))

			create, get, delivery := backend.calls()
			assert.Zero(t, create+get+delivery)
			assert.Zero(t, tc.session.resets)
		})
	}
}

// vanishingShifts reports an open shift once, then nothing, like a sync
// caching a closed shift between the precondition check and the payload.
type vanishingShifts struct {
	mu    sync.Mutex
	shift *entity.Shift
}

func (f *vanishingShifts) Current() *entity.Shift {
	f.mu.Lock()
	defer f.mu.Unlock()
	shift := f.shift
	f.shift = nil
	return shift
}

func TestShiftClosingMidCheckoutUsesValidatedShift(t *testing.T) {
	shiftID := uuid.New()
	shifts := &vanishingShifts{shift: &entity.Shift{ID: shiftID, Open: true}}
	backend := &fakeBackend{}
	session := sessionWithLines(cartLine("1.00", 1))
	o, _ := newTestOrchestrator(backend, shifts, &fakePrinter{})

	result, err := o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, shiftID, result.Sale.ShiftID)
	assert.Equal(t, shiftID, backend.created.ShiftID)
}

func TestShiftClosingMidKitchenOrderUsesValidatedShift(t *testing.T) {
	shiftID := uuid.New()
	shifts := &vanishingShifts{shift: &entity.Shift{ID: shiftID, Open: true}}
	backend := &fakeBackend{}
	session := sessionWithLines(cartLine("1.00", 1))
	session.snap.Table = &entity.Table{ID: uuid.New(), Number: "2"}
	o, _ := newTestOrchestrator(backend, shifts, &fakePrinter{})

	result, err := o.SendToKitchen(context.Background(), session, KitchenRequest{})
	require.NoError(t, err)
	assert.Equal(t, shiftID, result.Sale.ShiftID)
}

func TestNoOutletPrecondition(t *testing.T) {
	backend := &fakeBackend{}
	hub := notify.NewHub()
	o := NewOrchestrator(backend, &fakePrinter{}, openShift(), hub, uuid.Nil, logger.Nop())

	_, err := o.Checkout(context.Background(), sessionWithLines(cartLine("1.00", 1)), Request{PaymentMethod: enum.PaymentCash})
	require.Error(t, err)
	assert.Equal(t, "No outlet is selected", apperror.GetAppError(err).Message)
}

func TestSubmissionFailurePreservesCart(t *testing.T) {
	backend := &fakeBackend{createErr: apperror.NewSubmissionError(503, "backend unavailable", true)}
	session := sessionWithLines(cartLine("1.00", 1))
	o, _ := newTestOrchestrator(backend, openShift(), &fakePrinter{})

	_, err := o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
	require.Error(t, err)
	assert.True(t, apperror.GetAppError(err).Retryable)
	assert.Zero(t, session.resets)

	// A retry is a fresh submission, not a replay loop
	backend.createErr = nil
	_, err = o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
	require.NoError(t, err)
	create, _, _ := backend.calls()
	assert.Equal(t, 2, create)
}

func TestServerRejectionSurfacesVerbatim(t *testing.T) {
	backend := &fakeBackend{createErr: apperror.NewSubmissionError(422, "Shift was closed by supervisor", false)}
	session := sessionWithLines(cartLine("1.00", 1))
	o, _ := newTestOrchestrator(backend, openShift(), &fakePrinter{})

	_, err := o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, "Shift was closed by supervisor", appErr.Message)
	assert.False(t, appErr.Retryable)
}

func TestDeliveryFailureKeepsSale(t *testing.T) {
	backend := &fakeBackend{deliveryErr: apperror.NewPostSaleError("courier service down")}
	session := sessionWithLines(cartLine("1.00", 1))
	o, hub := newTestOrchestrator(backend, openShift(), &fakePrinter{})

	result, err := o.Checkout(context.Background(), session, Request{
		PaymentMethod: enum.PaymentCash,
		Delivery:      &DeliveryInfo{Recipient: "Ana", Phone: "555", Address: "1 Main St"},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Sale)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "delivery")
	assert.Equal(t, 1, session.resets)

	// Sale is never resubmitted because of the delivery failure
	create, _, delivery := backend.calls()
	assert.Equal(t, 1, create)
	assert.Equal(t, 1, delivery)

	notifications := hub.Peek()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelWarning, notifications[0].Level)
}

func TestRefetchFailureFallsBackToSubmittedCopy(t *testing.T) {
	backend := &fakeBackend{getErr: apperror.NewPostSaleError("timeout")}
	printer := &fakePrinter{}
	session := sessionWithLines(cartLine("2.00", 1))
	o, _ := newTestOrchestrator(backend, openShift(), printer)

	result, err := o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, "R-0001", result.Sale.ReceiptNumber)
	require.Len(t, result.Warnings, 1)
	require.Len(t, printer.receipts, 1)
	assert.Equal(t, "R-0001", printer.receipts[0].ReceiptNumber)
}

func TestConcurrentCheckoutRejected(t *testing.T) {
	backend := &fakeBackend{block: make(chan struct{})}
	session := sessionWithLines(cartLine("1.00", 1))
	o, _ := newTestOrchestrator(backend, openShift(), &fakePrinter{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
		firstDone <- err
	}()

	// Wait until the first submission is holding the register busy
	for {
		if c, _, _ := backend.calls(); c == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	_, err := o.Checkout(context.Background(), session, Request{PaymentMethod: enum.PaymentCash})
	require.Error(t, err)
	assert.Contains(t, apperror.GetAppError(err).Message, "already in progress")

	close(backend.block)
	require.NoError(t, <-firstDone)
}

func TestSnapshotImmuneToLaterEdits(t *testing.T) {
	line := cartLine("3.00", 1)
	snap := Snapshot{Register: "till-1", SaleType: enum.SaleTypeRetail, Lines: []entity.CartLine{line}}

	sale := BuildSalePayload(&snap, uuid.New(), uuid.New(), enum.SaleStatusCompleted, enum.PaymentCash, "")

	// Mutating the source line after payload build changes nothing
	snap.Lines[0].Quantity = 99
	assert.Equal(t, int64(1), sale.Items[0].Quantity)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("3.00")))
}

func TestSendToKitchenRequiresTable(t *testing.T) {
	backend := &fakeBackend{}
	session := sessionWithLines(cartLine("1.00", 1))
	o, _ := newTestOrchestrator(backend, openShift(), &fakePrinter{})

	_, err := o.SendToKitchen(context.Background(), session, KitchenRequest{})
	require.Error(t, err)
	assert.Equal(t, "Select a table before sending to the kitchen", apperror.GetAppError(err).Message)

	create, _, _ := backend.calls()
	assert.Zero(t, create)
}

func TestSendToKitchenPrintsTicket(t *testing.T) {
	backend := &fakeBackend{}
	printer := &fakePrinter{}
	session := sessionWithLines(cartLine("6.00", 2))
	session.snap.Table = &entity.Table{ID: uuid.New(), Number: "7"}
	session.snap.GuestCount = 3
	o, _ := newTestOrchestrator(backend, openShift(), printer)

	result, err := o.SendToKitchen(context.Background(), session, KitchenRequest{Notes: "rush"})
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusKitchen, result.Sale.Status)
	assert.Equal(t, 1, session.resets)

	require.Len(t, printer.tickets, 1)
	assert.Equal(t, "7", printer.tickets[0].TableNumber)
	assert.Equal(t, 3, printer.tickets[0].GuestCount)
	assert.Equal(t, "rush", printer.tickets[0].Notes)
	assert.Empty(t, printer.receipts)
}
