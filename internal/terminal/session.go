// Package terminal composes the per-register checkout session: cart,
// discount, selection state, sale type, and selected customer/table.
package terminal

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/cart"
	"github.com/dukapos/terminal/internal/catalog"
	"github.com/dukapos/terminal/internal/checkout"
	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/internal/pricing"
	"github.com/dukapos/terminal/internal/selection"
	"github.com/dukapos/terminal/pkg/apperror"
)

// ErrConfirmSwitch is returned when switching sale type with a non-empty
// cart and no confirmation. The UI prompts and retries with confirm=true;
// on confirm the cart and selected customer are cleared together.
var ErrConfirmSwitch = apperror.NewPreconditionError("Switching the sale type clears the cart and selected customer; confirm to proceed")

// Session is the state of one open sale on one register. All methods are
// safe for concurrent use; the session serializes access to its cart,
// discount, and selection state.
type Session struct {
	register string
	index    *catalog.Index

	mu         sync.Mutex
	cart       *cart.Aggregate
	discounts  *pricing.DiscountEngine
	selection  *selection.Resolver
	saleType   enum.SaleType
	customerID *uuid.UUID
	table      *entity.Table
	guestCount int
}

// NewSession creates an idle retail session for the register.
func NewSession(register string, index *catalog.Index) *Session {
	return &Session{
		register:  register,
		index:     index,
		cart:      cart.New(),
		discounts: pricing.NewDiscountEngine(),
		selection: selection.New(index),
		saleType:  enum.SaleTypeRetail,
	}
}

// Register returns the register id this session belongs to.
func (s *Session) Register() string {
	return s.register
}

// ScanResult is what a scan or tap produced: either a line was added, a
// choice is needed, or the code matched nothing.
type ScanResult struct {
	Outcome selection.Outcome
	Line    *entity.CartLine
}

// Scan resolves a whole-code scan event. A code matching exactly one
// variation adds a line directly; a miss is reported as not-found so the
// caller can offer catalog-entry creation.
func (s *Session) Scan(code string) (ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.selection.ResolveScan(code)
	if err != nil {
		return ScanResult{}, err
	}
	return s.finishResolve(outcome, 1, "")
}

// Tap resolves a product tapped on the grid, adding qty of it when no
// disambiguation is needed.
func (s *Session) Tap(productID uuid.UUID, qty int64, note string) (ScanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.selection.ResolveTap(productID)
	if err != nil {
		return ScanResult{}, err
	}
	return s.finishResolve(outcome, qty, note)
}

func (s *Session) finishResolve(outcome selection.Outcome, qty int64, note string) (ScanResult, error) {
	if outcome.Kind != selection.OutcomeResolved {
		return ScanResult{Outcome: outcome}, nil
	}
	line, err := s.addPick(*outcome.Pick, qty, note)
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{Outcome: outcome, Line: &line}, nil
}

// ChooseVariation completes a pending variation choice and adds the line.
func (s *Session) ChooseVariation(variationID uuid.UUID, qty int64, note string) (entity.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pick, err := s.selection.ChooseVariation(variationID)
	if err != nil {
		return entity.CartLine{}, err
	}
	return s.addPick(pick, qty, note)
}

// ChooseUnit completes a pending unit choice and adds the line.
func (s *Session) ChooseUnit(unitID uuid.UUID, qty int64, note string) (entity.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pick, err := s.selection.ChooseUnit(unitID)
	if err != nil {
		return entity.CartLine{}, err
	}
	return s.addPick(pick, qty, note)
}

// ChooseBaseUnit completes a pending unit choice with the base unit.
func (s *Session) ChooseBaseUnit(qty int64, note string) (entity.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pick, err := s.selection.ChooseBaseUnit()
	if err != nil {
		return entity.CartLine{}, err
	}
	return s.addPick(pick, qty, note)
}

// CancelSelection abandons a pending variation/unit choice.
func (s *Session) CancelSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Cancel()
}

// SelectionState exposes the resolver state for the UI.
func (s *Session) SelectionState() selection.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.State()
}

// addPick prices a disambiguated pick and appends a fresh cart line.
// Callers hold s.mu.
func (s *Session) addPick(pick selection.Pick, qty int64, note string) (entity.CartLine, error) {
	if qty < 1 {
		qty = 1
	}

	quote, err := pricing.Resolve(pick.Product, s.saleType, pick.Unit, pick.Variation)
	if err != nil {
		return entity.CartLine{}, err
	}
	if err := pricing.CheckWholesaleMinimum(pick.Product, s.saleType, qty); err != nil {
		return entity.CartLine{}, err
	}

	line := entity.CartLine{
		ProductID:   pick.Product.ID,
		Source:      entity.LineSourceBase,
		DisplayName: pick.Product.Name,
		UnitPrice:   quote.UnitPrice,
		Quantity:    qty,
		Note:        note,
	}
	var unitID *uuid.UUID
	switch {
	case pick.Variation != nil:
		line.Source = entity.LineSourceVariation
		line.Variation = &entity.LineVariation{ID: pick.Variation.ID, Name: pick.Variation.Name}
		line.DisplayName = pick.Product.Name + " " + pick.Variation.Name
	case pick.Unit != nil:
		line.Source = entity.LineSourceUnit
		line.Unit = &entity.LineUnit{ID: pick.Unit.ID, Name: pick.Unit.Name, Factor: pick.Unit.Factor}
		unitID = &line.Unit.ID
	}

	// Stock is checked against what the cart already holds in the same
	// unit; a violation blocks this add, not the rest of the cart.
	inCart := s.cart.QuantityInUnit(pick.Product.ID, line.Source, unitID)
	if inCart+qty > quote.StockInUnit {
		return entity.CartLine{}, apperror.NewPolicyError(fmt.Sprintf(
			"Insufficient stock for %s: %d available", line.DisplayName, quote.StockInUnit))
	}

	return s.cart.Add(line), nil
}

// UpdateQuantity changes a line's quantity, clamping to a minimum of 1 and
// re-checking the wholesale minimum and stock in the line's unit.
func (s *Session) UpdateQuantity(lineID uuid.UUID, qty int64) (entity.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty < 1 {
		qty = 1
	}

	current, ok := s.cart.Line(lineID)
	if !ok {
		return entity.CartLine{}, apperror.NewNotFoundError("Cart line")
	}

	// Policy checks use the live catalog when the product is still
	// present; a product dropped by a refresh keeps its captured price
	// and skips stock checks.
	if product, ok := s.index.Product(current.ProductID); ok {
		if err := pricing.CheckWholesaleMinimum(product, s.saleType, qty); err != nil {
			return entity.CartLine{}, err
		}
		stock := product.Stock
		if current.Unit != nil && current.Unit.Factor > 0 {
			stock = product.Stock / current.Unit.Factor
		}
		others := s.cart.QuantityInUnit(current.ProductID, current.Source, unitIDOf(&current)) - current.Quantity
		if others+qty > stock {
			return entity.CartLine{}, apperror.NewPolicyError(fmt.Sprintf(
				"Insufficient stock for %s: %d available", current.DisplayName, stock))
		}
	}

	return s.cart.UpdateQuantity(lineID, qty)
}

func unitIDOf(line *entity.CartLine) *uuid.UUID {
	if line.Unit == nil {
		return nil
	}
	id := line.Unit.ID
	return &id
}

// RemoveLine deletes a cart line.
func (s *Session) RemoveLine(lineID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Remove(lineID)
}

// ClearCart drops every line. The discount and selections stay.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// ApplyDiscount sets the sale-level discount, replacing any existing one.
func (s *Session) ApplyDiscount(d entity.SaleDiscount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discounts.Apply(d)
}

// RemoveDiscount clears the sale-level discount.
func (s *Session) RemoveDiscount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts.Remove()
}

// SetCustomer attaches a customer to the open sale.
func (s *Session) SetCustomer(customerID *uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerID = customerID
}

// SetTable selects the table a kitchen order attaches to. Out-of-service
// tables reject selection.
func (s *Session) SetTable(table *entity.Table, guestCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if table != nil && !table.Status.Selectable() {
		return apperror.NewPreconditionError(fmt.Sprintf("Table %s is out of service", table.Number))
	}
	s.table = table
	s.guestCount = guestCount
	return nil
}

// SaleType returns the session's current pricing mode.
func (s *Session) SaleType() enum.SaleType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saleType
}

// SwitchSaleType changes between retail and wholesale pricing. With a
// non-empty cart it requires confirmation, and confirming clears the cart
// and the selected customer in one step; mixed-pricing carts are never
// allowed.
func (s *Session) SwitchSaleType(target enum.SaleType, confirmed bool) error {
	if !target.Valid() {
		return apperror.NewBadRequestError("Unknown sale type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if target == s.saleType {
		return nil
	}
	if !s.cart.IsEmpty() {
		if !confirmed {
			return ErrConfirmSwitch
		}
		s.cart.Clear()
		s.customerID = nil
	}
	s.saleType = target
	return nil
}

// View is the cart as shown on the register, with totals recomputed on
// every read.
type View struct {
	Register       string               `json:"register"`
	SaleType       enum.SaleType        `json:"sale_type"`
	Lines          []entity.CartLine    `json:"lines"`
	ItemCount      int64                `json:"item_count"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Discount       *entity.SaleDiscount `json:"discount,omitempty"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	Total          decimal.Decimal      `json:"total"`
	CustomerID     *uuid.UUID           `json:"customer_id,omitempty"`
	Table          *entity.Table        `json:"table,omitempty"`
	GuestCount     int                  `json:"guest_count,omitempty"`
	Selection      selection.State      `json:"selection_state"`
}

// View assembles the current cart view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := s.cart.Subtotal()
	discountAmount := s.discounts.Amount(subtotal)
	return View{
		Register:       s.register,
		SaleType:       s.saleType,
		Lines:          s.cart.Lines(),
		ItemCount:      s.cart.ItemCount(),
		Subtotal:       subtotal,
		Discount:       s.discounts.Active(),
		DiscountAmount: discountAmount,
		Total:          subtotal.Sub(discountAmount),
		CustomerID:     s.customerID,
		Table:          s.table,
		GuestCount:     s.guestCount,
		Selection:      s.selection.State(),
	}
}

// CheckoutSnapshot captures the session state for submission. The deep
// copy keeps later cart edits away from the in-flight request.
func (s *Session) CheckoutSnapshot() checkout.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var table *entity.Table
	if s.table != nil {
		t := *s.table
		table = &t
	}
	var customerID *uuid.UUID
	if s.customerID != nil {
		id := *s.customerID
		customerID = &id
	}
	return checkout.Snapshot{
		Register:   s.register,
		SaleType:   s.saleType,
		Lines:      s.cart.Snapshot(),
		Discount:   s.discounts.Active(),
		CustomerID: customerID,
		Table:      table,
		GuestCount: s.guestCount,
	}
}

// ResetAfterSale clears the cart, discount, customer, and table after a
// successful submission.
func (s *Session) ResetAfterSale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	s.discounts.Remove()
	s.customerID = nil
	s.table = nil
	s.guestCount = 0
	s.selection.Cancel()
}
