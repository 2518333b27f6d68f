package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/pkg/apperror"
)

var hundred = decimal.NewFromInt(100)

// DiscountEngine holds at most one active sale-level discount. Applying a
// new one replaces the old.
type DiscountEngine struct {
	active *entity.SaleDiscount
}

// NewDiscountEngine creates an engine with no active discount.
func NewDiscountEngine() *DiscountEngine {
	return &DiscountEngine{}
}

// Apply sets the active discount, replacing any previous one.
func (e *DiscountEngine) Apply(d entity.SaleDiscount) error {
	if !d.Type.Valid() {
		return apperror.NewBadRequestError("Unknown discount type")
	}
	if d.Value.IsNegative() {
		return apperror.NewBadRequestError("Discount value cannot be negative")
	}
	dup := d
	e.active = &dup
	return nil
}

// Remove clears the active discount.
func (e *DiscountEngine) Remove() {
	e.active = nil
}

// Active returns a copy of the current discount, or nil.
func (e *DiscountEngine) Active() *entity.SaleDiscount {
	if e.active == nil {
		return nil
	}
	dup := *e.active
	return &dup
}

// Amount computes the discount amount against the given subtotal, clamped
// to [0, subtotal]. Percentage validation belongs at the UI edge; the clamp
// here holds regardless.
func (e *DiscountEngine) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if e.active == nil {
		return decimal.Zero
	}
	return ComputeDiscountAmount(subtotal, *e.active)
}

// ComputeDiscountAmount is the pure discount computation shared by the
// engine and payload building.
func ComputeDiscountAmount(subtotal decimal.Decimal, d entity.SaleDiscount) decimal.Decimal {
	var amount decimal.Decimal
	switch d.Type {
	case enum.DiscountTypePercentage:
		amount = subtotal.Mul(d.Value).Div(hundred)
	case enum.DiscountTypeFixed:
		amount = d.Value
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}
