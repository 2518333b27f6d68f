// Package cart implements the mutable cart aggregate backing one open sale.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/pkg/apperror"
)

// Aggregate is an ordered collection of cart lines. It is owned by one
// checkout session and is not safe for concurrent use; the session
// serializes access to it.
type Aggregate struct {
	lines []entity.CartLine
}

// New creates an empty cart.
func New() *Aggregate {
	return &Aggregate{}
}

// Add appends a new line with a fresh id. Repeated adds of the same
// product stay separate lines; quantities are never merged, matching the
// observable behavior of repeated taps at the till.
func (a *Aggregate) Add(line entity.CartLine) entity.CartLine {
	line.ID = uuid.New()
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	a.lines = append(a.lines, line)
	return line
}

// UpdateQuantity sets a line's quantity, clamping to a minimum of 1.
// Attempts to go to zero or below are clamped, not rejected.
func (a *Aggregate) UpdateQuantity(lineID uuid.UUID, quantity int64) (entity.CartLine, error) {
	for i := range a.lines {
		if a.lines[i].ID == lineID {
			if quantity < 1 {
				quantity = 1
			}
			a.lines[i].Quantity = quantity
			return a.lines[i], nil
		}
	}
	return entity.CartLine{}, apperror.NewNotFoundError("Cart line")
}

// Remove deletes a line.
func (a *Aggregate) Remove(lineID uuid.UUID) error {
	for i := range a.lines {
		if a.lines[i].ID == lineID {
			a.lines = append(a.lines[:i], a.lines[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFoundError("Cart line")
}

// Clear drops every line.
func (a *Aggregate) Clear() {
	a.lines = nil
}

// Line returns a copy of the line with the given id.
func (a *Aggregate) Line(lineID uuid.UUID) (entity.CartLine, bool) {
	for i := range a.lines {
		if a.lines[i].ID == lineID {
			return a.lines[i], true
		}
	}
	return entity.CartLine{}, false
}

// Lines returns a copy of all lines in order.
func (a *Aggregate) Lines() []entity.CartLine {
	out := make([]entity.CartLine, len(a.lines))
	copy(out, a.lines)
	return out
}

// Len returns the number of lines.
func (a *Aggregate) Len() int {
	return len(a.lines)
}

// IsEmpty reports whether the cart has no lines.
func (a *Aggregate) IsEmpty() bool {
	return len(a.lines) == 0
}

// Subtotal recomputes the sum of line totals on every read. Nothing is
// cached, so it can never go stale against the lines.
func (a *Aggregate) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for i := range a.lines {
		total = total.Add(a.lines[i].Total())
	}
	return total
}

// ItemCount recomputes the total quantity across lines.
func (a *Aggregate) ItemCount() int64 {
	var n int64
	for i := range a.lines {
		n += a.lines[i].Quantity
	}
	return n
}

// QuantityInUnit sums the quantity already in the cart for the same
// product and pricing source. Used when checking stock at add time.
func (a *Aggregate) QuantityInUnit(productID uuid.UUID, source entity.LineSourceKind, unitID *uuid.UUID) int64 {
	var n int64
	for i := range a.lines {
		l := &a.lines[i]
		if l.ProductID != productID || l.Source != source {
			continue
		}
		if source == entity.LineSourceUnit {
			if l.Unit == nil || unitID == nil || l.Unit.ID != *unitID {
				continue
			}
		}
		n += l.Quantity
	}
	return n
}

// Snapshot returns a deep copy of the lines for submission. Later cart
// edits cannot affect an in-flight request built from the snapshot.
func (a *Aggregate) Snapshot() []entity.CartLine {
	out := make([]entity.CartLine, len(a.lines))
	for i := range a.lines {
		l := a.lines[i]
		if l.Unit != nil {
			u := *l.Unit
			l.Unit = &u
		}
		if l.Variation != nil {
			v := *l.Variation
			l.Variation = &v
		}
		out[i] = l
	}
	return out
}
