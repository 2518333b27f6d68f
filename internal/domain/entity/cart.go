package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/enum"
)

// LineSourceKind tags which pricing path produced a cart line. Exactly one
// path applies per line: base price, a selling unit, or a variation.
type LineSourceKind string

const (
	LineSourceBase      LineSourceKind = "base"
	LineSourceUnit      LineSourceKind = "unit"
	LineSourceVariation LineSourceKind = "variation"
)

// LineUnit captures the selling unit a line was priced with. Name and
// conversion factor are copied at add time so a later catalog refresh
// cannot retroactively alter an open cart line.
type LineUnit struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Factor int64     `json:"factor"`
}

// LineVariation captures the variation a line was priced with.
type LineVariation struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CartLine is one line of an open sale. It lives only inside a cart
// aggregate and is destroyed on submission or clear.
type CartLine struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Source      LineSourceKind  `json:"source"`
	Unit        *LineUnit       `json:"unit,omitempty"`
	Variation   *LineVariation  `json:"variation,omitempty"`
	DisplayName string          `json:"display_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"` // always >= 1
	Note        string          `json:"note,omitempty"`
}

// Total returns price x quantity for the line.
func (l *CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// SaleDiscount is the single sale-level discount that may be active on an
// open cart.
type SaleDiscount struct {
	Type   enum.DiscountType `json:"type"`
	Value  decimal.Decimal   `json:"value"`
	Reason string            `json:"reason,omitempty"`
}
