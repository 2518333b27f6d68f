package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/enum"
)

// SaleItem is one line of a submitted sale, in the backend wire shape.
// Monetary fields are rounded to 2 decimal places when the payload is
// built, not earlier.
type SaleItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	VariationID *uuid.UUID      `json:"variation_id,omitempty"`
	UnitID      *uuid.UUID      `json:"unit_id,omitempty"`
	Name        string          `json:"name,omitempty"` // resolved by the server on response
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Note        string          `json:"note,omitempty"`
}

// Sale is the backend-owned sale record. The terminal creates it exactly
// once per checkout and only ever re-fetches it afterwards.
type Sale struct {
	ID             uuid.UUID          `json:"id,omitempty"`
	ReceiptNumber  string             `json:"receipt_number,omitempty"`
	OutletID       uuid.UUID          `json:"outlet_id"`
	ShiftID        uuid.UUID          `json:"shift_id"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	Status         enum.SaleStatus    `json:"status"`
	SaleType       enum.SaleType      `json:"sale_type"`
	Items          []SaleItem         `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Tax            decimal.Decimal    `json:"tax"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	DiscountType   enum.DiscountType  `json:"discount_type,omitempty"`
	DiscountReason string             `json:"discount_reason,omitempty"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  enum.PaymentMethod `json:"payment_method,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	TableID        *uuid.UUID         `json:"table_id,omitempty"`
	GuestCount     int                `json:"guest_count,omitempty"`
	CreatedAt      string             `json:"created_at,omitempty"`
}

// Delivery is the follow-up record for sales that collected delivery
// details during payment. It is keyed by the created sale and is a
// best-effort step: its failure never invalidates the sale.
type Delivery struct {
	ID        uuid.UUID `json:"id,omitempty"`
	SaleID    uuid.UUID `json:"sale_id"`
	Recipient string    `json:"recipient"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes,omitempty"`
}

// Shift is a bounded cash-register session. A sale can only be recorded
// against an open shift.
type Shift struct {
	ID       uuid.UUID `json:"id"`
	OutletID uuid.UUID `json:"outlet_id"`
	OpenedAt string    `json:"opened_at"`
	Open     bool      `json:"open"`
}
