package request

import "github.com/google/uuid"

// ScanRequest carries one whole barcode, already segmented by the scanner
// stream or a UI that reads codes itself.
type ScanRequest struct {
	Code string `json:"code" binding:"required,min=1,max=64"`
}

// KeyRequest feeds a single scanner keystroke into the register's input
// stream.
type KeyRequest struct {
	Key string `json:"key" binding:"required,min=1,max=1"`
}

// TapRequest adds a product tapped on the grid.
type TapRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"omitempty,min=1"`
	Note      string    `json:"note" binding:"omitempty,max=255"`
}

// ChooseVariationRequest completes a pending variation choice.
type ChooseVariationRequest struct {
	VariationID uuid.UUID `json:"variation_id" binding:"required"`
	Quantity    int64     `json:"quantity" binding:"omitempty,min=1"`
	Note        string    `json:"note" binding:"omitempty,max=255"`
}

// ChooseUnitRequest completes a pending unit choice. BaseUnit true selects
// the product's base unit instead of a named selling unit.
type ChooseUnitRequest struct {
	UnitID   *uuid.UUID `json:"unit_id"`
	BaseUnit bool       `json:"base_unit"`
	Quantity int64      `json:"quantity" binding:"omitempty,min=1"`
	Note     string     `json:"note" binding:"omitempty,max=255"`
}

// UpdateQuantityRequest changes one cart line's quantity. A pointer so
// zero is a legal value; the session clamps anything below 1 up to 1.
type UpdateQuantityRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

// ApplyDiscountRequest sets the sale-level discount.
type ApplyDiscountRequest struct {
	Type   string `json:"type" binding:"required,oneof=percentage fixed"`
	Value  string `json:"value" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// SwitchSaleTypeRequest changes the session's pricing mode.
type SwitchSaleTypeRequest struct {
	SaleType  string `json:"sale_type" binding:"required,oneof=retail wholesale"`
	Confirmed bool   `json:"confirmed"`
}

// SetCustomerRequest attaches or detaches the sale's customer.
type SetCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// SetTableRequest selects the table a kitchen order attaches to.
type SetTableRequest struct {
	TableID    *uuid.UUID `json:"table_id"`
	GuestCount int        `json:"guest_count" binding:"omitempty,min=0"`
}
