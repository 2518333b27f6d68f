package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the outlet header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem is a single printed line item. UnitName is set when the line
// was sold in a selling unit ("dozen") rather than the base unit.
type ReceiptItem struct {
	Name      string          `json:"name"`
	UnitName  string          `json:"unit_name,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Note      string          `json:"note,omitempty"`
}

// Receipt is a value object representing a printable receipt. It is
// composed from the canonical (server-fetched) sale at print time and is
// never stored.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	ReceiptNumber string          `json:"receipt_number"`
	Date          string          `json:"date"`
	Cashier       string          `json:"cashier,omitempty"`
	Customer      string          `json:"customer,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Items         []ReceiptItem   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

// KitchenTicket is the slip printed in the kitchen for a pending order.
// It carries no money at all, only what the kitchen needs to cook.
type KitchenTicket struct {
	TableNumber string        `json:"table_number"`
	GuestCount  int           `json:"guest_count,omitempty"`
	Date        string        `json:"date"`
	Items       []ReceiptItem `json:"items"`
	Notes       string        `json:"notes,omitempty"`
}
