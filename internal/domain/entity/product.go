package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog product as served by the backend. The terminal
// treats it as a read-only snapshot; it is never mutated locally.
type Product struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Barcode          string          `json:"barcode,omitempty"`
	CategoryID       *uuid.UUID      `json:"category_id,omitempty"`
	BaseUnit         string          `json:"base_unit"`
	RetailPrice      decimal.Decimal `json:"retail_price"`
	WholesalePrice   decimal.Decimal `json:"wholesale_price"`
	WholesaleEnabled bool            `json:"wholesale_enabled"`
	MinWholesaleQty  int64           `json:"min_wholesale_qty"`
	Stock            int64           `json:"stock"` // in base units
	Active           bool            `json:"active"`

	Variations   []Variation   `json:"variations,omitempty"`
	SellingUnits []SellingUnit `json:"selling_units,omitempty"`
}

// MinimumWholesaleQuantity returns the wholesale minimum, defaulting to 1
// when the backend leaves it unset.
func (p *Product) MinimumWholesaleQuantity() int64 {
	if p.MinWholesaleQty < 1 {
		return 1
	}
	return p.MinWholesaleQty
}

// ActiveVariations returns the product's variations that are still sellable.
func (p *Product) ActiveVariations() []Variation {
	out := make([]Variation, 0, len(p.Variations))
	for _, v := range p.Variations {
		if v.Active {
			out = append(out, v)
		}
	}
	return out
}

// ActiveSellingUnits returns the product's selling units that are still sellable.
func (p *Product) ActiveSellingUnits() []SellingUnit {
	out := make([]SellingUnit, 0, len(p.SellingUnits))
	for _, u := range p.SellingUnits {
		if u.Active {
			out = append(out, u)
		}
	}
	return out
}

// Variation is a distinct sellable version of a product (size, flavor)
// with an independently set price.
type Variation struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	Barcode   string          `json:"barcode,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Active    bool            `json:"active"`
}

// SellingUnit is an alternate unit of sale (e.g. "dozen") with its own
// price and a conversion factor back to the product's base stock unit.
type SellingUnit struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	Name           string           `json:"name"`
	Factor         int64            `json:"factor"` // base units per selling unit, > 0
	RetailPrice    decimal.Decimal  `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price,omitempty"`
	Active         bool             `json:"active"`
}

// StockIn returns how many whole selling units the given base-unit stock
// covers: floor(stock / factor).
func (u *SellingUnit) StockIn(baseStock int64) int64 {
	if u.Factor <= 0 {
		return 0
	}
	return baseStock / u.Factor
}
