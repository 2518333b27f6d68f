// Package pricing resolves unit prices for cart lines and computes the
// sale-level discount.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/pkg/apperror"
)

// Quote is the resolved price for one line plus the stock available in the
// chosen unit.
type Quote struct {
	UnitPrice   decimal.Decimal
	StockInUnit int64
}

// Resolve maps (product, sale type, optional unit, optional variation) to a
// unit price and stock-in-unit. Exactly one pricing path applies:
//
//   - variation: the variation's own price; sale type never overrides it
//   - selling unit: the unit's wholesale price when selling wholesale and
//     one is set, else its retail price
//   - base: the product's wholesale price when wholesale is enabled and
//     selling wholesale, else the base retail price
func Resolve(product *entity.Product, saleType enum.SaleType, unit *entity.SellingUnit, variation *entity.Variation) (Quote, error) {
	if product == nil {
		return Quote{}, apperror.NewBadRequestError("No product to price")
	}
	if unit != nil && variation != nil {
		return Quote{}, apperror.NewBadRequestError("A line is priced via a unit or a variation, never both")
	}

	switch {
	case variation != nil:
		return Quote{UnitPrice: variation.Price, StockInUnit: product.Stock}, nil
	case unit != nil:
		if unit.Factor <= 0 {
			return Quote{}, apperror.NewBadRequestError(fmt.Sprintf("Unit %q has an invalid conversion factor", unit.Name))
		}
		price := unit.RetailPrice
		if saleType == enum.SaleTypeWholesale && unit.WholesalePrice != nil {
			price = *unit.WholesalePrice
		}
		return Quote{UnitPrice: price, StockInUnit: unit.StockIn(product.Stock)}, nil
	default:
		price := product.RetailPrice
		if saleType == enum.SaleTypeWholesale && product.WholesaleEnabled {
			price = product.WholesalePrice
		}
		return Quote{UnitPrice: price, StockInUnit: product.Stock}, nil
	}
}

// CanSatisfyWholesale reports whether the requested quantity meets the
// product's wholesale minimum. Retail sales always satisfy.
func CanSatisfyWholesale(product *entity.Product, saleType enum.SaleType, quantity int64) bool {
	if saleType != enum.SaleTypeWholesale {
		return true
	}
	return quantity >= product.MinimumWholesaleQuantity()
}

// CheckWholesaleMinimum returns a policy error when the wholesale minimum
// is not met. Violations are reported, never silently coerced.
func CheckWholesaleMinimum(product *entity.Product, saleType enum.SaleType, quantity int64) error {
	if CanSatisfyWholesale(product, saleType, quantity) {
		return nil
	}
	return apperror.NewPolicyError(fmt.Sprintf(
		"%s requires a minimum of %d for wholesale", product.Name, product.MinimumWholesaleQuantity()))
}
