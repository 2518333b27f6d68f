package enum

// SaleType is the pricing mode selected for the whole cart.
type SaleType string

const (
	SaleTypeRetail    SaleType = "retail"
	SaleTypeWholesale SaleType = "wholesale"
)

// Valid reports whether the sale type is one of the known modes.
func (s SaleType) Valid() bool {
	return s == SaleTypeRetail || s == SaleTypeWholesale
}
