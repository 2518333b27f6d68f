package enum

// DiscountType represents how a sale-level discount value is interpreted.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Valid reports whether the discount type is known.
func (d DiscountType) Valid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeFixed
}
