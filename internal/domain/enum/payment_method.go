package enum

// PaymentMethod is how the customer settled the sale.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
	PaymentTab    PaymentMethod = "tab"
)

// Valid reports whether the payment method is one the backend accepts.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentTab:
		return true
	}
	return false
}
