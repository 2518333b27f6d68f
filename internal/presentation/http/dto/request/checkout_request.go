package request

// DeliveryRequest is the optional delivery block on a checkout.
type DeliveryRequest struct {
	Recipient string `json:"recipient" binding:"required,min=2,max=255"`
	Phone     string `json:"phone" binding:"required,min=4,max=32"`
	Address   string `json:"address" binding:"required,min=4,max=500"`
	Notes     string `json:"notes" binding:"omitempty,max=500"`
}

// CheckoutRequest finalizes the register's open sale.
type CheckoutRequest struct {
	PaymentMethod string           `json:"payment_method" binding:"required,oneof=cash card mobile tab"`
	Notes         string           `json:"notes" binding:"omitempty,max=500"`
	Delivery      *DeliveryRequest `json:"delivery"`
}

// KitchenRequest routes the open sale to the kitchen without payment.
type KitchenRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}
