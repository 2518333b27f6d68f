package enum

// SaleStatus is the lifecycle state a sale is submitted with.
// Completed sales are paid at the till; kitchen sales are sent to the
// kitchen with payment deferred.
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusKitchen   SaleStatus = "kitchen_pending"
)
