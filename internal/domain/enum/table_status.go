package enum

// TableStatus represents the availability of a restaurant table.
type TableStatus string

const (
	TableAvailable    TableStatus = "available"
	TableOccupied     TableStatus = "occupied"
	TableReserved     TableStatus = "reserved"
	TableOutOfService TableStatus = "out_of_service"
)

// Selectable reports whether the table can be attached to an order.
// Out-of-service tables reject selection.
func (s TableStatus) Selectable() bool {
	return s != TableOutOfService
}
