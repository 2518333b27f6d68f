package entity

import (
	"github.com/google/uuid"

	"github.com/dukapos/terminal/internal/domain/enum"
)

// Table is a restaurant table. Selecting a table gates which cart a
// kitchen order is attached to.
type Table struct {
	ID       uuid.UUID        `json:"id"`
	Number   string           `json:"number"`
	Status   enum.TableStatus `json:"status"`
	Capacity int              `json:"capacity"`
}
