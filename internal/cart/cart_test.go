package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/terminal/internal/domain/entity"
)

func line(price string, qty int64) entity.CartLine {
	return entity.CartLine{
		ProductID:   uuid.New(),
		Source:      entity.LineSourceBase,
		DisplayName: "Item",
		UnitPrice:   decimal.RequireFromString(price),
		Quantity:    qty,
	}
}

func TestAddNeverMerges(t *testing.T) {
	a := New()
	l := line("10.00", 1)

	first := a.Add(l)
	second := a.Add(l)

	assert.Equal(t, 2, a.Len())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSubtotalTracksMutations(t *testing.T) {
	a := New()
	first := a.Add(line("10.50", 2))
	second := a.Add(line("4.50", 1))

	assert.True(t, a.Subtotal().Equal(decimal.RequireFromString("25.50")))

	_, err := a.UpdateQuantity(second.ID, 3)
	require.NoError(t, err)
	assert.True(t, a.Subtotal().Equal(decimal.RequireFromString("34.50")))

	require.NoError(t, a.Remove(first.ID))
	assert.True(t, a.Subtotal().Equal(decimal.RequireFromString("13.50")))

	a.Clear()
	assert.True(t, a.Subtotal().IsZero())
	assert.True(t, a.IsEmpty())
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	a := New()
	added := a.Add(line("5.00", 4))

	updated, err := a.UpdateQuantity(added.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Quantity)

	updated, err = a.UpdateQuantity(added.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Quantity)
}

func TestUpdateUnknownLine(t *testing.T) {
	a := New()
	_, err := a.UpdateQuantity(uuid.New(), 2)
	assert.Error(t, err)
	assert.Error(t, a.Remove(uuid.New()))
}

func TestQuantityInUnitDistinguishesSources(t *testing.T) {
	a := New()
	productID := uuid.New()
	unitID := uuid.New()

	base := line("2.00", 3)
	base.ProductID = productID
	a.Add(base)

	unitLine := line("20.00", 2)
	unitLine.ProductID = productID
	unitLine.Source = entity.LineSourceUnit
	unitLine.Unit = &entity.LineUnit{ID: unitID, Name: "dozen", Factor: 12}
	a.Add(unitLine)

	assert.Equal(t, int64(3), a.QuantityInUnit(productID, entity.LineSourceBase, nil))
	assert.Equal(t, int64(2), a.QuantityInUnit(productID, entity.LineSourceUnit, &unitID))
}

func TestSnapshotIsDetached(t *testing.T) {
	a := New()
	added := a.Add(line("9.99", 1))

	snap := a.Snapshot()
	_, err := a.UpdateQuantity(added.ID, 5)
	require.NoError(t, err)
	a.Clear()

	require.Len(t, snap, 1)
	assert.Equal(t, int64(1), snap[0].Quantity)
}
