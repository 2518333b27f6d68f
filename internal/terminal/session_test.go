package terminal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/terminal/internal/catalog"
	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/internal/domain/enum"
	"github.com/dukapos/terminal/internal/selection"
	"github.com/dukapos/terminal/pkg/apperror"
)

func newTestSession(products ...entity.Product) *Session {
	ix := catalog.NewIndex()
	ix.Replace(catalog.NewSnapshot(products))
	return NewSession("till-1", ix)
}

func breadProduct() entity.Product {
	return entity.Product{
		ID:               uuid.New(),
		Name:             "Bread",
		SKU:              "BREAD",
		Barcode:          "5000000001",
		RetailPrice:      decimal.RequireFromString("1.10"),
		WholesalePrice:   decimal.RequireFromString("0.90"),
		WholesaleEnabled: true,
		MinWholesaleQty:  6,
		Stock:            10,
		Active:           true,
	}
}

func eggsProduct() entity.Product {
	return entity.Product{
		ID:          uuid.New(),
		Name:        "Eggs",
		SKU:         "EGGS",
		RetailPrice: decimal.RequireFromString("0.50"),
		Stock:       30,
		Active:      true,
		SellingUnits: []entity.SellingUnit{
			{ID: uuid.New(), Name: "dozen", Factor: 12, RetailPrice: decimal.RequireFromString("5.50"), Active: true},
		},
	}
}

func TestScanAddsLine(t *testing.T) {
	s := newTestSession(breadProduct())

	result, err := s.Scan("5000000001")
	require.NoError(t, err)
	assert.Equal(t, selection.OutcomeResolved, result.Outcome.Kind)
	require.NotNil(t, result.Line)
	assert.Equal(t, int64(1), result.Line.Quantity)

	view := s.View()
	assert.Len(t, view.Lines, 1)
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("1.10")))
}

func TestRepeatedScansStaySeparateLines(t *testing.T) {
	s := newTestSession(breadProduct())

	_, err := s.Scan("5000000001")
	require.NoError(t, err)
	_, err = s.Scan("5000000001")
	require.NoError(t, err)

	view := s.View()
	assert.Len(t, view.Lines, 2)
	assert.Equal(t, int64(2), view.ItemCount)
}

func TestUnitChoiceAddsNothingUntilChosen(t *testing.T) {
	eggs := eggsProduct()
	s := newTestSession(eggs)

	result, err := s.Tap(eggs.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, selection.OutcomeNeedUnit, result.Outcome.Kind)
	assert.Nil(t, result.Line)
	assert.Empty(t, s.View().Lines)

	line, err := s.ChooseUnit(eggs.SellingUnits[0].ID, 2, "")
	require.NoError(t, err)
	assert.Equal(t, "dozen", line.Unit.Name)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("5.50")))
	assert.Len(t, s.View().Lines, 1)
}

func TestStockCheckCountsCartContents(t *testing.T) {
	eggs := eggsProduct() // 30 base units = 2 whole dozens
	s := newTestSession(eggs)

	_, err := s.Tap(eggs.ID, 1, "")
	require.NoError(t, err)
	_, err = s.ChooseUnit(eggs.SellingUnits[0].ID, 2, "")
	require.NoError(t, err)

	_, err = s.Tap(eggs.ID, 1, "")
	require.NoError(t, err)
	_, err = s.ChooseUnit(eggs.SellingUnits[0].ID, 1, "")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindPolicy))

	// The failed add did not disturb the existing line
	assert.Len(t, s.View().Lines, 1)
}

func TestWholesaleMinimumAtAdd(t *testing.T) {
	bread := breadProduct()
	s := newTestSession(bread)
	require.NoError(t, s.SwitchSaleType(enum.SaleTypeWholesale, false))

	_, err := s.Tap(bread.ID, 2, "")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindPolicy))

	result, err := s.Tap(bread.ID, 6, "")
	require.NoError(t, err)
	assert.True(t, result.Line.UnitPrice.Equal(decimal.RequireFromString("0.90")))
}

func TestUpdateQuantityRechecksPolicy(t *testing.T) {
	bread := breadProduct()
	s := newTestSession(bread)

	result, err := s.Tap(bread.ID, 2, "")
	require.NoError(t, err)

	// Clamp below one
	line, err := s.UpdateQuantity(result.Line.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), line.Quantity)

	// Stock is 10
	_, err = s.UpdateQuantity(result.Line.ID, 11)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindPolicy))

	line, err = s.UpdateQuantity(result.Line.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), line.Quantity)
}

func TestSwitchSaleTypeNeedsConfirmWithNonEmptyCart(t *testing.T) {
	bread := breadProduct()
	s := newTestSession(bread)
	customerID := uuid.New()
	s.SetCustomer(&customerID)

	_, err := s.Tap(bread.ID, 1, "")
	require.NoError(t, err)

	err = s.SwitchSaleType(enum.SaleTypeWholesale, false)
	assert.ErrorIs(t, err, ErrConfirmSwitch)
	assert.Equal(t, enum.SaleTypeRetail, s.SaleType())
	assert.Len(t, s.View().Lines, 1)

	// Confirming clears cart and customer together
	require.NoError(t, s.SwitchSaleType(enum.SaleTypeWholesale, true))
	view := s.View()
	assert.Equal(t, enum.SaleTypeWholesale, view.SaleType)
	assert.Empty(t, view.Lines)
	assert.Nil(t, view.CustomerID)
}

func TestSwitchSaleTypeEmptyCartIsSilent(t *testing.T) {
	s := newTestSession(breadProduct())
	customerID := uuid.New()
	s.SetCustomer(&customerID)

	require.NoError(t, s.SwitchSaleType(enum.SaleTypeWholesale, false))
	assert.Equal(t, enum.SaleTypeWholesale, s.SaleType())
	// Customer survives an empty-cart switch
	assert.NotNil(t, s.View().CustomerID)

	// Switching to the current type is a no-op even with items
	_, err := s.Tap(s.index.Current().Products[0].ID, 6, "")
	require.NoError(t, err)
	require.NoError(t, s.SwitchSaleType(enum.SaleTypeWholesale, false))
	assert.Len(t, s.View().Lines, 1)
}

func TestSetTableRejectsOutOfService(t *testing.T) {
	s := newTestSession()

	err := s.SetTable(&entity.Table{ID: uuid.New(), Number: "9", Status: enum.TableOutOfService}, 2)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindPrecondition))

	require.NoError(t, s.SetTable(&entity.Table{ID: uuid.New(), Number: "4", Status: enum.TableAvailable}, 2))
	assert.Equal(t, "4", s.View().Table.Number)
}

func TestViewTotalsWithDiscount(t *testing.T) {
	bread := breadProduct()
	s := newTestSession(bread)

	_, err := s.Tap(bread.ID, 5, "")
	require.NoError(t, err)

	require.NoError(t, s.ApplyDiscount(entity.SaleDiscount{
		Type:  enum.DiscountTypePercentage,
		Value: decimal.NewFromInt(10),
	}))

	view := s.View()
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("5.50")))
	assert.True(t, view.DiscountAmount.Equal(decimal.RequireFromString("0.55")))
	assert.True(t, view.Total.Equal(decimal.RequireFromString("4.95")))

	s.RemoveDiscount()
	assert.True(t, s.View().Total.Equal(decimal.RequireFromString("5.50")))
}

func TestResetAfterSale(t *testing.T) {
	bread := breadProduct()
	s := newTestSession(bread)
	customerID := uuid.New()

	_, err := s.Tap(bread.ID, 1, "")
	require.NoError(t, err)
	s.SetCustomer(&customerID)
	require.NoError(t, s.SetTable(&entity.Table{ID: uuid.New(), Number: "2", Status: enum.TableAvailable}, 4))
	require.NoError(t, s.ApplyDiscount(entity.SaleDiscount{Type: enum.DiscountTypeFixed, Value: decimal.NewFromInt(1)}))

	snap := s.CheckoutSnapshot()
	assert.Len(t, snap.Lines, 1)
	assert.NotNil(t, snap.Discount)

	s.ResetAfterSale()
	view := s.View()
	assert.Empty(t, view.Lines)
	assert.Nil(t, view.Discount)
	assert.Nil(t, view.CustomerID)
	assert.Nil(t, view.Table)
	assert.Zero(t, view.GuestCount)

	// The earlier snapshot is unaffected by the reset
	assert.Len(t, snap.Lines, 1)
}
