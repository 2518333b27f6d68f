package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukapos/terminal/internal/domain/entity"
	"github.com/dukapos/terminal/pkg/logger"
)

func fixtureProducts() []entity.Product {
	return []entity.Product{
		{
			ID:          uuid.New(),
			Name:        "Milk 500ml",
			SKU:         "MILK-500",
			Barcode:     "6001234567890",
			RetailPrice: decimal.RequireFromString("1.20"),
			Stock:       40,
			Active:      true,
		},
		{
			ID:          uuid.New(),
			Name:        "Soda",
			SKU:         "SODA",
			RetailPrice: decimal.RequireFromString("1.00"),
			Stock:       100,
			Active:      true,
			Variations: []entity.Variation{
				{ID: uuid.New(), Name: "300ml", Barcode: "11112222", Price: decimal.RequireFromString("1.00"), Active: true},
				{ID: uuid.New(), Name: "500ml", Barcode: "11113333", Price: decimal.RequireFromString("1.50"), Active: true},
				{ID: uuid.New(), Name: "Discontinued", Barcode: "11114444", Active: false},
			},
		},
		{
			ID:     uuid.New(),
			Name:   "Old Stock",
			SKU:    "OLD-1",
			Active: false,
		},
	}
}

func TestLookupByBarcodeAndSKU(t *testing.T) {
	ix := NewIndex()
	ix.Replace(NewSnapshot(fixtureProducts()))

	hit, ok := ix.Lookup("6001234567890")
	require.True(t, ok)
	assert.Equal(t, "Milk 500ml", hit.Product.Name)
	assert.Nil(t, hit.Variation)

	// SKU match, case and surrounding space normalized
	hit, ok = ix.Lookup("  milk-500 ")
	require.True(t, ok)
	assert.Equal(t, "Milk 500ml", hit.Product.Name)
}

func TestLookupVariationBarcode(t *testing.T) {
	ix := NewIndex()
	ix.Replace(NewSnapshot(fixtureProducts()))

	hit, ok := ix.Lookup("11113333")
	require.True(t, ok)
	require.NotNil(t, hit.Variation)
	assert.Equal(t, "500ml", hit.Variation.Name)
	assert.Equal(t, "Soda", hit.Product.Name)
}

func TestLookupMissAndInactive(t *testing.T) {
	ix := NewIndex()
	ix.Replace(NewSnapshot(fixtureProducts()))

	_, ok := ix.Lookup("nope")
	assert.False(t, ok)

	// Inactive product and inactive variation are not indexed
	_, ok = ix.Lookup("OLD-1")
	assert.False(t, ok)
	_, ok = ix.Lookup("11114444")
	assert.False(t, ok)
}

func TestSearchSubstring(t *testing.T) {
	ix := NewIndex()
	ix.Replace(NewSnapshot(fixtureProducts()))

	results := ix.Search("milk", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "Milk 500ml", results[0].Name)

	assert.Empty(t, ix.Search("old", 10))
	assert.Empty(t, ix.Search("", 10))
}

func TestReplaceSwapsWholesale(t *testing.T) {
	ix := NewIndex()
	ix.Replace(NewSnapshot(fixtureProducts()))

	_, ok := ix.Lookup("6001234567890")
	require.True(t, ok)

	ix.Replace(NewSnapshot([]entity.Product{{
		ID:     uuid.New(),
		Name:   "Bread",
		SKU:    "BREAD",
		Active: true,
	}}))

	_, ok = ix.Lookup("6001234567890")
	assert.False(t, ok)
	_, ok = ix.Lookup("BREAD")
	assert.True(t, ok)
}

type stubFetcher struct {
	products []entity.Product
	err      error
}

func (f *stubFetcher) FetchCatalog(ctx context.Context) ([]entity.Product, error) {
	return f.products, f.err
}

func TestRefreshKeepsOldSnapshotOnFailure(t *testing.T) {
	ix := NewIndex()
	fetcher := &stubFetcher{products: fixtureProducts()}
	r := NewRefresher(ix, fetcher, 0, logger.Nop())

	require.NoError(t, r.RefreshNow(context.Background()))
	_, ok := ix.Lookup("6001234567890")
	require.True(t, ok)

	fetcher.err = errors.New("backend down")
	assert.Error(t, r.RefreshNow(context.Background()))

	// Previous snapshot still serves
	_, ok = ix.Lookup("6001234567890")
	assert.True(t, ok)
}
