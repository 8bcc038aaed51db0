package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/models"
	"github.com/jhblack-olya/pie-engine/models/memory"
)

// position 0: Apple, 1: Cherry, 2: Quiche, 3: Pecan
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]*models.Pie{
		{Id: 40, Name: "Pecan", PricePerSlice: decimal.NewFromFloat(4.5), Slices: 8, Labels: []string{"sweet", "nutty"}},
		{Id: 10, Name: "Apple", PricePerSlice: decimal.NewFromFloat(2), Slices: 10, Labels: []string{"sweet", "fruity"}},
		{Id: 30, Name: "Quiche", PricePerSlice: decimal.NewFromFloat(3.1), Slices: 6, Labels: []string{"savory"}},
		{Id: 20, Name: "Cherry", PricePerSlice: decimal.NewFromFloat(2.5), Slices: 2, Labels: []string{"sweet", "fruity"}},
	})
	require.NoError(t, err)
	return cat
}

func newSeededStore(t *testing.T, cat *catalog.Catalog) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, SeedInventory(store, cat))
	return store
}
