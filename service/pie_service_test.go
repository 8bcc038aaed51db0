package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/models"
)

func TestSeedInventory_DoesNotRestock(t *testing.T) {
	cat := newTestCatalog(t)
	store := newSeededStore(t, cat)

	_, err := PurchasePie(store, 10, 0, "alice", 3)
	require.NoError(t, err)
	require.NoError(t, SeedInventory(store, cat))

	remaining, err := store.GetRemaining(10)
	require.NoError(t, err)
	assert.Equal(t, int64(7), remaining)
}

func TestGetPies(t *testing.T) {
	cat := newTestCatalog(t)
	store := newSeededStore(t, cat)
	_, err := PurchasePie(store, 30, 2, "alice", 1)
	require.NoError(t, err)

	pies, err := GetPies(store, cat)
	require.NoError(t, err)
	require.Len(t, pies, 4)

	var ids, remaining []int64
	for _, pie := range pies {
		ids = append(ids, pie.Id)
		remaining = append(remaining, pie.RemainingSlices)
		assert.NotNil(t, pie.Purchases)
	}
	assert.Equal(t, []int64{10, 20, 30, 40}, ids)
	assert.Equal(t, []int64{10, 2, 5, 8}, remaining)
}

func TestGetPie(t *testing.T) {
	cat := newTestCatalog(t)
	store := newSeededStore(t, cat)
	for _, user := range []string{"zoe", "alice", "mike"} {
		_, err := PurchasePie(store, 40, 3, user, 1)
		require.NoError(t, err)
	}

	pie, err := GetPie(store, cat, 40)
	require.NoError(t, err)
	assert.Equal(t, "Pecan", pie.Name)
	assert.Equal(t, int64(5), pie.RemainingSlices)
	assert.Equal(t, []*models.Purchase{
		{Username: "alice", Slices: 1},
		{Username: "mike", Slices: 1},
		{Username: "zoe", Slices: 1},
	}, pie.Purchases)

	_, err = GetPie(store, cat, 1)
	assert.True(t, errors.Is(err, catalog.ErrUnknownPie))

	store.Fail = errors.New("down")
	_, err = GetPie(store, cat, 40)
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))
}
