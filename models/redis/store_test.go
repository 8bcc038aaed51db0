package redis

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhblack-olya/pie-engine/models"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewStore(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore_Counters(t *testing.T) {
	s, mr := newTestStore(t)

	ok, err := s.InitRemaining(1, 8)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.InitRemaining(1, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := mr.Get("item-1-remaining")
	require.NoError(t, err)
	assert.Equal(t, "8", val)

	n, err := s.IncrRemaining(1, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, s.SetRemaining(2, 4))
	all, err := s.GetAllRemaining([]int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4, 0}, all)

	n, err = s.GetRemaining(3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestStore_Ledger(t *testing.T) {
	s, _ := newTestStore(t)

	_, found, err := s.GetPurchase(1, "alice")
	require.NoError(t, err)
	assert.False(t, found)

	n, err := s.IncrPurchase(1, "alice", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = s.IncrPurchase(1, "bob", 1)
	require.NoError(t, err)

	n, found, err = s.GetPurchase(1, "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), n)

	ledger, err := s.GetPurchases(1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"alice": 2, "bob": 1}, ledger)
}

func TestStore_Bitmaps(t *testing.T) {
	s, _ := newTestStore(t)

	b, err := s.GetBlacklist("alice")
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, s.SetBlacklisted("alice", 9))
	b, err = s.GetBlacklist("alice")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x40}, b)

	on, err := s.IsBlacklisted("alice", 9)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, s.SetSoldOut(0))
	b, err = s.GetSoldOut()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, b)

	on, err = s.IsSoldOut(1)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestStore_CommitPurchase(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, s.SetRemaining(5, 4))

	buy := func(user string, slices int64) *models.PurchaseOutcome {
		out, err := s.CommitPurchase(&models.PurchaseIntent{
			PieId: 5, Position: 3, Username: user, Slices: slices, Cap: models.AllowedSlices,
		})
		require.NoError(t, err)
		return out
	}

	out := buy("alice", 3)
	assert.Equal(t, models.PurchaseStatusSuccess, out.Status)
	assert.Equal(t, int64(1), out.Remaining)
	assert.Equal(t, int64(3), out.Purchased)
	assert.True(t, out.Blacklisted)
	assert.False(t, out.SoldOut)

	on, err := s.IsBlacklisted("alice", 3)
	require.NoError(t, err)
	assert.True(t, on)

	out = buy("alice", 1)
	assert.Equal(t, models.PurchaseStatusOverLimit, out.Status)
	assert.Equal(t, models.RejectReasonBlacklisted, out.Reason)

	out = buy("bob", 2)
	assert.Equal(t, models.PurchaseStatusOutOfStock, out.Status)
	assert.Equal(t, models.RejectReasonNotEnough, out.Reason)

	out = buy("bob", 1)
	assert.Equal(t, models.PurchaseStatusSuccess, out.Status)
	assert.True(t, out.SoldOut)
	assert.Equal(t, int64(0), out.Remaining)

	out = buy("carol", 1)
	assert.Equal(t, models.PurchaseStatusOutOfStock, out.Status)
	assert.Equal(t, models.RejectReasonSoldOut, out.Reason)

	assert.Equal(t, "1", mr.HGet("item-5-purchases", "bob"))
	soldOut, err := s.IsSoldOut(3)
	require.NoError(t, err)
	assert.True(t, soldOut)
}

func TestStore_CommitPurchaseCapReached(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.SetRemaining(5, 10))
	_, err := s.IncrPurchase(5, "alice", 2)
	require.NoError(t, err)

	out, err := s.CommitPurchase(&models.PurchaseIntent{
		PieId: 5, Position: 0, Username: "alice", Slices: 2, Cap: models.AllowedSlices,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusOverLimit, out.Status)
	assert.Equal(t, models.RejectReasonCapReached, out.Reason)
	assert.Equal(t, int64(2), out.Purchased)

	n, err := s.GetRemaining(5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}

func TestStore_CommitPurchaseNeverOversells(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.SetRemaining(5, 7))

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := int64(0)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := s.CommitPurchase(&models.PurchaseIntent{
				PieId: 5, Position: 1, Username: fmt.Sprintf("user%d", i), Slices: 2, Cap: models.AllowedSlices,
			})
			if assert.NoError(t, err) && out.Status == models.PurchaseStatusSuccess {
				mu.Lock()
				sold += 2
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	n, err := s.GetRemaining(5)
	require.NoError(t, err)
	assert.Equal(t, int64(6), sold)
	assert.Equal(t, int64(1), n)
}

func TestStore_Unavailable(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	_, err := s.GetRemaining(1)
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))

	_, err = s.CommitPurchase(&models.PurchaseIntent{PieId: 1, Username: "alice", Slices: 1, Cap: 3})
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))
}
