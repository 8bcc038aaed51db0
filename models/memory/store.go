/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

// Package memory keeps the pie state inside the process. It is used when the
// engine runs embedded and as the fake store in tests.
package memory

import (
	"fmt"
	"sync"

	"github.com/jhblack-olya/pie-engine/bitvec"
	"github.com/jhblack-olya/pie-engine/models"
)

type Store struct {
	mu        sync.Mutex
	remaining map[int64]int64
	purchases map[int64]map[string]int64
	bitmaps   map[string][]byte

	// Fail, when set, is returned wrapped in ErrStoreUnavailable by every call.
	Fail error
}

func NewStore() *Store {
	return &Store{
		remaining: map[int64]int64{},
		purchases: map[int64]map[string]int64{},
		bitmaps:   map[string][]byte{},
	}
}

func (s *Store) unavailable() error {
	if s.Fail == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, s.Fail)
}

func (s *Store) GetRemaining(pieId int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return 0, err
	}
	return s.remaining[pieId], nil
}

func (s *Store) GetAllRemaining(pieIds []int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return nil, err
	}
	out := make([]int64, len(pieIds))
	for i, id := range pieIds {
		out[i] = s.remaining[id]
	}
	return out, nil
}

func (s *Store) SetRemaining(pieId int64, slices int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return err
	}
	s.remaining[pieId] = slices
	return nil
}

func (s *Store) InitRemaining(pieId int64, slices int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return false, err
	}
	if _, found := s.remaining[pieId]; found {
		return false, nil
	}
	s.remaining[pieId] = slices
	return true, nil
}

func (s *Store) IncrRemaining(pieId int64, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return 0, err
	}
	s.remaining[pieId] += delta
	return s.remaining[pieId], nil
}

func (s *Store) GetPurchase(pieId int64, username string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return 0, false, err
	}
	n, found := s.purchases[pieId][username]
	return n, found, nil
}

func (s *Store) IncrPurchase(pieId int64, username string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return 0, err
	}
	return s.incrPurchase(pieId, username, delta), nil
}

func (s *Store) incrPurchase(pieId int64, username string, delta int64) int64 {
	ledger, found := s.purchases[pieId]
	if !found {
		ledger = map[string]int64{}
		s.purchases[pieId] = ledger
	}
	ledger[username] += delta
	return ledger[username]
}

func (s *Store) GetPurchases(pieId int64) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(s.purchases[pieId]))
	for user, n := range s.purchases[pieId] {
		out[user] = n
	}
	return out, nil
}

func (s *Store) GetBlacklist(username string) ([]byte, error) {
	return s.getBitmap(models.BlacklistKey(username))
}

func (s *Store) IsBlacklisted(username string, position int) (bool, error) {
	return s.getBit(models.BlacklistKey(username), position)
}

func (s *Store) SetBlacklisted(username string, position int) error {
	return s.setBit(models.BlacklistKey(username), position)
}

func (s *Store) GetSoldOut() ([]byte, error) {
	return s.getBitmap(models.KeySoldOut)
}

func (s *Store) IsSoldOut(position int) (bool, error) {
	return s.getBit(models.KeySoldOut, position)
}

func (s *Store) SetSoldOut(position int) error {
	return s.setBit(models.KeySoldOut, position)
}

func (s *Store) getBitmap(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return nil, err
	}
	b, found := s.bitmaps[key]
	if !found {
		return nil, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *Store) getBit(key string, position int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return false, err
	}
	return bitvec.FromBytes(s.bitmaps[key]).Get(position), nil
}

func (s *Store) setBit(key string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return err
	}
	s.setBitLocked(key, position)
	return nil
}

// setBitLocked grows the bitmap a byte at a time, like SETBIT does.
func (s *Store) setBitLocked(key string, position int) {
	v := bitvec.FromBytes(s.bitmaps[key])
	if position >= v.Len() {
		v.Grow((position/8+1)*8-v.Len(), false)
	}
	v.Set(position, true)
	s.bitmaps[key] = v.Bytes()
}

func (s *Store) CommitPurchase(intent *models.PurchaseIntent) (*models.PurchaseOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.unavailable(); err != nil {
		return nil, err
	}

	blacklistKey := models.BlacklistKey(intent.Username)
	if bitvec.FromBytes(s.bitmaps[blacklistKey]).Get(intent.Position) {
		return &models.PurchaseOutcome{
			Status:      models.PurchaseStatusOverLimit,
			Reason:      models.RejectReasonBlacklisted,
			Blacklisted: true,
		}, nil
	}

	remaining := s.remaining[intent.PieId]
	if remaining <= 0 {
		return &models.PurchaseOutcome{
			Status:    models.PurchaseStatusOutOfStock,
			Reason:    models.RejectReasonSoldOut,
			Remaining: remaining,
		}, nil
	}
	if intent.Slices > remaining {
		return &models.PurchaseOutcome{
			Status:    models.PurchaseStatusOutOfStock,
			Reason:    models.RejectReasonNotEnough,
			Remaining: remaining,
		}, nil
	}

	prior := s.purchases[intent.PieId][intent.Username]
	if prior+intent.Slices > intent.Cap {
		return &models.PurchaseOutcome{
			Status:    models.PurchaseStatusOverLimit,
			Reason:    models.RejectReasonCapReached,
			Remaining: remaining,
			Purchased: prior,
		}, nil
	}

	outcome := &models.PurchaseOutcome{Status: models.PurchaseStatusSuccess}
	outcome.Purchased = s.incrPurchase(intent.PieId, intent.Username, intent.Slices)
	s.remaining[intent.PieId] -= intent.Slices
	outcome.Remaining = s.remaining[intent.PieId]
	if outcome.Purchased == intent.Cap {
		s.setBitLocked(blacklistKey, intent.Position)
		outcome.Blacklisted = true
	}
	if outcome.Remaining <= 0 {
		s.setBitLocked(models.KeySoldOut, intent.Position)
		outcome.SoldOut = true
	}
	return outcome, nil
}
