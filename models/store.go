/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package models

import "errors"

// ErrStoreUnavailable wraps every failure talking to the backing store.
var ErrStoreUnavailable = errors.New("store unavailable")

// Store is the shared key/value backend holding inventory, purchase ledgers,
// blacklists and the sold-out bitmap. Each method is a single atomic operation;
// bitmaps are returned exactly as stored (nil when the key is absent).
type Store interface {
	GetRemaining(pieId int64) (int64, error)
	GetAllRemaining(pieIds []int64) ([]int64, error)
	SetRemaining(pieId int64, slices int64) error
	// InitRemaining sets the counter only when it does not exist yet.
	InitRemaining(pieId int64, slices int64) (bool, error)
	IncrRemaining(pieId int64, delta int64) (int64, error)

	GetPurchase(pieId int64, username string) (int64, bool, error)
	IncrPurchase(pieId int64, username string, delta int64) (int64, error)
	GetPurchases(pieId int64) (map[string]int64, error)

	GetBlacklist(username string) ([]byte, error)
	IsBlacklisted(username string, position int) (bool, error)
	SetBlacklisted(username string, position int) error

	GetSoldOut() ([]byte, error)
	IsSoldOut(position int) (bool, error)
	SetSoldOut(position int) error

	// CommitPurchase evaluates the blacklist, stock and cap guards in order and,
	// when they all pass, applies the ledger increment, stock decrement and
	// blacklist/sold-out bits as one atomic unit.
	CommitPurchase(intent *PurchaseIntent) (*PurchaseOutcome, error)
}
