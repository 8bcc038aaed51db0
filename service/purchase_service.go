/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"
	"github.com/siddontang/go-log/log"

	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/models"
)

var ErrInvalidSlices = errors.New("slices must be at least 1")

// amountTolerance is how far a paid amount may drift from slices*price.
var amountTolerance = decimal.NewFromFloat(1e-5)

// PurchasePie runs the purchase guards in order and, if all pass, commits the
// purchase. A refused purchase is reported through the outcome status, not as
// an error; errors only come from the store.
func PurchasePie(store models.Store, pieId int64, position int, username string, slices int64) (*models.PurchaseOutcome, error) {
	if slices < 1 {
		return nil, ErrInvalidSlices
	}

	if slices > models.AllowedSlices {
		return &models.PurchaseOutcome{
			Status: models.PurchaseStatusOverLimit,
			Reason: models.RejectReasonTooMany,
		}, nil
	}

	blacklisted, err := store.IsBlacklisted(username, position)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return &models.PurchaseOutcome{
			Status:      models.PurchaseStatusOverLimit,
			Reason:      models.RejectReasonBlacklisted,
			Blacklisted: true,
		}, nil
	}

	// stock and cap guards are re-checked inside the commit so concurrent
	// buyers can not both pass them
	return store.CommitPurchase(&models.PurchaseIntent{
		PieId:    pieId,
		Position: position,
		Username: username,
		Slices:   slices,
		Cap:      models.AllowedSlices,
	})
}

// ValidateAmount reports whether amount pays for slices of the pie.
func ValidateAmount(pie *models.Pie, slices int64, amount decimal.Decimal) bool {
	price := pie.PricePerSlice.Mul(decimal.New(slices, 0))
	return price.Sub(amount).Abs().Cmp(amountTolerance) <= 0
}

type PurchaseObserver interface {
	OnPurchase(event *models.PurchaseEvent)
}

type blacklistKey struct {
	username string
	position int
}

// PurchaseService resolves pies through the catalog, remembers which users are
// blacklisted for which positions and tells observers about every sale.
type PurchaseService struct {
	store   models.Store
	catalog *catalog.Catalog

	// blacklist bits are never cleared, so a cached hit stays true forever
	blacklisted *lru.Cache

	observers []PurchaseObserver
}

func NewPurchaseService(store models.Store, cat *catalog.Catalog, cacheSize int) (*PurchaseService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &PurchaseService{
		store:       store,
		catalog:     cat,
		blacklisted: cache,
	}, nil
}

// AddObserver must be called before the service starts taking purchases.
func (s *PurchaseService) AddObserver(o PurchaseObserver) {
	s.observers = append(s.observers, o)
}

// Purchase buys slices of a pie for username. The event is nil unless the
// purchase succeeded.
func (s *PurchaseService) Purchase(pieId int64, username string, slices int64) (*models.PurchaseOutcome, *models.PurchaseEvent, error) {
	_, position, err := s.catalog.Lookup(pieId)
	if err != nil {
		return nil, nil, err
	}

	key := blacklistKey{username: username, position: position}
	if slices >= 1 && slices <= models.AllowedSlices && s.blacklisted.Contains(key) {
		return &models.PurchaseOutcome{
			Status:      models.PurchaseStatusOverLimit,
			Reason:      models.RejectReasonBlacklisted,
			Blacklisted: true,
		}, nil, nil
	}

	outcome, err := PurchasePie(s.store, pieId, position, username, slices)
	if err != nil {
		if errors.Is(err, models.ErrStoreUnavailable) {
			log.Errorf("purchase pie %v for %v: %v", pieId, username, err)
		}
		return nil, nil, err
	}

	if outcome.Blacklisted {
		s.blacklisted.Add(key, struct{}{})
	}
	if outcome.Status != models.PurchaseStatusSuccess {
		log.Infof("purchase of %v slices of pie %v by %v refused: %v (%v)",
			slices, pieId, username, outcome.Status, outcome.Reason)
		return outcome, nil, nil
	}

	event := &models.PurchaseEvent{
		ReceiptId:   uuid.New().String(),
		PieId:       pieId,
		Position:    position,
		Username:    username,
		Slices:      slices,
		Total:       outcome.Purchased,
		Remaining:   outcome.Remaining,
		Blacklisted: outcome.Blacklisted,
		SoldOut:     outcome.SoldOut,
		Time:        time.Now(),
	}
	if outcome.SoldOut {
		log.Infof("pie %v sold out", pieId)
	}
	for _, o := range s.observers {
		o.OnPurchase(event)
	}
	return outcome, event, nil
}
