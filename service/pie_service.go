/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package service

import (
	"sort"

	"github.com/siddontang/go-log/log"

	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/models"
)

// SeedInventory creates the remaining-slices counter of every pie that does
// not have one yet. Existing counters are left alone, so a restart never
// restocks a pie.
func SeedInventory(store models.Store, cat *catalog.Catalog) error {
	for _, pie := range cat.Pies() {
		created, err := store.InitRemaining(pie.Id, pie.Slices)
		if err != nil {
			return err
		}
		if created {
			log.Infof("seeded pie %v (%v) with %v slices", pie.Id, pie.Name, pie.Slices)
		}
	}
	return nil
}

// GetPies lists every pie in id order with its remaining slices.
func GetPies(store models.Store, cat *catalog.Catalog) ([]*models.ShowPie, error) {
	pies := cat.Pies()
	ids := make([]int64, len(pies))
	for i, pie := range pies {
		ids[i] = pie.Id
	}

	remaining, err := store.GetAllRemaining(ids)
	if err != nil {
		return nil, err
	}

	showPies := make([]*models.ShowPie, len(pies))
	for i, pie := range pies {
		showPies[i] = newShowPie(pie, remaining[i])
	}
	return showPies, nil
}

// GetPie returns one pie with its remaining slices and everyone who bought it.
func GetPie(store models.Store, cat *catalog.Catalog, pieId int64) (*models.ShowPie, error) {
	pie, _, err := cat.Lookup(pieId)
	if err != nil {
		return nil, err
	}

	remaining, err := store.GetRemaining(pieId)
	if err != nil {
		return nil, err
	}
	ledger, err := store.GetPurchases(pieId)
	if err != nil {
		return nil, err
	}

	showPie := newShowPie(pie, remaining)
	for username, slices := range ledger {
		showPie.Purchases = append(showPie.Purchases, &models.Purchase{Username: username, Slices: slices})
	}
	sort.Slice(showPie.Purchases, func(i, j int) bool {
		return showPie.Purchases[i].Username < showPie.Purchases[j].Username
	})
	return showPie, nil
}

func newShowPie(pie *models.Pie, remaining int64) *models.ShowPie {
	return &models.ShowPie{
		Id:              pie.Id,
		Name:            pie.Name,
		ImageUrl:        pie.ImageUrl,
		PricePerSlice:   pie.PricePerSlice,
		RemainingSlices: remaining,
		Purchases:       []*models.Purchase{},
	}
}
