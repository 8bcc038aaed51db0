/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package service

import (
	"github.com/jhblack-olya/pie-engine/bitvec"
	"github.com/jhblack-olya/pie-engine/catalog"
	"github.com/jhblack-olya/pie-engine/models"
)

// Recommend picks one pie carrying every label that the user may still buy and
// that is not sold out. A nil pie with a nil error means nothing matched.
//
// "cheap" takes the match at the highest position and "premium" the one at the
// lowest; any other budget matches nothing.
func Recommend(store models.Store, cat *catalog.Catalog, labels []string, budget models.Budget, username string) (*models.Pie, error) {
	if len(labels) == 0 {
		return nil, nil
	}

	candidates := cat.Candidates(labels)
	if candidates.None() {
		return nil, nil
	}

	if budget != models.BudgetCheap && budget != models.BudgetPremium {
		return nil, nil
	}

	blacklistBytes, err := store.GetBlacklist(username)
	if err != nil {
		return nil, err
	}
	soldOutBytes, err := store.GetSoldOut()
	if err != nil {
		return nil, err
	}
	blacklist := bitvec.FromBytes(blacklistBytes)
	soldOut := bitvec.FromBytes(soldOutBytes)

	bitvec.PadToMatch(candidates, blacklist)
	bitvec.PadToMatch(candidates, soldOut)
	bitvec.PadToMatch(blacklist, soldOut)

	blacklist.Negate()
	soldOut.Negate()
	candidates.Intersect(blacklist)
	candidates.Intersect(soldOut)

	var pos int
	var found bool
	if budget == models.BudgetCheap {
		pos, found = candidates.Last()
	} else {
		pos, found = candidates.First()
	}
	if !found {
		return nil, nil
	}

	// bits past the catalog come from padding and never name a pie
	pie, ok := cat.PieAt(pos)
	if !ok {
		return nil, nil
	}
	return pie, nil
}
