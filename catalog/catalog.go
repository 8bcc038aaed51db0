/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/siddontang/go-log/log"

	"github.com/jhblack-olya/pie-engine/bitvec"
	"github.com/jhblack-olya/pie-engine/models"
)

var (
	ErrDuplicatePie = errors.New("duplicate pie id")
	ErrUnknownPie   = errors.New("unknown pie")
)

// Catalog is the only place a pie's position is decided. Position i is the i-th
// cheapest pie, and bit i of every label, blacklist and sold-out bitmap refers
// to it. A Catalog is never modified after New returns, so it is shared
// between goroutines without locking.
type Catalog struct {
	// position -> pie
	pies []*models.Pie

	// pie id -> position, iterated in id order
	index *treemap.Map

	// label -> pies carrying it
	labels map[string]*bitvec.BitVec
}

// New orders pies by price (ties by id) and derives the label bitmaps.
func New(pies []*models.Pie) (*Catalog, error) {
	sorted := make([]*models.Pie, len(pies))
	copy(sorted, pies)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].PricePerSlice.Cmp(sorted[j].PricePerSlice); c != 0 {
			return c < 0
		}
		return sorted[i].Id < sorted[j].Id
	})

	c := &Catalog{
		pies:   sorted,
		index:  treemap.NewWith(utils.Int64Comparator),
		labels: map[string]*bitvec.BitVec{},
	}

	for pos, pie := range sorted {
		if _, found := c.index.Get(pie.Id); found {
			return nil, fmt.Errorf("%w: %v", ErrDuplicatePie, pie.Id)
		}
		c.index.Put(pie.Id, pos)

		for _, label := range pie.Labels {
			bv, found := c.labels[label]
			if !found {
				bv = bitvec.New(len(sorted))
				c.labels[label] = bv
			}
			bv.Set(pos, true)
		}
	}

	log.Infof("catalog loaded: %v pies, %v labels", len(sorted), len(c.labels))
	return c, nil
}

// Load reads a json array of pies.
func Load(fileName string) ([]*models.Pie, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	var pies []*models.Pie
	err = json.Unmarshal(bytes, &pies)
	if err != nil {
		return nil, fmt.Errorf("parse %v: %v", fileName, err)
	}
	return pies, nil
}

func (c *Catalog) Len() int {
	return len(c.pies)
}

func (c *Catalog) PieAt(position int) (*models.Pie, bool) {
	if position < 0 || position >= len(c.pies) {
		return nil, false
	}
	return c.pies[position], true
}

// Lookup resolves a pie id to the pie and its position.
func (c *Catalog) Lookup(pieId int64) (*models.Pie, int, error) {
	pos, found := c.index.Get(pieId)
	if !found {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnknownPie, pieId)
	}
	return c.pies[pos.(int)], pos.(int), nil
}

// Pies returns every pie in id order.
func (c *Catalog) Pies() []*models.Pie {
	pies := make([]*models.Pie, 0, len(c.pies))
	for it := c.index.Iterator(); it.Next(); {
		pies = append(pies, c.pies[it.Value().(int)])
	}
	return pies
}

// Label returns a copy of the label's bitmap.
func (c *Catalog) Label(label string) (*bitvec.BitVec, bool) {
	bv, found := c.labels[label]
	if !found {
		return nil, false
	}
	return bv.Clone(), true
}

func (c *Catalog) Labels() []string {
	labels := make([]string, 0, len(c.labels))
	for label := range c.labels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Candidates ands the bitmaps of every label. Any label the catalog does not
// know makes the whole result empty.
func (c *Catalog) Candidates(labels []string) *bitvec.BitVec {
	out := bitvec.New(len(c.pies))
	if len(labels) == 0 {
		return out
	}
	for i, label := range labels {
		bv, found := c.labels[label]
		if !found {
			return bitvec.New(len(c.pies))
		}
		if i == 0 {
			out = bv.Clone()
			continue
		}
		out.Intersect(bv)
	}
	return out
}
