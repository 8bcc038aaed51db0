/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Result of a purchase attempt
type PurchaseStatus string

func (s PurchaseStatus) String() string {
	return string(s)
}

// Why a purchase was refused
type RejectReason string

// Client preference used to pick among recommended pies
type Budget string

func (b Budget) String() string {
	return string(b)
}

const (
	PurchaseStatusSuccess    = PurchaseStatus("success")
	PurchaseStatusOverLimit  = PurchaseStatus("over_limit")
	PurchaseStatusOutOfStock = PurchaseStatus("out_of_stock")

	RejectReasonNone        = RejectReason("")
	RejectReasonTooMany     = RejectReason("too_many_slices")
	RejectReasonBlacklisted = RejectReason("blacklisted")
	RejectReasonSoldOut     = RejectReason("sold_out")
	RejectReasonNotEnough   = RejectReason("not_enough_slices")
	RejectReasonCapReached  = RejectReason("cap_reached")

	// scans positions from the highest index down
	BudgetCheap = Budget("cheap")
	// scans positions from the lowest index up
	BudgetPremium = Budget("premium")
)

type Pie struct {
	Id            int64           `gorm:"column:id;primary_key" json:"id"`
	Name          string          `gorm:"column:name" json:"name"`
	ImageUrl      string          `gorm:"column:image_url" json:"image_url"`
	PricePerSlice decimal.Decimal `gorm:"column:price_per_slice" sql:"type:decimal(32,16);" json:"price_per_slice"`
	Slices        int64           `gorm:"column:slices" json:"slices"`
	Labels        []string        `gorm:"-" json:"labels"`
}

func (Pie) TableName() string {
	return "g_pie"
}

type PieLabel struct {
	PieId int64  `gorm:"column:pie_id"`
	Label string `gorm:"column:label"`
}

func (PieLabel) TableName() string {
	return "g_pie_label"
}

type Purchase struct {
	Username string `json:"username"`
	Slices   int64  `json:"slices"`
}

type ShowPie struct {
	Id              int64           `json:"id"`
	Name            string          `json:"name"`
	ImageUrl        string          `json:"image_url"`
	PricePerSlice   decimal.Decimal `json:"price_per_slice"`
	RemainingSlices int64           `json:"remaining_slices"`
	Purchases       []*Purchase     `json:"purchases"`
}

type PurchaseIntent struct {
	PieId    int64
	Position int
	Username string
	Slices   int64
	Cap      int64
}

type PurchaseOutcome struct {
	Status PurchaseStatus
	Reason RejectReason
	// stock observed by the guards, or left after a successful purchase
	Remaining int64
	// the user's ledger entry before (rejected) or after (success) the purchase
	Purchased   int64
	Blacklisted bool
	SoldOut     bool
}

// PurchaseEvent is emitted for every successful purchase.
type PurchaseEvent struct {
	ReceiptId   string    `json:"receiptId"`
	PieId       int64     `json:"pieId"`
	Position    int       `json:"position"`
	Username    string    `json:"username"`
	Slices      int64     `json:"slices"`
	Total       int64     `json:"total"`
	Remaining   int64     `json:"remaining"`
	Blacklisted bool      `json:"blacklisted"`
	SoldOut     bool      `json:"soldOut"`
	Time        time.Time `json:"time"`
}
