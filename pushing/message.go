/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package pushing

import (
	"fmt"
	"time"
)

type Channel string

// Format narrows a channel to a single pie.
func (t Channel) Format(pieId int64) string {
	return fmt.Sprintf("%v:%v", t, pieId)
}

const (
	ChannelPurchase = Channel("purchase")
	ChannelSoldOut  = Channel("sold_out")

	RequestTypeSubscribe   = "subscribe"
	RequestTypeUnsubscribe = "unsubscribe"

	MessageTypeSubscriptions = "subscriptions"
	MessageTypeError         = "error"
)

// Request is what a client sends. Without pie ids the whole channel is
// (un)subscribed, otherwise only the listed pies.
type Request struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
	PieIds   []int64  `json:"pieIds"`
}

type SubscriptionsMessage struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PurchaseMessage struct {
	Type      string    `json:"type"`
	ReceiptId string    `json:"receiptId"`
	PieId     int64     `json:"pieId"`
	Username  string    `json:"username"`
	Slices    int64     `json:"slices"`
	Remaining int64     `json:"remaining"`
	Time      time.Time `json:"time"`
}

type SoldOutMessage struct {
	Type     string    `json:"type"`
	PieId    int64     `json:"pieId"`
	Position int       `json:"position"`
	Time     time.Time `json:"time"`
}
