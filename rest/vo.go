package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhblack-olya/pie-engine/models"
)

type messageVo struct {
	Message string `json:"message"`
}

func newMessageVo(error error) *messageVo {
	return &messageVo{
		Message: error.Error(),
	}
}

type purchaseVo struct {
	ReceiptId string          `json:"receipt_id"`
	PieId     int64           `json:"pie_id"`
	Username  string          `json:"username"`
	Slices    int64           `json:"slices"`
	Amount    decimal.Decimal `json:"amount"`
	Total     int64           `json:"total"`
	Remaining int64           `json:"remaining"`
	Time      time.Time       `json:"time"`
}

func newPurchaseVo(event *models.PurchaseEvent, amount decimal.Decimal) *purchaseVo {
	return &purchaseVo{
		ReceiptId: event.ReceiptId,
		PieId:     event.PieId,
		Username:  event.Username,
		Slices:    event.Slices,
		Amount:    amount,
		Total:     event.Total,
		Remaining: event.Remaining,
		Time:      event.Time,
	}
}
