/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package pushing

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/jhblack-olya/pie-engine/models"
)

// Server pushes purchase and sold-out messages to websocket clients.
type Server struct {
	addr     string
	path     string
	upgrader websocket.Upgrader
	sub      *subscription
	clientId int64
}

func NewServer(addr, path string) *Server {
	return &Server{
		addr: addr,
		path: path,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sub: newSubscription(),
	}
}

func (s *Server) Run() {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.ServeHTTP)

	log.Info("push server starting", zap.String("addr", s.addr), zap.String("path", s.path))
	err := http.ListenAndServe(s.addr, mux)
	if err != nil {
		panic(err)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(atomic.AddInt64(&s.clientId, 1), conn, s.sub)
	client.startServe()
}

func (s *Server) OnPurchase(event *models.PurchaseEvent) {
	purchase := &PurchaseMessage{
		Type:      string(ChannelPurchase),
		ReceiptId: event.ReceiptId,
		PieId:     event.PieId,
		Username:  event.Username,
		Slices:    event.Slices,
		Remaining: event.Remaining,
		Time:      event.Time,
	}
	s.sub.publish(string(ChannelPurchase), purchase)
	s.sub.publish(ChannelPurchase.Format(event.PieId), purchase)

	if !event.SoldOut {
		return
	}
	soldOut := &SoldOutMessage{
		Type:     string(ChannelSoldOut),
		PieId:    event.PieId,
		Position: event.Position,
		Time:     event.Time,
	}
	s.sub.publish(string(ChannelSoldOut), soldOut)
	s.sub.publish(ChannelSoldOut.Format(event.PieId), soldOut)
}
