/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package pushing

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Each connection corresponds to a client, and the client is responsible for the data I / O of the connection
type Client struct {
	id       int64
	conn     *websocket.Conn
	writeCh  chan interface{}
	sub      *subscription
	channels map[string]struct{}
	mu       sync.Mutex
	closed   chan struct{}
	once     sync.Once
}

func NewClient(id int64, conn *websocket.Conn, sub *subscription) *Client {
	return &Client{
		id:       id,
		conn:     conn,
		writeCh:  make(chan interface{}, 256),
		sub:      sub,
		channels: map[string]struct{}{},
		closed:   make(chan struct{}),
	}
}

func (c *Client) startServe() {
	go c.runReader()
	go c.runWriter()
}

// send drops the message when the client can not keep up.
func (c *Client) send(msg interface{}) {
	select {
	case c.writeCh <- msg:
	case <-c.closed:
	default:
		log.Warn("push client too slow, message dropped", zap.Int64("client", c.id))
	}
}

func (c *Client) runReader() {
	defer c.close()
	for {
		var req Request
		err := c.conn.ReadJSON(&req)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("push client read failed", zap.Int64("client", c.id), zap.Error(err))
			}
			return
		}
		c.onRequest(&req)
	}
}

func (c *Client) onRequest(req *Request) {
	var channels []string
	for _, channel := range req.Channels {
		if Channel(channel) != ChannelPurchase && Channel(channel) != ChannelSoldOut {
			c.send(&ErrorMessage{Type: MessageTypeError, Message: fmt.Sprintf("unknown channel: %v", channel)})
			return
		}
		if len(req.PieIds) == 0 {
			channels = append(channels, channel)
			continue
		}
		for _, pieId := range req.PieIds {
			channels = append(channels, Channel(channel).Format(pieId))
		}
	}

	switch req.Type {
	case RequestTypeSubscribe:
		for _, channel := range channels {
			c.subscribe(channel)
		}
	case RequestTypeUnsubscribe:
		for _, channel := range channels {
			c.unsubscribe(channel)
		}
	default:
		c.send(&ErrorMessage{Type: MessageTypeError, Message: fmt.Sprintf("unknown request type: %v", req.Type)})
		return
	}
	c.send(&SubscriptionsMessage{Type: MessageTypeSubscriptions, Channels: c.subscribed()})
}

func (c *Client) subscribe(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub.subscribe(channel, c) {
		c.channels[channel] = struct{}{}
	}
}

func (c *Client) unsubscribe(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub.unsubscribe(channel, c) {
		delete(c.channels, channel)
	}
}

func (c *Client) subscribed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	channels := make([]string, 0, len(c.channels))
	for channel := range c.channels {
		channels = append(channels, channel)
	}
	sort.Strings(channels)
	return channels
}

func (c *Client) runWriter() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.writeCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.closed)
		c.mu.Lock()
		for channel := range c.channels {
			c.sub.unsubscribe(channel, c)
		}
		c.channels = map[string]struct{}{}
		c.mu.Unlock()
		_ = c.conn.Close()
	})
}
