/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package pushing

import (
	"sync"
)

type subscription struct {
	subscribers map[string]map[int64]*Client
	mu          sync.RWMutex
}

func newSubscription() *subscription {
	return &subscription{subscribers: map[string]map[int64]*Client{}}
}

func (s *subscription) subscribe(channel string, client *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.subscribers[channel]
	if !found {
		s.subscribers[channel] = map[int64]*Client{}
	}

	_, found = s.subscribers[channel][client.id]
	if found {
		return false
	}
	s.subscribers[channel][client.id] = client
	return true
}

func (s *subscription) unsubscribe(channel string, client *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found := s.subscribers[channel][client.id]
	if !found {
		return false
	}
	delete(s.subscribers[channel], client.id)
	if len(s.subscribers[channel]) == 0 {
		delete(s.subscribers, channel)
	}
	return true
}

func (s *subscription) publish(channel string, msg interface{}) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.subscribers[channel] {
		c.send(msg)
	}
}

func (s *subscription) count(channel string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers[channel])
}
