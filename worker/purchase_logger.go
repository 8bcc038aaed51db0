/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package worker

import (
	"time"

	"github.com/siddontang/go-log/log"

	"github.com/jhblack-olya/pie-engine/models"
)

const (
	maxBatchSize = 100
	maxRetries   = 3
)

var retryDelay = time.Second

// PurchaseLogger ships purchase events to a LogStore in batches. Purchases are
// already committed when they get here; a failed write is retried a few times
// and then dropped with an error log.
type PurchaseLogger struct {
	logStore LogStore
	logCh    chan *models.PurchaseEvent
	done     chan struct{}
}

func NewPurchaseLogger(logStore LogStore) *PurchaseLogger {
	return &PurchaseLogger{
		logStore: logStore,
		logCh:    make(chan *models.PurchaseEvent, 10000),
		done:     make(chan struct{}),
	}
}

func (p *PurchaseLogger) Start() {
	go p.runCommitter()
}

// Stop flushes what is queued and waits for the committer to exit.
func (p *PurchaseLogger) Stop() {
	close(p.logCh)
	<-p.done
}

func (p *PurchaseLogger) OnPurchase(event *models.PurchaseEvent) {
	select {
	case p.logCh <- event:
	default:
		log.Errorf("purchase log queue full, dropping receipt %v", event.ReceiptId)
	}
}

func (p *PurchaseLogger) runCommitter() {
	defer close(p.done)

	var logs []*models.PurchaseEvent
	for event := range p.logCh {
		logs = append(logs, event)

		if len(p.logCh) > 0 && len(logs) < maxBatchSize {
			continue
		}

		p.store(logs)
		logs = nil
	}
	if len(logs) > 0 {
		p.store(logs)
	}
}

func (p *PurchaseLogger) store(logs []*models.PurchaseEvent) {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = p.logStore.Store(logs)
		if err == nil {
			return
		}
		log.Warnf("store %v purchase logs failed (attempt %v): %v", len(logs), i+1, err)
		time.Sleep(retryDelay)
	}
	log.Errorf("dropping %v purchase logs: %v", len(logs), err)
}
