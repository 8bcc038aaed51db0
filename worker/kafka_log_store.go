/* Copyright (C) 2021-2022 Global Art Exchange, LLC ("GAX"). All Rights Reserved.
You may not use, distribute and modify this code without a license;
To obtain a license write to legal@gax.llc
*/

package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhblack-olya/pie-engine/models"
)

type LogStore interface {
	Store(logs []*models.PurchaseEvent) error
}

// KafkaLogStore writes purchase events keyed by pie id, so the events of one
// pie stay in one partition.
type KafkaLogStore struct {
	logWriter *kafka.Writer
}

func NewKafkaLogStore(topic string, brokers []string) *KafkaLogStore {
	s := &KafkaLogStore{}
	s.logWriter = kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 5 * time.Millisecond,
	})
	return s
}

func (s *KafkaLogStore) Store(logs []*models.PurchaseEvent) error {
	var messages []kafka.Message
	for _, log := range logs {
		val, err := json.Marshal(log)
		if err != nil {
			return err
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(strconv.FormatInt(log.PieId, 10)),
			Value: val,
		})
	}
	return s.logWriter.WriteMessages(context.Background(), messages...)
}

func (s *KafkaLogStore) Close() error {
	return s.logWriter.Close()
}
