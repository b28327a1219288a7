/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2024 CERN and copyright holders of ALICE O².
 * Author: Teo Mrnjavac <teo.mrnjavac@cern.ch>
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 * In applying this license CERN does not waive the privileges and
 * immunities granted to it by virtue of its status as an
 * Intergovernmental Organization or submit itself to any jurisdiction.
 */

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AliceO2Group/LampControl/common/event/topic"
	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/AliceO2Group/LampControl/common/utils/uid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var log = logger.New(logrus.StandardLogger(), "event")

const (
	batchQueueSize = 1000
	maxBatchSize   = 100
)

type Writer interface {
	WriteEvent(e Event)
	Close()
}

// DummyWriter is an implementation of Writer that drops every event.
type DummyWriter struct{}

func (*DummyWriter) WriteEvent(Event) {}
func (*DummyWriter) Close()           {}

// KafkaWriter serializes events to JSON and writes them to Kafka in
// batches from a background goroutine, so that WriteEvent never blocks on
// the network.
type KafkaWriter struct {
	*kafka.Writer

	mu                  sync.Mutex
	closed              bool
	toBatchMessagesChan chan kafka.Message
	messageBuffer       *FifoBuffer[kafka.Message]
	runningWorkers      sync.WaitGroup
	writeFunction       func([]kafka.Message)
}

// NewWriter returns a KafkaWriter for the configured kafkaEndpoints, or a
// DummyWriter if none are configured.
func NewWriter(t topic.Topic) Writer {
	endpoints := viper.GetStringSlice("kafkaEndpoints")
	if len(endpoints) == 0 {
		log.Debug("no kafka endpoints configured, events will not be published")
		return &DummyWriter{}
	}
	return NewWriterWithTopic(t, endpoints)
}

func NewWriterWithTopic(t topic.Topic, endpoints []string) *KafkaWriter {
	w := &KafkaWriter{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(endpoints...),
			Topic:                  string(t),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
	w.writeFunction = w.writeMessages
	w.start()
	return w
}

func newKafkaWriter(kw *kafka.Writer, writeFunction func([]kafka.Message)) *KafkaWriter {
	w := &KafkaWriter{
		Writer:        kw,
		writeFunction: writeFunction,
	}
	w.start()
	return w
}

func (w *KafkaWriter) start() {
	w.toBatchMessagesChan = make(chan kafka.Message, batchQueueSize)
	w.messageBuffer = NewFifoBuffer[kafka.Message]()
	w.runningWorkers.Add(2)
	go w.batchingLoop()
	go w.writingLoop()
}

func (w *KafkaWriter) WriteEvent(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.WithField("event", e.GetName()).
			WithError(err).
			Error("failed to marshal event")
		return
	}

	msg := kafka.Message{Value: data}
	if keyed, ok := e.(interface{ GetLampId() uid.ID }); ok {
		msg.Key = []byte(keyed.GetLampId())
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		log.WithField("event", e.GetName()).Debug("writer closed, dropping event")
		return
	}
	// drop overflowing messages instead of blocking the lamp
	select {
	case w.toBatchMessagesChan <- msg:
	default:
		log.WithField("event", e.GetName()).Warn("event queue full, dropping event")
	}
}

func (w *KafkaWriter) batchingLoop() {
	defer w.runningWorkers.Done()
	for msg := range w.toBatchMessagesChan {
		w.messageBuffer.Push(msg)
	}
	w.messageBuffer.ReleaseGoroutines()
}

func (w *KafkaWriter) writingLoop() {
	defer w.runningWorkers.Done()
	for {
		messages := w.messageBuffer.PopMultiple(maxBatchSize)
		if len(messages) == 0 {
			return
		}
		w.writeFunction(messages)
	}
}

func (w *KafkaWriter) writeMessages(messages []kafka.Message) {
	err := w.WriteMessages(context.Background(), messages...)
	if err != nil {
		log.WithField("topic", w.Topic).
			WithField("count", len(messages)).
			WithError(fmt.Errorf("failed to write events: %w", err)).
			Error("kafka write failed")
	}
}

// Close flushes the queued events and closes the underlying Kafka writer.
func (w *KafkaWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.toBatchMessagesChan)
	w.mu.Unlock()

	w.runningWorkers.Wait()
	if w.Writer != nil {
		if err := w.Writer.Close(); err != nil {
			log.WithError(err).Warn("cannot close kafka writer")
		}
	}
}
