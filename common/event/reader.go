/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2025 CERN and copyright holders of ALICE O².
 * Author: Piotr Konopka <pkonopka@cern.ch>
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
	"fmt"

	"github.com/AliceO2Group/LampControl/common/event/topic"
	"github.com/segmentio/kafka-go"
)

// Reader interface provides methods to read events.
type Reader interface {
	// Next should return the next event or cancel if the context is cancelled.
	Next(ctx context.Context) (Event, error)
	Close() error
}

// DummyReader is an implementation of Reader that never returns an event.
// Next blocks until ctx is cancelled.
type DummyReader struct{}

func (*DummyReader) Next(ctx context.Context) (Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (*DummyReader) Close() error { return nil }

// KafkaReader reads events from Kafka and provides a blocking, cancellable API to fetch events.
type KafkaReader struct {
	*kafka.Reader
	topic string
}

// NewReaderWithTopic creates a KafkaReader for the provided topic. An empty
// groupID reads the topic from the latest offset without committing.
func NewReaderWithTopic(t topic.Topic, endpoints []string, groupID string) *KafkaReader {
	cfg := kafka.ReaderConfig{
		Brokers:  endpoints,
		Topic:    string(t),
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	}
	if len(groupID) == 0 {
		cfg.StartOffset = kafka.LastOffset
	}

	return &KafkaReader{
		Reader: kafka.NewReader(cfg),
		topic:  string(t),
	}
}

// Next blocks until the next event is available or ctx is cancelled.
func (r *KafkaReader) Next(ctx context.Context) (Event, error) {
	if r == nil {
		return nil, fmt.Errorf("nil reader")
	}
	msg, err := r.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}
	return kafkaMessageToEvent(msg)
}

// Close stops the reader.
func (r *KafkaReader) Close() error {
	if r == nil {
		return nil
	}
	return r.Reader.Close()
}

func kafkaMessageToEvent(m kafka.Message) (Event, error) {
	evt, err := Decode(m.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal kafka message from %s: %w", m.Topic, err)
	}
	return evt, nil
}
