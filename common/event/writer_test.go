/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2025 CERN and copyright holders of ALICE O².
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
	"encoding/json"
	"sync"

	"github.com/AliceO2Group/LampControl/common/utils/uid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/segmentio/kafka-go"
)

var _ = Describe("Writer", func() {
	When("event is written into writer", func() {
		It("transforms it to kafka message and sends it", func() {
			received := make(chan []kafka.Message, 1)
			writer := newKafkaWriter(&kafka.Writer{Topic: "testtopic"}, func(messages []kafka.Message) {
				received <- messages
			})

			id := uid.New()
			writer.WriteEvent(NewLampTransitionEvent(id, "Push", "Off", "On", "transitioned"))

			var messages []kafka.Message
			Eventually(received).Should(Receive(&messages))
			Expect(messages).To(HaveLen(1))
			Expect(string(messages[0].Key)).To(Equal(id.String()))

			decoded := LampTransitionEvent{}
			Expect(json.Unmarshal(messages[0].Value, &decoded)).To(Succeed())
			Expect(decoded.Source).To(Equal("Off"))
			Expect(decoded.Destination).To(Equal("On"))
			Expect(decoded.MessageType).To(Equal("LampTransitionEvent"))
			writer.Close()
		})
	})

	When("the writer is closed", func() {
		It("flushes queued events and ignores later ones", func() {
			mu := sync.Mutex{}
			count := 0
			writer := newKafkaWriter(&kafka.Writer{Topic: "testtopic"}, func(messages []kafka.Message) {
				mu.Lock()
				defer mu.Unlock()
				count += len(messages)
			})

			for i := 0; i < 10; i++ {
				writer.WriteEvent(NewLampTimerEvent(uid.New(), TimerStarted))
			}
			writer.Close()
			writer.WriteEvent(NewLampTimerEvent(uid.New(), TimerStopped))
			writer.Close()

			mu.Lock()
			defer mu.Unlock()
			Expect(count).To(Equal(10))
		})
	})

	When("using the dummy writer", func() {
		It("accepts events without side effects", func() {
			var w Writer = &DummyWriter{}
			w.WriteEvent(NewLampTimerEvent(uid.New(), TimerStarted))
			w.Close()
		})
	})
})
