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
	"encoding/json"
	"time"

	"github.com/AliceO2Group/LampControl/common/utils/uid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/segmentio/kafka-go"
)

var _ = Describe("Reader", func() {
	When("converting kafka message to event", func() {
		It("decodes a transition payload", func() {
			id := uid.New()
			b, err := json.Marshal(NewLampTransitionEvent(id, "Photo", "Off", "Off", "rejected"))
			Expect(err).To(BeNil())

			evt, err := kafkaMessageToEvent(kafka.Message{Value: b})
			Expect(err).To(BeNil())
			transition, ok := evt.(*LampTransitionEvent)
			Expect(ok).To(BeTrue())
			Expect(transition.LampId).To(Equal(id))
			Expect(transition.Outcome).To(Equal("rejected"))
			Expect(transition.GetName()).To(Equal("Off -> Off"))
		})

		It("decodes a timer payload", func() {
			b, err := json.Marshal(NewLampTimerEvent(uid.New(), TimerDiscarded))
			Expect(err).To(BeNil())

			evt, err := kafkaMessageToEvent(kafka.Message{Value: b})
			Expect(err).To(BeNil())
			Expect(evt.GetName()).To(Equal("TIMER_discarded"))
			Expect(evt.GetTimestamp()).NotTo(BeEmpty())
		})

		It("fails on unknown message types", func() {
			_, err := kafkaMessageToEvent(kafka.Message{Topic: "t", Value: []byte(`{"_messageType":"Bogus"}`)})
			Expect(err).To(MatchError(ContainSubstring("unsupported event type")))
		})

		It("fails on malformed payloads", func() {
			_, err := kafkaMessageToEvent(kafka.Message{Value: []byte(`{`)})
			Expect(err).To(HaveOccurred())
		})
	})

	When("using the dummy reader", func() {
		It("blocks until cancelled", func() {
			var r Reader = &DummyReader{}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			evt, err := r.Next(ctx)
			Expect(evt).To(BeNil())
			Expect(err).To(MatchError(context.DeadlineExceeded))
			Expect(r.Close()).To(Succeed())
		})
	})
})
