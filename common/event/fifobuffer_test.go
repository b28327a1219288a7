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
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FifoBuffer", func() {
	When("popping fewer items than the buffer holds", func() {
		It("returns the oldest items", func() {
			buffer := NewFifoBuffer[int]()
			buffer.Push(1)
			buffer.Push(2)
			buffer.Push(3)

			Expect(buffer.Length()).To(Equal(3))
			Expect(buffer.PopMultiple(2)).To(Equal([]int{1, 2}))
			Expect(buffer.Length()).To(Equal(1))
		})
	})

	When("popping more items than the buffer holds", func() {
		It("returns only the available items", func() {
			buffer := NewFifoBuffer[int]()
			buffer.Push(1)

			Expect(buffer.PopMultiple(2)).To(Equal([]int{1}))
		})
	})

	When("a consumer waits on an empty buffer", func() {
		It("wakes up on push", func() {
			buffer := NewFifoBuffer[int]()
			ready := make(chan struct{})
			result := make(chan []int, 1)

			go func() {
				close(ready)
				result <- buffer.PopMultiple(42)
			}()

			<-ready
			buffer.Push(7)
			Eventually(result, time.Second).Should(Receive(Equal([]int{7})))
		})
	})

	When("goroutines are released", func() {
		It("unblocks waiting consumers with an empty result", func() {
			buffer := NewFifoBuffer[int]()
			var wg sync.WaitGroup
			wg.Add(1)
			started := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				close(started)
				Expect(buffer.PopMultiple(42)).To(BeEmpty())
			}()
			<-started
			time.Sleep(20 * time.Millisecond)
			buffer.ReleaseGoroutines()
			wg.Wait()
		})
		It("still drains the remaining values before returning empty", func() {
			buffer := NewFifoBuffer[int]()
			buffer.Push(1)
			buffer.ReleaseGoroutines()
			Expect(buffer.PopMultiple(5)).To(Equal([]int{1}))
			Expect(buffer.PopMultiple(5)).To(BeEmpty())
		})
	})
})
