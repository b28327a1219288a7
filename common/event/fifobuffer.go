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
)

// FifoBuffer is a threadsafe FIFO with builtin waiting for new data in
// PopMultiple. It is meant to sit between goroutines, a plain slice is
// cheaper when used synchronously.
type FifoBuffer[T any] struct {
	lock sync.Mutex
	cond *sync.Cond

	buffer   []T
	released bool
}

func NewFifoBuffer[T any]() *FifoBuffer[T] {
	result := &FifoBuffer[T]{}
	result.cond = sync.NewCond(&result.lock)
	return result
}

func (f *FifoBuffer[T]) Push(value T) {
	f.cond.L.Lock()
	f.buffer = append(f.buffer, value)
	f.cond.Signal()
	f.cond.L.Unlock()
}

// PopMultiple blocks until the buffer holds at least one value and then
// returns up to numberToPop of them. Once ReleaseGoroutines has been
// called it no longer blocks, and an empty result means the buffer is
// drained.
func (f *FifoBuffer[T]) PopMultiple(numberToPop uint) (result []T) {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	for len(f.buffer) == 0 {
		if f.released {
			return
		}
		f.cond.Wait()
	}

	n := len(f.buffer)
	if int(numberToPop) < n {
		n = int(numberToPop)
	}
	result = make([]T, n)
	copy(result, f.buffer[0:n])
	f.buffer = f.buffer[n:]

	return
}

func (f *FifoBuffer[T]) Length() int {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()
	return len(f.buffer)
}

// ReleaseGoroutines wakes every goroutine blocked in PopMultiple and
// makes later calls on an empty buffer return immediately.
func (f *FifoBuffer[T]) ReleaseGoroutines() {
	f.cond.L.Lock()
	f.released = true
	f.cond.Broadcast()
	f.cond.L.Unlock()
}
