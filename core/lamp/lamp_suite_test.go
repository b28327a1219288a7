/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2026 CERN and copyright holders of ALICE O².
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

package lamp

import (
	"sync"
	"testing"
	"time"

	"github.com/AliceO2Group/LampControl/common/event"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLamp(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Lamp Test Suite")
}

// manualTimer is a Timer driven by the test through Expire.
type manualTimer struct {
	mu       sync.Mutex
	handlers []func()
	starts   int
	stops    int
	running  bool
}

func (m *manualTimer) SetHandler(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

func (m *manualTimer) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	m.running = true
}

func (m *manualTimer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.running = false
}

// Expire delivers an expiry to the most recently registered handler.
func (m *manualTimer) Expire() {
	m.mu.Lock()
	if len(m.handlers) == 0 {
		m.mu.Unlock()
		return
	}
	h := m.handlers[len(m.handlers)-1]
	m.mu.Unlock()
	h()
}

func (m *manualTimer) handler(i int) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handlers[i]
}

func (m *manualTimer) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts, m.stops
}

type recordingWriter struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingWriter) WriteEvent(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingWriter) Close() {}

func (r *recordingWriter) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

func at(hour, minute, second int) Clock {
	return func() time.Time {
		return time.Date(2024, time.March, 4, hour, minute, second, 0, time.Local)
	}
}
