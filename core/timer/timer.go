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

// Package timer provides the expiry timer collaborator driven by lamp
// controllers, along with a wall clock implementation.
package timer

import (
	"sync"
	"time"

	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/sirupsen/logrus"
)

var log = logger.New(logrus.StandardLogger(), "timer")

// Timer delivers expiry notifications to a single registered handler.
// Stop must be idempotent and cancel pending expiries. An expiry whose
// delivery has already begun when Stop is called may still reach the
// handler, so handlers must tolerate a late call.
type Timer interface {
	SetHandler(fn func())
	Start()
	Stop()
}

// Interval is a wall clock Timer that fires every interval after Start
// until Stop is called. If Repeat is false it fires at most once per
// Start.
type Interval struct {
	mu sync.Mutex

	interval   time.Duration
	repeat     bool
	handler    func()
	t          *time.Timer
	generation uint64
	running    bool
}

func NewInterval(interval time.Duration, repeat bool) *Interval {
	return &Interval{
		interval: interval,
		repeat:   repeat,
	}
}

func (i *Interval) SetHandler(fn func()) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handler = fn
}

// Start (re)arms the timer. Calling Start while running restarts the
// countdown.
func (i *Interval) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.disarm()
	i.running = true
	i.arm()
	log.WithField("interval", i.interval).Trace("timer started")
}

func (i *Interval) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return
	}
	i.disarm()
	i.running = false
	log.Trace("timer stopped")
}

func (i *Interval) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}

func (i *Interval) Interval() time.Duration {
	return i.interval
}

// must hold i.mu
func (i *Interval) arm() {
	gen := i.generation
	i.t = time.AfterFunc(i.interval, func() {
		i.expire(gen)
	})
}

// must hold i.mu
func (i *Interval) disarm() {
	i.generation++
	if i.t != nil {
		i.t.Stop()
		i.t = nil
	}
}

func (i *Interval) expire(gen uint64) {
	i.mu.Lock()
	if gen != i.generation || !i.running {
		i.mu.Unlock()
		log.WithField("generation", gen).Trace("discarding stale expiry")
		return
	}
	if i.repeat {
		i.arm()
	} else {
		i.running = false
		i.t = nil
	}
	handler := i.handler
	i.mu.Unlock()

	if handler != nil {
		handler()
	}
}
