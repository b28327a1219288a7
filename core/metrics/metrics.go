/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2017 CERN and copyright holders of ALICE O².
 * Author: Teo Mrnjavac <teo.mrnjavac@cern.ch>
 *
 * Portions from examples in <https://github.com/mesos/mesos-go>:
 *     Copyright 2013-2015, Mesosphere, Inc.
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

// Package metrics declares the Prometheus collectors exported by lampd.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Subsystem = "lamp"
)

var (
	TransitionCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: Subsystem,
		Name:      "transition_count",
		Help:      "The number of completed state transitions.",
	}, []string{"source", "destination", "trigger"})
	RejectedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: Subsystem,
		Name:      "rejected_count",
		Help:      "The number of triggers rejected because no guard held.",
	}, []string{"state", "trigger"})
	IgnoredCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: Subsystem,
		Name:      "ignored_count",
		Help:      "The number of triggers explicitly ignored.",
	}, []string{"state", "trigger"})
	UnsupportedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: Subsystem,
		Name:      "unsupported_count",
		Help:      "The number of triggers fired with no configured rule.",
	}, []string{"state", "trigger"})
	FireLatency = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Subsystem: Subsystem,
		Name:      "fire_latency",
		Help:      "Time to process a trigger, by trigger.",
	}, []string{"trigger"})
	TimerStarts = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: Subsystem,
		Name:      "timer_starts",
		Help:      "The number of times the lamp timer was started.",
	})
	TimerStops = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: Subsystem,
		Name:      "timer_stops",
		Help:      "The number of times the lamp timer was stopped.",
	})
	DiscardedTimerEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: Subsystem,
		Name:      "discarded_timer_events",
		Help:      "The number of late timer expiries dropped after stop or teardown.",
	})
	LampOn = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem: Subsystem,
		Name:      "on",
		Help:      "1 if the lamp is on, 0 otherwise.",
	}, []string{"lamp"})
)

var registerMetrics sync.Once

func Register() {
	registerMetrics.Do(func() {
		prometheus.MustRegister(TransitionCount)
		prometheus.MustRegister(RejectedCount)
		prometheus.MustRegister(IgnoredCount)
		prometheus.MustRegister(UnsupportedCount)
		prometheus.MustRegister(FireLatency)
		prometheus.MustRegister(TimerStarts)
		prometheus.MustRegister(TimerStops)
		prometheus.MustRegister(DiscardedTimerEvents)
		prometheus.MustRegister(LampOn)
	})
}
