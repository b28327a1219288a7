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

// Package lamp implements a lamp controller as a two-state machine driven
// by push, photo sensor and timer triggers.
package lamp

import (
	"errors"
	"sync"
	"time"

	"github.com/AliceO2Group/LampControl/common/event"
	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/AliceO2Group/LampControl/common/utils"
	"github.com/AliceO2Group/LampControl/common/utils/uid"
	"github.com/AliceO2Group/LampControl/core/metrics"
	"github.com/AliceO2Group/LampControl/core/sm"
	"github.com/AliceO2Group/LampControl/core/timer"
	"github.com/sirupsen/logrus"
)

var log = logger.New(logrus.StandardLogger(), "lamp")

const DefaultTimerInterval = 5 * time.Second

var ErrControllerClosed = errors.New("lamp controller closed")

type Transition = sm.Transition[State, Trigger]

type Option func(*options)

type options struct {
	initial   State
	timer     timer.Timer
	guard     sm.Guard
	guardDesc string
	clock     Clock
	writer    event.Writer
	observers []func(Transition)
}

// WithTimer replaces the default single-shot wall clock timer.
func WithTimer(t timer.Timer) Option {
	return func(o *options) {
		o.timer = t
	}
}

// WithPhotoGuard replaces the guard on Off --Photo--> On. desc labels the
// guard in graphs and descriptions.
func WithPhotoGuard(guard sm.Guard, desc string) Option {
	return func(o *options) {
		o.guard = guard
		o.guardDesc = desc
	}
}

// WithClock evaluates the default photo guard against clock. It has no
// effect together with WithPhotoGuard.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithWriter(w event.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithInitialState starts the controller in s. Entry actions of s do not
// run, so a controller starting On has no running timer.
func WithInitialState(s State) Option {
	return func(o *options) {
		o.initial = s
	}
}

// OnTransitioned registers fn to run after every completed transition,
// once the entry actions of the destination have run.
func OnTransitioned(fn func(Transition)) Option {
	return func(o *options) {
		o.observers = append(o.observers, fn)
	}
}

// Controller is a lamp. All triggers, including timer expiries, are
// processed one at a time.
//
// Entry actions, exit actions, OnLampOn callbacks and transition observers
// run with the controller lock held and must not call back into the
// Controller.
type Controller struct {
	mu sync.Mutex

	id       uid.ID
	machine  *sm.Machine[State, Trigger]
	timer    timer.Timer
	writer   event.Writer
	onLampOn []func()

	// epoch changes on every entry to and exit from On, and on Close.
	// A timer expiry only counts if it belongs to the current epoch.
	epoch  uint64
	closed bool
}

func NewController(opts ...Option) (*Controller, error) {
	o := &options{
		initial: Off,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.timer == nil {
		o.timer = timer.NewInterval(DefaultTimerInterval, false)
	}
	if o.writer == nil {
		o.writer = &event.DummyWriter{}
	}
	if o.guard == nil {
		guard, err := NewGuard(DefaultPhotoGuard, o.clock)
		if err != nil {
			return nil, err
		}
		o.guard = guard
		o.guardDesc = DefaultPhotoGuard
	}

	c := &Controller{
		id:     uid.New(),
		timer:  o.timer,
		writer: o.writer,
	}

	cfg := sm.NewConfig[State, Trigger]()
	cfg.Configure(Off).
		Permit(Push, On).
		PermitIf(Photo, On, o.guard, o.guardDesc).
		Ignore(Timer)
	cfg.Configure(On).
		Permit(Push, Off).
		Permit(Photo, Off).
		Permit(Timer, Off).
		OnEntry(c.startTimer, "StartTimer").
		OnEntry(c.notifyLampOn, "OnLampOn").
		OnExit(c.stopTimer, "StopTimer")
	cfg.OnTransitioned(c.transitioned)
	for _, observer := range o.observers {
		cfg.OnTransitioned(observer)
	}

	machine, err := sm.New(o.initial, cfg)
	if err != nil {
		return nil, err
	}
	c.machine = machine
	c.setGauge(o.initial)

	log.WithField("lamp", c.id).
		WithField("state", o.initial.String()).
		Debug("lamp controller created")
	return c, nil
}

func (c *Controller) ID() uid.ID {
	return c.id
}

func (c *Controller) State() State {
	return c.machine.State()
}

// OnLampOn registers fn to run on every entry to On, after the timer has
// been started. Callbacks run in registration order.
func (c *Controller) OnLampOn(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLampOn = append(c.onLampOn, fn)
}

// Fire offers trigger to the lamp. A rejected Photo returns sm.Rejected
// and a nil error. A trigger with no rule in the current state returns an
// error matching sm.ErrUnsupportedTransition.
func (c *Controller) Fire(trigger Trigger) (sm.Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return sm.Unsupported, ErrControllerClosed
	}
	return c.fire(trigger)
}

func (c *Controller) Push() (sm.Outcome, error) {
	return c.Fire(Push)
}

func (c *Controller) Photo() (sm.Outcome, error) {
	return c.Fire(Photo)
}

func (c *Controller) fire(trigger Trigger) (sm.Outcome, error) {
	start := time.Now()
	defer utils.TimeTrack(start, "fire "+trigger.String(), log.WithField("lamp", c.id))
	src := c.machine.State()
	outcome, err := c.machine.Fire(trigger)
	dst := c.machine.State()
	metrics.FireLatency.WithLabelValues(trigger.String()).Observe(time.Since(start).Seconds())

	entry := log.WithField("lamp", c.id).
		WithField("trigger", trigger.String()).
		WithField("state", src.String())
	switch outcome {
	case sm.Ignored:
		metrics.IgnoredCount.WithLabelValues(src.String(), trigger.String()).Inc()
		entry.Debug("trigger ignored")
	case sm.Rejected:
		metrics.RejectedCount.WithLabelValues(src.String(), trigger.String()).Inc()
		entry.Debug("transition rejected by guard")
	case sm.Unsupported:
		metrics.UnsupportedCount.WithLabelValues(src.String(), trigger.String()).Inc()
		entry.WithError(err).Warn("unsupported transition")
	}

	c.writer.WriteEvent(event.NewLampTransitionEvent(c.id, trigger.String(), src.String(), dst.String(), outcome.String()))
	return outcome, err
}

func (c *Controller) transitioned(t Transition) {
	metrics.TransitionCount.WithLabelValues(t.Source.String(), t.Destination.String(), t.Trigger.String()).Inc()
	c.setGauge(t.Destination)
	log.WithField("lamp", c.id).
		WithField("src", t.Source.String()).
		WithField("dst", t.Destination.String()).
		WithField("trigger", t.Trigger.String()).
		Debug("lamp transitioned")
}

func (c *Controller) setGauge(s State) {
	value := 0.0
	if s == On {
		value = 1
	}
	metrics.LampOn.WithLabelValues(c.id.String()).Set(value)
}

func (c *Controller) startTimer(Transition) {
	c.epoch++
	c.timer.SetHandler(c.expiryFor(c.epoch))
	c.timer.Start()
	metrics.TimerStarts.Inc()
	c.writer.WriteEvent(event.NewLampTimerEvent(c.id, event.TimerStarted))
}

func (c *Controller) stopTimer(Transition) {
	c.epoch++
	c.timer.Stop()
	metrics.TimerStops.Inc()
	c.writer.WriteEvent(event.NewLampTimerEvent(c.id, event.TimerStopped))
}

func (c *Controller) notifyLampOn(Transition) {
	for _, fn := range c.onLampOn {
		fn()
	}
}

// expiryFor returns the timer handler for the given epoch. Expiries that
// arrive once the epoch has moved on, or after Close, leave the state
// untouched.
func (c *Controller) expiryFor(epoch uint64) func() {
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.closed || c.epoch != epoch {
			metrics.DiscardedTimerEvents.Inc()
			log.WithField("lamp", c.id).
				WithField("closed", c.closed).
				Debug("discarding late timer event")
			c.writer.WriteEvent(event.NewLampTimerEvent(c.id, event.TimerDiscarded))
			return
		}
		if _, err := c.fire(Timer); err != nil {
			log.WithField("lamp", c.id).
				WithError(err).
				Error("timer trigger failed")
		}
	}
}

func (c *Controller) PermittedTriggers() []Trigger {
	return c.machine.PermittedTriggers()
}

func (c *Controller) CanFire(trigger Trigger) bool {
	return c.machine.CanFire(trigger)
}

func (c *Controller) Info() sm.MachineInfo {
	return c.machine.Info()
}

func (c *Controller) Dot() string {
	return c.machine.Dot()
}

// Close releases the timer. Later Fire calls fail with ErrControllerClosed
// and pending timer expiries are discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.timer.Stop()
	metrics.LampOn.DeleteLabelValues(c.id.String())
	log.WithField("lamp", c.id).Debug("lamp controller closed")
}
