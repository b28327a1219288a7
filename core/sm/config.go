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

package sm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type Guard func() bool

type Action[S, T comparable] func(Transition[S, T])

type rule[S comparable] struct {
	dst       S
	guard     Guard
	guardDesc string
}

type hook[S, T comparable] struct {
	fn   Action[S, T]
	desc string
}

type stateRepr[S, T comparable] struct {
	state    S
	rules    map[T][]rule[S]
	ignored  map[T]struct{}
	triggers []T // first-seen order of triggers with rules or ignores
	entry    []hook[S, T]
	exit     []hook[S, T]
}

func newStateRepr[S, T comparable](state S) *stateRepr[S, T] {
	return &stateRepr[S, T]{
		state:   state,
		rules:   make(map[T][]rule[S]),
		ignored: make(map[T]struct{}),
	}
}

func (r *stateRepr[S, T]) ignores(trigger T) bool {
	_, ok := r.ignored[trigger]
	return ok
}

func (r *stateRepr[S, T]) noteTrigger(trigger T) {
	for _, t := range r.triggers {
		if t == trigger {
			return
		}
	}
	r.triggers = append(r.triggers, trigger)
}

func (r *stateRepr[S, T]) clone() *stateRepr[S, T] {
	out := newStateRepr[S, T](r.state)
	for trigger, rules := range r.rules {
		out.rules[trigger] = append([]rule[S]{}, rules...)
	}
	for trigger := range r.ignored {
		out.ignored[trigger] = struct{}{}
	}
	out.triggers = append([]T{}, r.triggers...)
	out.entry = append([]hook[S, T]{}, r.entry...)
	out.exit = append([]hook[S, T]{}, r.exit...)
	return out
}

// Config collects the transition table of a Machine. It is not safe for
// concurrent use; build it on one goroutine and hand it to New.
type Config[S, T comparable] struct {
	states    map[S]*stateRepr[S, T]
	order     []S
	observers []Action[S, T]
}

func NewConfig[S, T comparable]() *Config[S, T] {
	return &Config[S, T]{
		states: make(map[S]*stateRepr[S, T]),
	}
}

// Configure returns the configuration handle for state, registering the
// state on first use.
func (c *Config[S, T]) Configure(state S) *StateConfig[S, T] {
	repr, ok := c.states[state]
	if !ok {
		repr = newStateRepr[S, T](state)
		c.states[state] = repr
		c.order = append(c.order, state)
	}
	return &StateConfig[S, T]{repr: repr}
}

// OnTransitioned registers an observer called after every completed
// transition, once the entry hooks of the destination have run.
func (c *Config[S, T]) OnTransitioned(fn Action[S, T]) *Config[S, T] {
	if fn != nil {
		c.observers = append(c.observers, fn)
	}
	return c
}

func (c *Config[S, T]) validate(initial S) error {
	var merr *multierror.Error

	if _, ok := c.states[initial]; !ok {
		merr = multierror.Append(merr, fmt.Errorf("%w: initial state %v is not configured", ErrInvalidConfig, initial))
	}

	for _, s := range c.order {
		repr := c.states[s]
		for _, trigger := range repr.triggers {
			rules := repr.rules[trigger]
			if repr.ignores(trigger) && len(rules) > 0 {
				merr = multierror.Append(merr, fmt.Errorf("%w: trigger %v is both ignored and permitted in state %v", ErrInvalidConfig, trigger, s))
			}
			unconditional := 0
			for _, r := range rules {
				if r.guard == nil {
					unconditional++
				}
				if _, ok := c.states[r.dst]; !ok {
					merr = multierror.Append(merr, fmt.Errorf("%w: trigger %v in state %v leads to unconfigured state %v", ErrInvalidConfig, trigger, s, r.dst))
				}
			}
			if unconditional > 1 {
				merr = multierror.Append(merr, fmt.Errorf("%w: trigger %v has %d unconditional rules in state %v", ErrInvalidConfig, trigger, unconditional, s))
			}
		}
	}
	return merr.ErrorOrNil()
}

type StateConfig[S, T comparable] struct {
	repr *stateRepr[S, T]
}

// Permit adds an unconditional transition to dst on trigger.
func (sc *StateConfig[S, T]) Permit(trigger T, dst S) *StateConfig[S, T] {
	sc.repr.rules[trigger] = append(sc.repr.rules[trigger], rule[S]{dst: dst})
	sc.repr.noteTrigger(trigger)
	return sc
}

// PermitIf adds a transition to dst on trigger that only applies while
// guard holds. guardDesc is used in graphs and descriptions. A nil guard
// is treated as a guard that never holds.
func (sc *StateConfig[S, T]) PermitIf(trigger T, dst S, guard Guard, guardDesc string) *StateConfig[S, T] {
	if guard == nil {
		guard = func() bool { return false }
	}
	sc.repr.rules[trigger] = append(sc.repr.rules[trigger], rule[S]{
		dst:       dst,
		guard:     guard,
		guardDesc: guardDesc,
	})
	sc.repr.noteTrigger(trigger)
	return sc
}

// Ignore makes trigger a deliberate no-op in this state.
func (sc *StateConfig[S, T]) Ignore(trigger T) *StateConfig[S, T] {
	sc.repr.ignored[trigger] = struct{}{}
	sc.repr.noteTrigger(trigger)
	return sc
}

func (sc *StateConfig[S, T]) OnEntry(fn Action[S, T], desc string) *StateConfig[S, T] {
	if fn != nil {
		sc.repr.entry = append(sc.repr.entry, hook[S, T]{fn: fn, desc: desc})
	}
	return sc
}

func (sc *StateConfig[S, T]) OnExit(fn Action[S, T], desc string) *StateConfig[S, T] {
	if fn != nil {
		sc.repr.exit = append(sc.repr.exit, hook[S, T]{fn: fn, desc: desc})
	}
	return sc
}
