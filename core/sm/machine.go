/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2018 CERN and copyright holders of ALICE O².
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

// Package sm provides a table-driven finite state machine. The transition
// table is assembled once with a Config and frozen by New; firing a trigger
// is a table lookup followed by guard evaluation.
package sm

import (
	"sync"
)

type Outcome int

const (
	Transitioned Outcome = iota
	Ignored
	Rejected
	Unsupported
)

var _outcomeNames = []string{
	"transitioned",
	"ignored",
	"rejected",
	"unsupported",
}

func (o Outcome) String() string {
	if o < Transitioned || o > Unsupported {
		return "unknown"
	}
	return _outcomeNames[o]
}

// Err maps a Rejected outcome to ErrTransitionRejected for callers that
// prefer to treat a failed guard as an error. Other outcomes map to nil.
func (o Outcome) Err() error {
	if o == Rejected {
		return ErrTransitionRejected
	}
	return nil
}

type Transition[S, T comparable] struct {
	Trigger     T
	Source      S
	Destination S
}

// Machine is safe for concurrent use: Fire and the accessors are
// serialized by an internal mutex. Hooks and observers run with that mutex
// held and must not call back into the same Machine.
type Machine[S, T comparable] struct {
	mu sync.Mutex

	initial   S
	state     S
	states    map[S]*stateRepr[S, T]
	order     []S
	observers []Action[S, T]
}

func New[S, T comparable](initial S, cfg *Config[S, T]) (*Machine[S, T], error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.validate(initial); err != nil {
		return nil, err
	}

	m := &Machine[S, T]{
		initial:   initial,
		state:     initial,
		states:    make(map[S]*stateRepr[S, T], len(cfg.states)),
		order:     append([]S{}, cfg.order...),
		observers: append([]Action[S, T]{}, cfg.observers...),
	}
	for s, repr := range cfg.states {
		m.states[s] = repr.clone()
	}
	return m, nil
}

func (m *Machine[S, T]) State() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Fire offers trigger to the machine in its current state.
//
// An explicitly ignored trigger returns Ignored. A trigger with rules of
// which none has a passing guard returns Rejected with a nil error and
// leaves the state untouched. A trigger with neither rules nor an ignore
// returns Unsupported and an *UnsupportedTransitionError.
//
// On a transition the exit hooks of the source state run first, then the
// state changes, then the entry hooks of the destination state run,
// followed by the transition observers.
func (m *Machine[S, T]) Fire(trigger T) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.state
	repr := m.states[src]

	if repr.ignores(trigger) {
		return Ignored, nil
	}
	rules := repr.rules[trigger]
	if len(rules) == 0 {
		return Unsupported, newUnsupportedTransitionError(src, trigger)
	}
	r, ok := selectRule(rules)
	if !ok {
		return Rejected, nil
	}

	t := Transition[S, T]{
		Trigger:     trigger,
		Source:      src,
		Destination: r.dst,
	}
	for _, h := range repr.exit {
		h.fn(t)
	}
	m.state = r.dst
	for _, h := range m.states[r.dst].entry {
		h.fn(t)
	}
	for _, observer := range m.observers {
		observer(t)
	}
	return Transitioned, nil
}

// CanFire reports whether firing trigger now would cause a transition.
func (m *Machine[S, T]) CanFire(trigger T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := selectRule(m.states[m.state].rules[trigger])
	return ok
}

// PermittedTriggers lists, in configuration order, the triggers that
// would cause a transition from the current state with guards as they
// evaluate now.
func (m *Machine[S, T]) PermittedTriggers() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	repr := m.states[m.state]
	permitted := make([]T, 0, len(repr.triggers))
	for _, trigger := range repr.triggers {
		if _, ok := selectRule(repr.rules[trigger]); ok {
			permitted = append(permitted, trigger)
		}
	}
	return permitted
}

// selectRule returns the first rule, in registration order, that is
// unconditional or whose guard holds.
func selectRule[S comparable](rules []rule[S]) (rule[S], bool) {
	for _, r := range rules {
		if r.guard == nil || r.guard() {
			return r, true
		}
	}
	return rule[S]{}, false
}
