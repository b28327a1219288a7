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
	"errors"
	"fmt"
)

var (
	ErrUnsupportedTransition = errors.New("unsupported transition")
	ErrTransitionRejected    = errors.New("transition rejected by guard")
	ErrInvalidConfig         = errors.New("invalid state machine configuration")
	ErrNilConfig             = errors.New("nil state machine configuration")
)

// UnsupportedTransitionError is returned by Fire when the current state
// has neither a rule nor an ignore for the trigger. It matches
// ErrUnsupportedTransition under errors.Is.
type UnsupportedTransitionError struct {
	State   string
	Trigger string
}

func newUnsupportedTransitionError(state, trigger any) *UnsupportedTransitionError {
	return &UnsupportedTransitionError{
		State:   fmt.Sprint(state),
		Trigger: fmt.Sprint(trigger),
	}
}

func (e *UnsupportedTransitionError) Error() string {
	return fmt.Sprintf("%s: no rule for trigger %s in state %s", ErrUnsupportedTransition, e.Trigger, e.State)
}

func (e *UnsupportedTransitionError) Is(target error) bool {
	return target == ErrUnsupportedTransition
}
