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

package lamp

import (
	"fmt"
	"strings"
)

type State int

const (
	Off State = iota
	On
)

var _stateNames = []string{
	"Off",
	"On",
}

func (s State) String() string {
	if s < Off || s > On {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return _stateNames[s]
}

func StateFromString(s string) (State, error) {
	for i, v := range _stateNames {
		if strings.EqualFold(s, v) {
			return State(i), nil
		}
	}
	return Off, fmt.Errorf("unknown lamp state %q", s)
}

type Trigger int

const (
	Push Trigger = iota
	Photo
	Timer
)

var _triggerNames = []string{
	"Push",
	"Photo",
	"Timer",
}

func (t Trigger) String() string {
	if t < Push || t > Timer {
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
	return _triggerNames[t]
}

// TriggerFromString parses a trigger name case-insensitively.
func TriggerFromString(s string) (Trigger, error) {
	for i, v := range _triggerNames {
		if strings.EqualFold(s, v) {
			return Trigger(i), nil
		}
	}
	return Push, fmt.Errorf("unknown lamp trigger %q", s)
}

func Triggers() []Trigger {
	return []Trigger{Push, Photo, Timer}
}
