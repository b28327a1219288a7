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

// Package event defines the events emitted by lamp controllers and their
// transport to and from Kafka.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/AliceO2Group/LampControl/common/utils"
	"github.com/AliceO2Group/LampControl/common/utils/uid"
)

const (
	TimerStarted   = "started"
	TimerStopped   = "stopped"
	TimerDiscarded = "discarded"
)

type Event interface {
	GetName() string
	GetTimestamp() string
}

type eventBase struct {
	Timestamp   string `json:"timestamp"`
	MessageType string `json:"_messageType"`
}

func newEventBase(messageType string) eventBase {
	return eventBase{
		Timestamp:   utils.NewUnixTimestamp(),
		MessageType: messageType,
	}
}

func (e *eventBase) GetTimestamp() string {
	return e.Timestamp
}

// LampTransitionEvent records the result of one trigger fired at a lamp.
// Source and Destination are equal unless Outcome is "transitioned".
type LampTransitionEvent struct {
	eventBase
	LampId      uid.ID `json:"lampId"`
	Trigger     string `json:"trigger"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Outcome     string `json:"outcome"`
}

func NewLampTransitionEvent(lampId uid.ID, trigger, source, destination, outcome string) *LampTransitionEvent {
	return &LampTransitionEvent{
		eventBase:   newEventBase("LampTransitionEvent"),
		LampId:      lampId,
		Trigger:     trigger,
		Source:      source,
		Destination: destination,
		Outcome:     outcome,
	}
}

func (e *LampTransitionEvent) GetName() string {
	return fmt.Sprintf("%s -> %s", e.Source, e.Destination)
}

func (e *LampTransitionEvent) GetLampId() uid.ID {
	if e == nil {
		return uid.NilID()
	}
	return e.LampId
}

type LampTimerEvent struct {
	eventBase
	LampId uid.ID `json:"lampId"`
	Action string `json:"action"`
}

func NewLampTimerEvent(lampId uid.ID, action string) *LampTimerEvent {
	return &LampTimerEvent{
		eventBase: newEventBase("LampTimerEvent"),
		LampId:    lampId,
		Action:    action,
	}
}

func (e *LampTimerEvent) GetName() string {
	return "TIMER_" + e.Action
}

func (e *LampTimerEvent) GetLampId() uid.ID {
	if e == nil {
		return uid.NilID()
	}
	return e.LampId
}

// Decode turns a JSON payload produced by a Writer back into the concrete
// event type named by its _messageType.
func Decode(data []byte) (Event, error) {
	var base eventBase
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}

	var e Event
	switch base.MessageType {
	case "LampTransitionEvent":
		e = &LampTransitionEvent{}
	case "LampTimerEvent":
		e = &LampTimerEvent{}
	default:
		return nil, fmt.Errorf("unsupported event type %q", base.MessageType)
	}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", base.MessageType, err)
	}
	return e, nil
}
