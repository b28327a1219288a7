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

package lampd

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

const (
	DaemonInitial  = "INITIAL"
	DaemonServing  = "SERVING"
	DaemonStopping = "STOPPING"
	DaemonFinal    = "FINAL"
)

// DaemonState tracks the lifecycle of lampd itself, separately from the
// lamp it serves.
type DaemonState struct {
	sm *fsm.FSM
}

func NewDaemonState() *DaemonState {
	return &DaemonState{
		sm: fsm.NewFSM(
			DaemonInitial,
			fsm.Events{
				{Name: "SERVE", Src: []string{DaemonInitial}, Dst: DaemonServing},
				{Name: "STOP", Src: []string{DaemonInitial, DaemonServing}, Dst: DaemonStopping},
				{Name: "EXIT", Src: []string{DaemonStopping}, Dst: DaemonFinal},
			},
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					log.WithFields(logrus.Fields{
						"event": e.Event,
						"src":   e.Src,
						"dst":   e.Dst,
					}).Debug("daemon state changed")
				},
				"enter_" + DaemonStopping: func(_ context.Context, e *fsm.Event) {
					log.Info("lampd stopping, refusing new triggers")
				},
			},
		),
	}
}

func (s *DaemonState) Current() string {
	return s.sm.Current()
}

func (s *DaemonState) Serve() error {
	return s.sm.Event(context.Background(), "SERVE")
}

func (s *DaemonState) Stop() error {
	return s.sm.Event(context.Background(), "STOP")
}

func (s *DaemonState) Exit() error {
	return s.sm.Event(context.Background(), "EXIT")
}

// AcceptsTriggers is false once the daemon has started shutting down.
func (s *DaemonState) AcceptsTriggers() bool {
	current := s.Current()
	return current != DaemonStopping && current != DaemonFinal
}
