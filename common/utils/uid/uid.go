/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2020 CERN and copyright holders of ALICE O².
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

// Package uid generates the identifiers LampControl attaches to lamp
// controllers and to the transition events they emit.
package uid

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/osamingo/indigo"
	"github.com/pborman/uuid"
	"github.com/rs/xid"
)

type ID string

const defaultMachineID uint16 = 42

var uidGen *indigo.Generator

// machineID derives a uint16 from /etc/machine-id (or the platform
// equivalent) so that IDs generated on different hosts do not collide.
// The NodeID is the last 6 bytes of the UUID, of which we take the first 2.
func machineID() uint16 {
	id, err := machineid.ID()
	if err != nil {
		return defaultMachineID
	}
	parsed := uuid.Parse(id)
	if parsed == nil {
		return defaultMachineID
	}
	node := parsed.NodeID()
	if len(node) < 2 {
		return defaultMachineID
	}
	return binary.BigEndian.Uint16(node[0:2])
}

func init() {
	mid := machineID()
	uidGen = indigo.New(
		nil,
		indigo.StartTime(time.Unix(1257894000, 0)), // Go epoch
		indigo.MachineID(func() (uint16, error) { return mid, nil }),
	)
}

func (u ID) String() string {
	return string(u)
}

func (u ID) IsNil() bool {
	return len(u) == 0
}

func FromString(s string) (ID, error) {
	_, err := uidGen.Decompose(s)
	if err != nil {
		return "", err
	}
	return ID(s), nil
}

func NilID() ID {
	return ""
}

// New returns a time-ordered ID, falling back to an XID if the indigo
// generator fails (e.g. clock moved backwards).
func New() ID {
	id, err := uidGen.NextID()
	if err != nil {
		return ID(xid.New().String())
	}
	return ID(id)
}

func (u ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}
