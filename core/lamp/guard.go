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

package lamp

import (
	"fmt"
	"time"

	"github.com/AliceO2Group/LampControl/core/sm"
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
)

// DefaultPhotoGuard holds after 13:00 local time.
const DefaultPhotoGuard = "secondOfDay > 13 * 3600"

type Clock func() time.Time

func guardEnvironment(now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"hour":        now.Hour(),
		"minute":      now.Minute(),
		"second":      now.Second(),
		"secondOfDay": now.Hour()*3600 + now.Minute()*60 + now.Second(),
		"weekday":     now.Weekday().String(),
	}
}

// NewGuard compiles a boolean expression over the time of day reported by
// clock. The expression sees hour, minute, second, secondOfDay and
// weekday. A guard whose evaluation fails does not hold.
func NewGuard(expression string, clock Clock) (sm.Guard, error) {
	if clock == nil {
		clock = time.Now
	}
	var (
		program *vm.Program
		err     error
	)
	program, err = expr.Compile(expression, expr.Env(guardEnvironment(time.Time{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid guard expression %q: %w", expression, err)
	}

	return func() bool {
		out, err := expr.Run(program, guardEnvironment(clock()))
		if err != nil {
			log.WithField("guard", expression).
				WithError(err).
				Warn("guard evaluation failed")
			return false
		}
		holds, ok := out.(bool)
		return ok && holds
	}, nil
}
