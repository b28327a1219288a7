/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2018-2019 CERN and copyright holders of ALICE O².
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

// Package utils holds small helpers shared by LampControl packages.
package utils

import (
	"fmt"
	"time"

	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// TimeTrack logs at debug level how long the operation started at start
// took. It does nothing unless verbose is set.
func TimeTrack(start time.Time, name string, log *logrus.Entry) {
	if !viper.GetBool("verbose") {
		return
	}

	if log == nil {
		log = logger.New(logrus.StandardLogger(), "debug").WithPrefix("debug")
	}
	elapsed := time.Since(start)
	log.WithField("elapsed", elapsed).Debugf("%s took %s", name, elapsed)
}

// NewUnixTimestamp returns the current time as fractional seconds since
// the Unix epoch, the format used in event payloads.
func NewUnixTimestamp() string {
	return fmt.Sprintf("%f", float64(time.Now().UnixNano())/1e9)
}
