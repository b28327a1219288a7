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

package cmd

import (
	"github.com/AliceO2Group/LampControl/lampctl/control"
	"github.com/spf13/cobra"
)

// fireCmd represents the fire command
var fireCmd = &cobra.Command{
	Use:     "fire [trigger]",
	Aliases: []string{"f", "trigger"},
	Short:   "fire any trigger",
	Long:    `The fire command fires the named trigger (push, photo or timer)
at the lamp served by lampd.`,
	Run:  control.WrapCall(control.FireTrigger),
	Args: cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(fireCmd)
}
