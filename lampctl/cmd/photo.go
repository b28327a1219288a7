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

// photoCmd represents the photo command
var photoCmd = &cobra.Command{
	Use:     "photo",
	Aliases: []string{},
	Short:   "simulate the photo sensor",
	Long:    `The photo command fires the Photo trigger at the lamp served
by lampd. A lamp that is On turns Off. A lamp that is Off turns On only if
the photo guard holds, otherwise the trigger is rejected.`,
	Run:  control.WrapCall(control.Photo),
	Args: cobra.NoArgs,
}

func init() {
	rootCmd.AddCommand(photoCmd)
}
