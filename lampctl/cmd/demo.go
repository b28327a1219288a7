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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AliceO2Group/LampControl/lampctl/control"
	"github.com/spf13/cobra"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "run a lamp locally",
	Long: `The demo command runs a lamp in this process without lampd. It prints the
state graph and the state, pushes the lamp on, waits for the timer to turn it
off and prints the state again.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			log.WithField("interval", interval).Fatal("the timer interval must be positive")
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := control.Demo(ctx, interval, os.Stdout); err != nil {
			log.WithError(err).Error("demo interrupted")
			stop()
			os.Exit(1)
		}
		fmt.Println("done")
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().DurationP("interval", "i", 5*time.Second, "time the lamp stays on")
}
