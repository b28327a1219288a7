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
	"os"
	"os/signal"
	"syscall"

	"github.com/AliceO2Group/LampControl/common/event"
	"github.com/AliceO2Group/LampControl/common/event/topic"
	"github.com/AliceO2Group/LampControl/lampctl/control"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w", "subscribe"},
	Short:   "stream lamp events from Kafka",
	Long: `The watch command reads the transition and timer events that lampd
publishes to Kafka and prints them until interrupted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		endpoints := viper.GetStringSlice("kafkaEndpoints")
		if len(endpoints) == 0 {
			log.Fatal("no Kafka endpoints configured, use --kafkaEndpoints")
		}
		t := topic.Topic(viper.GetString("kafkaTopic"))
		group, _ := cmd.Flags().GetString("group")

		var lampFilter glob.Glob
		if pattern, _ := cmd.Flags().GetString("lamp"); len(pattern) > 0 {
			var err error
			lampFilter, err = glob.Compile(pattern)
			if err != nil {
				log.WithField("pattern", pattern).WithError(err).Fatal("invalid lamp filter")
			}
		}

		reader := event.NewReaderWithTopic(t, endpoints, group)
		defer reader.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.WithField("topic", t).
			WithField("endpoints", endpoints).
			Debug("watching lamp events")
		if err := control.Watch(ctx, reader, lampFilter, os.Stdout); err != nil {
			log.WithError(err).Error("cannot read lamp events")
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSlice("kafkaEndpoints", nil, "Kafka brokers to read lamp events from")
	watchCmd.Flags().String("kafkaTopic", string(topic.Ev_Lamp), "Kafka topic of lamp events")
	watchCmd.Flags().String("group", "", "Kafka consumer group, none reads from the latest offset")
	watchCmd.Flags().StringP("lamp", "l", "", "only show events of lamps whose id matches this glob pattern")
	_ = viper.BindPFlag("kafkaEndpoints", watchCmd.Flags().Lookup("kafkaEndpoints"))
	_ = viper.BindPFlag("kafkaTopic", watchCmd.Flags().Lookup("kafkaTopic"))
}
