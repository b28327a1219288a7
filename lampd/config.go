/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2017-2018 CERN and copyright holders of ALICE O².
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

package lampd

import (
	"github.com/AliceO2Group/LampControl/common/event/topic"
	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/AliceO2Group/LampControl/core/lamp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func setDefaults() error {
	viper.Set("component", "lampd")

	viper.SetDefault("listenPort", 32180)
	viper.SetDefault("timerInterval", lamp.DefaultTimerInterval)
	viper.SetDefault("photoGuard", lamp.DefaultPhotoGuard)
	viper.SetDefault("transitionFormat", lamp.DefaultTransitionFormat)
	viper.SetDefault("kafkaEndpoints", []string{})
	viper.SetDefault("kafkaTopic", string(topic.Ev_Lamp))
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("verbose", false)
	return nil
}

func setFlags(flags *pflag.FlagSet, args []string) error {
	flags.Int("listenPort", viper.GetInt("listenPort"), "Port of lampd HTTP server")
	flags.Duration("timerInterval", viper.GetDuration("timerInterval"), "Time the lamp stays on before the timer turns it off")
	flags.String("photoGuard", viper.GetString("photoGuard"), "Expression that must hold for the photo sensor to turn the lamp on")
	flags.String("transitionFormat", viper.GetString("transitionFormat"), "Template of the line printed on every transition")
	flags.StringSlice("kafkaEndpoints", viper.GetStringSlice("kafkaEndpoints"), "Kafka brokers for lamp events, none disables publishing")
	flags.String("kafkaTopic", viper.GetString("kafkaTopic"), "Kafka topic for lamp events")
	flags.String("logLevel", viper.GetString("logLevel"), "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.Bool("verbose", viper.GetBool("verbose"), "Verbose logging")

	if err := flags.Parse(args); err != nil {
		return err
	}
	return viper.BindPFlags(flags)
}

// Bind environment variables with the prefix LAMPD
// e.g. LAMPD_LISTENPORT
func bindEnvironmentVariables() {
	viper.SetEnvPrefix("LAMPD")
	viper.AutomaticEnv()
}

// NewConfig sets up viper from defaults, command line flags and the
// environment, in increasing order of precedence.
func NewConfig(args []string) (err error) {
	if err = setDefaults(); err != nil {
		return
	}
	if err = setFlags(pflag.NewFlagSet("lampd", pflag.ContinueOnError), args); err != nil {
		return
	}
	bindEnvironmentVariables()

	return logger.SetLevel(viper.GetString("logLevel"), viper.GetBool("verbose"))
}
