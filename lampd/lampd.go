/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2021 CERN and copyright holders of ALICE O².
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

// Package lampd runs a lamp controller and serves it over HTTP.
package lampd

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/AliceO2Group/LampControl/common/event"
	"github.com/AliceO2Group/LampControl/common/event/topic"
	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/AliceO2Group/LampControl/common/product"
	"github.com/AliceO2Group/LampControl/core/lamp"
	"github.com/AliceO2Group/LampControl/core/metrics"
	"github.com/AliceO2Group/LampControl/core/timer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var log = logger.New(logrus.StandardLogger(), "lampd")

// NewLamp builds a lamp controller from the current configuration. Every
// transition is announced on stdout.
func NewLamp(writer event.Writer) (*lamp.Controller, error) {
	announcer, err := lamp.NewAnnouncer(viper.GetString("transitionFormat"), os.Stdout)
	if err != nil {
		return nil, err
	}
	guardExpression := viper.GetString("photoGuard")
	guard, err := lamp.NewGuard(guardExpression, time.Now)
	if err != nil {
		return nil, err
	}

	var ctrl *lamp.Controller
	ctrl, err = lamp.NewController(
		lamp.WithTimer(timer.NewInterval(viper.GetDuration("timerInterval"), false)),
		lamp.WithPhotoGuard(guard, guardExpression),
		lamp.WithWriter(writer),
		lamp.OnTransitioned(func(t lamp.Transition) {
			announcer.Announce(ctrl.ID().String(), t)
		}),
	)
	if err != nil {
		return nil, err
	}
	ctrl.OnLampOn(func() {
		log.WithField("lamp", ctrl.ID()).
			WithField("timerInterval", viper.GetDuration("timerInterval")).
			Info("lamp is on")
	})
	return ctrl, nil
}

func Run() (err error) {
	log.Infof("%s daemon (lampd v%s build %s) starting up", product.PRETTY_SHORTNAME, product.VERSION, product.BUILD)
	if viper.GetBool("verbose") {
		log.Info("lampd running with verbose logging")
	}

	metrics.Register()
	writer := event.NewWriter(topic.Topic(viper.GetString("kafkaTopic")))

	var ctrl *lamp.Controller
	ctrl, err = NewLamp(writer)
	if err != nil {
		writer.Close()
		return
	}

	daemon := NewDaemonState()
	httpsvr := NewHttpService(ctrl, daemon)
	signals(httpsvr, daemon, ctrl, writer) // handle UNIX signals
	if err = daemon.Serve(); err != nil {
		return
	}

	log.WithField("port", viper.GetInt("listenPort")).
		WithField("lamp", ctrl.ID()).
		WithField("state", ctrl.State().String()).
		Info("HTTP service started")
	err = httpsvr.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		// signals() exits the process once shutdown completes
		select {}
	}
	ctrl.Close()
	writer.Close()
	return
}
