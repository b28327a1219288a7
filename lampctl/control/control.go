/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2018 CERN and copyright holders of ALICE O².
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

// Package control handles the details of control calls to lampd.
package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/AliceO2Group/LampControl/common/event"
	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/AliceO2Group/LampControl/common/utils/uid"
	"github.com/AliceO2Group/LampControl/core/lamp"
	"github.com/AliceO2Group/LampControl/core/timer"
	"github.com/AliceO2Group/LampControl/lampctl"
	"github.com/briandowns/spinner"
	"github.com/gobwas/glob"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	CALL_TIMEOUT = 55 * time.Second
	SPINNER_TICK = 100 * time.Millisecond
)

var log = logger.New(logrus.StandardLogger(), "lampctl")

type RunFunc func(*cobra.Command, []string)

type ControlCall func(context.Context, *lampctl.Client, *cobra.Command, []string, io.Writer) error

func WrapCall(call ControlCall) RunFunc {
	return func(cmd *cobra.Command, args []string) {
		endpoint := viper.GetString("endpoint")
		log.WithPrefix(cmd.Use).
			WithField("endpoint", endpoint).
			Debug("initializing HTTP client")

		s := spinner.New(spinner.CharSets[11], SPINNER_TICK)
		_ = s.Color("yellow")
		s.Suffix = " working..."
		s.Start()

		cxt, cancel := context.WithTimeout(context.Background(), CALL_TIMEOUT)
		client := lampctl.NewClient(endpoint)

		var out strings.Builder

		// redirect stdout to null, the only way to output is
		stdout := os.Stdout
		os.Stdout, _ = os.Open(os.DevNull)
		err := call(cxt, client, cmd, args, &out)
		os.Stdout = stdout
		cancel()
		s.Stop()
		if err != nil {
			var fields logrus.Fields
			if logrus.GetLevel() == logrus.DebugLevel {
				fields = logrus.Fields{"error": err}
			}
			log.WithPrefix(cmd.Use).
				WithFields(fields).
				Fatalf("command finished with error: %s", err)
			os.Exit(1)
		}

		fmt.Print(out.String())
	}
}

func GetState(cxt context.Context, client *lampctl.Client, cmd *cobra.Command, args []string, o io.Writer) (err error) {
	response, err := client.GetState(cxt)
	if err != nil {
		return
	}

	permitted := make([]string, len(response.PermittedTriggers))
	for i, t := range response.PermittedTriggers {
		permitted[i] = colorTrigger(t)
	}

	_, _ = fmt.Fprintf(o, "lamp id:            %s\n", grey(response.Id.String()))
	_, _ = fmt.Fprintf(o, "endpoint:           %s\n", green(client.Endpoint()))
	_, _ = fmt.Fprintf(o, "state:              %s\n", colorState(response.State))
	_, _ = fmt.Fprintf(o, "permitted triggers: %s\n", strings.Join(permitted, ", "))
	if len(response.Daemon) > 0 {
		_, _ = fmt.Fprintf(o, "daemon state:       %s\n", colorGlobalState(response.Daemon))
	}
	return nil
}

// FireTrigger fires the trigger named by the first argument.
func FireTrigger(cxt context.Context, client *lampctl.Client, cmd *cobra.Command, args []string, o io.Writer) (err error) {
	if len(args) != 1 {
		return errors.New("exactly one trigger name required")
	}
	return fireTrigger(cxt, client, args[0], o)
}

func Push(cxt context.Context, client *lampctl.Client, cmd *cobra.Command, args []string, o io.Writer) (err error) {
	return fireTrigger(cxt, client, lamp.Push.String(), o)
}

func Photo(cxt context.Context, client *lampctl.Client, cmd *cobra.Command, args []string, o io.Writer) (err error) {
	return fireTrigger(cxt, client, lamp.Photo.String(), o)
}

func fireTrigger(cxt context.Context, client *lampctl.Client, trigger string, o io.Writer) (err error) {
	response, err := client.FireTrigger(cxt, trigger)
	if err != nil {
		return
	}

	table := tablewriter.NewWriter(o)
	table.SetHeader([]string{"lamp", "trigger", "outcome", "state"})
	table.SetBorder(false)
	fg := tablewriter.Colors{tablewriter.Bold, tablewriter.FgYellowColor}
	table.SetHeaderColor(fg, fg, fg, fg)
	table.Append([]string{response.Id.String(), colorTrigger(response.Trigger), colorOutcome(response.Outcome), colorState(response.State)})
	table.Render()
	return nil
}

func GetGraph(cxt context.Context, client *lampctl.Client, cmd *cobra.Command, args []string, o io.Writer) (err error) {
	graph, err := client.GetGraph(cxt)
	if err != nil {
		return
	}
	_, _ = fmt.Fprint(o, graph)
	return nil
}

func GetInfo(cxt context.Context, client *lampctl.Client, cmd *cobra.Command, args []string, o io.Writer) (err error) {
	info, err := client.GetInfo(cxt)
	if err != nil {
		return
	}

	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "yaml":
		var out []byte
		out, err = info.YAML()
		if err != nil {
			return
		}
		_, _ = o.Write(out)
	case "tree", "":
		drawMachineInfo(info, o)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}

// Demo runs a lamp locally: it prints the graph and the state, pushes the
// lamp on and waits for the timer to turn it off again.
func Demo(cxt context.Context, interval time.Duration, o io.Writer) (err error) {
	format := viper.GetString("transitionFormat")
	if len(format) == 0 {
		format = lamp.DefaultTransitionFormat
	}
	announcer, err := lamp.NewAnnouncer(format, o)
	if err != nil {
		return
	}

	lampOff := make(chan struct{}, 1)
	var ctrl *lamp.Controller
	ctrl, err = lamp.NewController(
		lamp.WithTimer(timer.NewInterval(interval, false)),
		lamp.OnTransitioned(func(t lamp.Transition) {
			announcer.Announce(ctrl.ID().String(), t)
			if t.Destination == lamp.Off {
				select {
				case lampOff <- struct{}{}:
				default:
				}
			}
		}),
	)
	if err != nil {
		return
	}
	defer ctrl.Close()

	ctrl.OnLampOn(func() {
		_, _ = fmt.Fprintf(o, "lamp is %s, it will turn off in %s\n", colorState(lamp.On.String()), interval)
	})

	_, _ = fmt.Fprintln(o, ctrl.Dot())
	_, _ = fmt.Fprintf(o, "state: %s\n", colorState(ctrl.State().String()))

	if _, err = ctrl.Push(); err != nil {
		return
	}
	_, _ = fmt.Fprintf(o, "state: %s\n", colorState(ctrl.State().String()))

	select {
	case <-lampOff:
	case <-cxt.Done():
		return cxt.Err()
	}
	_, _ = fmt.Fprintf(o, "state: %s\n", colorState(ctrl.State().String()))
	return nil
}

// Watch prints lamp events read from r until cxt is cancelled. If
// lampFilter is not nil, only events of lamps whose id matches it are
// printed.
func Watch(cxt context.Context, r event.Reader, lampFilter glob.Glob, o io.Writer) error {
	for {
		e, err := r.Next(cxt)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if e == nil {
			continue
		}
		if lampFilter != nil {
			if keyed, ok := e.(interface{ GetLampId() uid.ID }); ok && !lampFilter.Match(keyed.GetLampId().String()) {
				continue
			}
		}
		_, _ = fmt.Fprintln(o, formatEvent(e))
	}
}
