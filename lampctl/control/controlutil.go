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

package control

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AliceO2Group/LampControl/common/event"
	"github.com/AliceO2Group/LampControl/core/sm"
	"github.com/fatih/color"
	"github.com/xlab/treeprint"
)

var (
	blue   = color.New(color.FgHiBlue).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
	grey   = color.New(color.FgWhite).SprintFunc()
)

func colorState(st string) string {
	switch st {
	case "On":
		return yellow(st)
	case "Off":
		return blue(st)
	default:
		return red(st)
	}
}

func colorGlobalState(st string) string {
	switch st {
	case "INITIAL", "FINAL":
		return yellow(st)
	case "SERVING":
		return green(st)
	default:
		return red(st)
	}
}

func colorTrigger(tr string) string {
	return green(tr)
}

func colorOutcome(outcome string) string {
	switch outcome {
	case "transitioned":
		return green(outcome)
	case "ignored":
		return grey(outcome)
	case "rejected":
		return yellow(outcome)
	default:
		return red(outcome)
	}
}

func drawMachineInfo(info *sm.MachineInfo, o io.Writer) {
	if info == nil {
		return
	}
	tree := treeprint.New()
	tree.SetValue("lamp")
	tree.SetMetaValue(colorState(info.Current))

	for _, si := range info.States {
		var branch treeprint.Tree
		if si.State == info.Initial {
			branch = tree.AddMetaBranch("initial", colorState(si.State))
		} else {
			branch = tree.AddBranch(colorState(si.State))
		}
		for _, a := range si.EntryActions {
			branch.AddMetaNode("entry", a)
		}
		for _, a := range si.ExitActions {
			branch.AddMetaNode("exit", a)
		}
		for _, t := range si.Transitions {
			nodeText := colorTrigger(t.Trigger) + yellow(" --> ") + colorState(t.Destination)
			if len(t.Guard) > 0 {
				nodeText += " if " + t.Guard
			}
			branch.AddNode(nodeText)
		}
		for _, t := range si.Ignored {
			branch.AddMetaNode("ignore", grey(t))
		}
	}
	_, _ = fmt.Fprint(o, tree.String())
}

func formatTimestamp(unixTimestamp string) string {
	seconds, err := strconv.ParseFloat(unixTimestamp, 64)
	if err != nil {
		return "unknown"
	}
	whole := int64(seconds)
	nanos := int64((seconds - float64(whole)) * 1e9)
	return time.Unix(whole, nanos).Local().Format("2006-01-02 15:04:05.000 MST")
}

func formatEvent(e event.Event) string {
	switch typed := e.(type) {
	case *event.LampTransitionEvent:
		return strings.Join([]string{
			formatTimestamp(typed.GetTimestamp()),
			grey(typed.LampId.String()),
			colorTrigger(typed.Trigger),
			colorState(typed.Source) + yellow(" -> ") + colorState(typed.Destination),
			colorOutcome(typed.Outcome),
		}, " ")
	case *event.LampTimerEvent:
		return strings.Join([]string{
			formatTimestamp(typed.GetTimestamp()),
			grey(typed.LampId.String()),
			"timer",
			typed.Action,
		}, " ")
	default:
		return formatTimestamp(e.GetTimestamp()) + " " + e.GetName()
	}
}
