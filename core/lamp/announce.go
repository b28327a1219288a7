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
	"bytes"
	"fmt"
	"io"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/valyala/fasttemplate"
)

const DefaultTransitionFormat = "{{src}} -> {{dst}}"

// Announcer renders one line per transition. Each {{tag}} of the format is
// an expression over src, dst, trigger and lamp.
type Announcer struct {
	out      io.Writer
	tmpl     *fasttemplate.Template
	programs map[string]*vm.Program
}

func NewAnnouncer(format string, out io.Writer) (*Announcer, error) {
	tmpl, err := fasttemplate.NewTemplate(format, "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("invalid transition format %q: %w", format, err)
	}
	a := &Announcer{
		out:      out,
		tmpl:     tmpl,
		programs: make(map[string]*vm.Program),
	}

	// compile every tag up front so that a bad format fails at startup
	_, err = tmpl.ExecuteFunc(io.Discard, func(w io.Writer, tag string) (int, error) {
		if _, ok := a.programs[tag]; ok {
			return 0, nil
		}
		program, err := expr.Compile(tag, expr.Env(announceEnvironment("", Transition{})))
		if err != nil {
			return 0, err
		}
		a.programs[tag] = program
		return 0, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid transition format %q: %w", format, err)
	}
	return a, nil
}

func announceEnvironment(lampId string, t Transition) map[string]interface{} {
	return map[string]interface{}{
		"src":     t.Source.String(),
		"dst":     t.Destination.String(),
		"trigger": t.Trigger.String(),
		"lamp":    lampId,
	}
}

func (a *Announcer) Render(lampId string, t Transition) (string, error) {
	environment := announceEnvironment(lampId, t)
	buf := new(bytes.Buffer)
	_, err := a.tmpl.ExecuteFunc(buf, func(w io.Writer, tag string) (int, error) {
		rawOutput, err := expr.Run(a.programs[tag], environment)
		if err != nil {
			return 0, err
		}
		return w.Write([]byte(fmt.Sprintf("%v", rawOutput)))
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Announce writes the rendered line for t followed by a newline.
func (a *Announcer) Announce(lampId string, t Transition) {
	line, err := a.Render(lampId, t)
	if err != nil {
		log.WithError(err).Warn("cannot render transition")
		return
	}
	_, _ = fmt.Fprintln(a.out, line)
}
