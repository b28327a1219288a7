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

package sm

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const unnamedAction = "Function"

type TransitionInfo struct {
	Trigger     string `json:"trigger" yaml:"trigger"`
	Destination string `json:"destination" yaml:"destination"`
	Guard       string `json:"guard,omitempty" yaml:"guard,omitempty"`
}

type StateInfo struct {
	State        string           `json:"state" yaml:"state"`
	Transitions  []TransitionInfo `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Ignored      []string         `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	EntryActions []string         `json:"entryActions,omitempty" yaml:"entryActions,omitempty"`
	ExitActions  []string         `json:"exitActions,omitempty" yaml:"exitActions,omitempty"`
}

// MachineInfo is a static description of a Machine's transition table
// together with its current state.
type MachineInfo struct {
	Initial string      `json:"initial" yaml:"initial"`
	Current string      `json:"current" yaml:"current"`
	States  []StateInfo `json:"states" yaml:"states"`
}

func (i MachineInfo) YAML() ([]byte, error) {
	return yaml.Marshal(i)
}

func describeHooks[S, T comparable](hooks []hook[S, T]) []string {
	if len(hooks) == 0 {
		return nil
	}
	out := make([]string, 0, len(hooks))
	for _, h := range hooks {
		if len(h.desc) == 0 {
			out = append(out, unnamedAction)
			continue
		}
		out = append(out, h.desc)
	}
	return out
}

func (m *Machine[S, T]) Info() MachineInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := MachineInfo{
		Initial: fmt.Sprint(m.initial),
		Current: fmt.Sprint(m.state),
		States:  make([]StateInfo, 0, len(m.order)),
	}
	for _, s := range m.order {
		repr := m.states[s]
		si := StateInfo{
			State:        fmt.Sprint(s),
			EntryActions: describeHooks(repr.entry),
			ExitActions:  describeHooks(repr.exit),
		}
		for _, trigger := range repr.triggers {
			if repr.ignores(trigger) {
				si.Ignored = append(si.Ignored, fmt.Sprint(trigger))
			}
			for _, r := range repr.rules[trigger] {
				ti := TransitionInfo{
					Trigger:     fmt.Sprint(trigger),
					Destination: fmt.Sprint(r.dst),
				}
				if r.guard != nil {
					ti.Guard = r.guardDesc
					if len(ti.Guard) == 0 {
						ti.Guard = unnamedAction
					}
				}
				si.Transitions = append(si.Transitions, ti)
			}
		}
		info.States = append(info.States, si)
	}
	return info
}

// Dot renders the transition table as a UML-style DOT digraph.
func (m *Machine[S, T]) Dot() string {
	info := m.Info()

	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("compound=true;\n")
	b.WriteString("node [shape=Mrecord]\n")
	b.WriteString("rankdir=\"LR\"\n")

	for _, si := range info.States {
		var lines []string
		for _, a := range si.EntryActions {
			lines = append(lines, "entry / "+a)
		}
		for _, a := range si.ExitActions {
			lines = append(lines, "exit / "+a)
		}
		for _, t := range si.Ignored {
			lines = append(lines, "ignore / "+t)
		}
		label := si.State
		if len(lines) > 0 {
			label += "|" + strings.Join(lines, "\\n")
		}
		fmt.Fprintf(&b, "\"%s\" [label=\"%s\"];\n", si.State, label)
	}
	b.WriteString("\n")

	for _, si := range info.States {
		for _, t := range si.Transitions {
			label := t.Trigger
			if len(t.Guard) > 0 {
				label += " [" + t.Guard + "]"
			}
			fmt.Fprintf(&b, "\"%s\" -> \"%s\" [style=\"solid\", label=\"%s\"];\n", si.State, t.Destination, label)
		}
	}

	b.WriteString(" init [label=\"\", shape=point];\n")
	fmt.Fprintf(&b, " init -> \"%s\"[style = \"solid\"]\n", info.Initial)
	b.WriteString("}")
	return b.String()
}
