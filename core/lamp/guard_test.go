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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("photo guard", func() {
	It("holds only after 13:00 by default", func() {
		for _, tc := range []struct {
			clock Clock
			holds bool
		}{
			{at(0, 0, 0), false},
			{at(12, 59, 59), false},
			{at(13, 0, 0), false},
			{at(13, 0, 1), true},
			{at(23, 59, 59), true},
		} {
			guard, err := NewGuard(DefaultPhotoGuard, tc.clock)
			Expect(err).NotTo(HaveOccurred())
			Expect(guard()).To(Equal(tc.holds))
		}
	})

	It("accepts other expressions", func() {
		guard, err := NewGuard(`weekday == "Monday" && hour >= 8`, at(8, 30, 0))
		Expect(err).NotTo(HaveOccurred())
		Expect(guard()).To(BeTrue())
	})

	It("rejects expressions that do not compile", func() {
		_, err := NewGuard("hour >", nil)
		Expect(err).To(MatchError(ContainSubstring("invalid guard expression")))
		_, err = NewGuard("hour + 1", nil)
		Expect(err).To(HaveOccurred())
		_, err = NewGuard("sunset < hour", nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("announcer", func() {
	t := Transition{Trigger: Push, Source: Off, Destination: On}

	It("renders the default line", func() {
		out := new(bytes.Buffer)
		a, err := NewAnnouncer(DefaultTransitionFormat, out)
		Expect(err).NotTo(HaveOccurred())
		a.Announce("lamp1", t)
		a.Announce("lamp1", Transition{Trigger: Timer, Source: On, Destination: Off})
		Expect(out.String()).To(Equal("Off -> On\nOn -> Off\n"))
	})

	It("evaluates expressions in tags", func() {
		a, err := NewAnnouncer(`{{lamp}}: {{trigger}} turned the lamp {{dst == "On" ? "on" : "off"}}`, new(bytes.Buffer))
		Expect(err).NotTo(HaveOccurred())
		line, err := a.Render("lamp1", t)
		Expect(err).NotTo(HaveOccurred())
		Expect(line).To(Equal("lamp1: Push turned the lamp on"))
	})

	It("fails on unknown tags", func() {
		_, err := NewAnnouncer("{{brightness}}", new(bytes.Buffer))
		Expect(err).To(MatchError(ContainSubstring("invalid transition format")))
	})
})
