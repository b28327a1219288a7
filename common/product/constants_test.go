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

package product

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("version file parsing", func() {
	When("all components are present", func() {
		It("returns them trimmed", func() {
			major, minor, patch := parseVersionFile("VERSION_MAJOR := 1\nVERSION_MINOR := 4\nVERSION_PATCH := 2\n")
			Expect(major).To(Equal("1"))
			Expect(minor).To(Equal("4"))
			Expect(patch).To(Equal("2"))
		})
	})
	When("unrelated lines are present", func() {
		It("skips them", func() {
			major, minor, patch := parseVersionFile("# build\nVERSION_MAJOR := 3\nFOO := bar\n")
			Expect(major).To(Equal("3"))
			Expect(minor).To(BeEmpty())
			Expect(patch).To(BeEmpty())
		})
	})
	When("the version is assembled", func() {
		It("joins the components with dots", func() {
			Expect(VERSION).To(Equal(VERSION_MAJOR + "." + VERSION_MINOR + "." + VERSION_PATCH))
		})
	})
})

func TestProduct(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Product Test Suite")
}
