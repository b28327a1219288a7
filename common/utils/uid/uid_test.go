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

package uid

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("unique identifiers", func() {
	When("a new ID is generated", func() {
		It("is not nil and decomposes back", func() {
			id := New()
			Expect(id.IsNil()).To(BeFalse())
			parsed, err := FromString(id.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(id))
		})
		It("differs from the next one", func() {
			Expect(New()).NotTo(Equal(New()))
		})
	})
	When("an ID is marshalled", func() {
		It("becomes a JSON string", func() {
			out, err := json.Marshal(ID("2oDvieFrVTi"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(`"2oDvieFrVTi"`))
		})
	})
	It("has a nil value", func() {
		Expect(NilID().IsNil()).To(BeTrue())
	})
})

func TestUid(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UID Test Suite")
}
