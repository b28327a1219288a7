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
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/AliceO2Group/LampControl/common/event"
	"github.com/AliceO2Group/LampControl/core/sm"
	"github.com/AliceO2Group/LampControl/core/timer"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("lamp controller", func() {
	var (
		tm *manualTimer
		c  *Controller
	)

	newController := func(opts ...Option) *Controller {
		ctrl, err := NewController(append([]Option{WithTimer(tm), WithClock(at(9, 0, 0))}, opts...)...)
		Expect(err).NotTo(HaveOccurred())
		return ctrl
	}

	BeforeEach(func() {
		tm = &manualTimer{}
		c = newController()
	})

	AfterEach(func() {
		c.Close()
	})

	It("starts Off with an ID", func() {
		Expect(c.State()).To(Equal(Off))
		Expect(c.ID().IsNil()).To(BeFalse())
		starts, stops := tm.counts()
		Expect(starts).To(BeZero())
		Expect(stops).To(BeZero())
	})

	It("follows the push, expiry, push scenario", func() {
		outcome, err := c.Push()
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(sm.Transitioned))
		Expect(c.State()).To(Equal(On))
		starts, _ := tm.counts()
		Expect(starts).To(Equal(1))

		tm.Expire()
		Expect(c.State()).To(Equal(Off))
		_, stops := tm.counts()
		Expect(stops).To(Equal(1))

		outcome, err = c.Push()
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(sm.Transitioned))
		Expect(c.State()).To(Equal(On))
		starts, _ = tm.counts()
		Expect(starts).To(Equal(2))
	})

	It("toggles on two pushes", func() {
		_, err := c.Push()
		Expect(err).NotTo(HaveOccurred())
		_, err = c.Push()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.State()).To(Equal(Off))
		starts, stops := tm.counts()
		Expect(starts).To(Equal(1))
		Expect(stops).To(Equal(1))
	})

	It("ignores Timer while Off", func() {
		outcome, err := c.Fire(Timer)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(sm.Ignored))
		Expect(c.State()).To(Equal(Off))
	})

	It("turns Off on any trigger while On", func() {
		for _, trigger := range Triggers() {
			_, err := c.Push()
			Expect(err).NotTo(HaveOccurred())
			outcome, err := c.Fire(trigger)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(sm.Transitioned))
			Expect(c.State()).To(Equal(Off))
		}
	})

	When("the photo sensor fires", func() {
		It("is rejected in the morning", func() {
			outcome, err := c.Photo()
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(sm.Rejected))
			Expect(outcome.Err()).To(MatchError(sm.ErrTransitionRejected))
			Expect(c.State()).To(Equal(Off))
			starts, _ := tm.counts()
			Expect(starts).To(BeZero())
		})

		It("is rejected at exactly 13:00", func() {
			c.Close()
			c = newController(WithClock(at(13, 0, 0)))
			outcome, err := c.Photo()
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(sm.Rejected))
		})

		It("turns the lamp on in the afternoon", func() {
			c.Close()
			c = newController(WithClock(at(13, 0, 1)))
			outcome, err := c.Photo()
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(sm.Transitioned))
			Expect(c.State()).To(Equal(On))
		})

		It("uses a custom guard", func() {
			c.Close()
			c = newController(WithPhotoGuard(func() bool { return true }, "always"))
			Expect(c.CanFire(Photo)).To(BeTrue())
			Expect(c.Dot()).To(ContainSubstring(`label="Photo [always]"`))
		})
	})

	It("fails on a trigger it does not know", func() {
		outcome, err := c.Fire(Trigger(99))
		Expect(outcome).To(Equal(sm.Unsupported))
		Expect(errors.Is(err, sm.ErrUnsupportedTransition)).To(BeTrue())
		var unsupported *sm.UnsupportedTransitionError
		Expect(errors.As(err, &unsupported)).To(BeTrue())
		Expect(unsupported.State).To(Equal("Off"))
		Expect(unsupported.Trigger).To(Equal("Trigger(99)"))
		Expect(c.State()).To(Equal(Off))
	})

	It("starts and stops the timer once per On period with several callbacks", func() {
		var calls []string
		c.OnLampOn(func() { calls = append(calls, "first") })
		c.OnLampOn(func() { calls = append(calls, "second") })
		c.OnLampOn(func() {
			starts, _ := tm.counts()
			Expect(starts).To(Equal(1))
			calls = append(calls, "third")
		})
		c.OnLampOn(nil)

		_, err := c.Push()
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"first", "second", "third"}))

		_, err = c.Photo()
		Expect(err).NotTo(HaveOccurred())
		starts, stops := tm.counts()
		Expect(starts).To(Equal(1))
		Expect(stops).To(Equal(1))
	})

	When("a timer expiry arrives late", func() {
		It("is discarded after Close", func() {
			_, err := c.Push()
			Expect(err).NotTo(HaveOccurred())
			c.Close()
			c.Close()

			tm.Expire()
			Expect(c.State()).To(Equal(On))

			_, err = c.Push()
			Expect(err).To(MatchError(ErrControllerClosed))
		})

		It("is discarded once the lamp left On", func() {
			_, err := c.Push()
			Expect(err).NotTo(HaveOccurred())
			stale := tm.handler(0)
			_, err = c.Push()
			Expect(err).NotTo(HaveOccurred())
			_, err = c.Push()
			Expect(err).NotTo(HaveOccurred())

			stale()
			Expect(c.State()).To(Equal(On))

			tm.Expire()
			Expect(c.State()).To(Equal(Off))
		})
	})

	It("lists permitted triggers for the current state", func() {
		Expect(c.PermittedTriggers()).To(Equal([]Trigger{Push}))
		_, err := c.Push()
		Expect(err).NotTo(HaveOccurred())
		Expect(c.PermittedTriggers()).To(Equal([]Trigger{Push, Photo, Timer}))
	})

	It("describes itself", func() {
		info := c.Info()
		Expect(info.Initial).To(Equal("Off"))
		Expect(info.States).To(HaveLen(2))
		Expect(info.States[0].Ignored).To(Equal([]string{"Timer"}))
		Expect(info.States[1].EntryActions).To(Equal([]string{"StartTimer", "OnLampOn"}))
		Expect(info.States[1].ExitActions).To(Equal([]string{"StopTimer"}))

		dot := c.Dot()
		Expect(dot).To(ContainSubstring(`"Off" -> "On" [style="solid", label="Photo [` + DefaultPhotoGuard + `]"];`))
		Expect(dot).To(ContainSubstring(`"On" [label="On|entry / StartTimer\nentry / OnLampOn\nexit / StopTimer"];`))
	})

	It("notifies observers after entry actions", func() {
		var seen []Transition
		c.Close()
		c = newController(OnTransitioned(func(t Transition) {
			starts, _ := tm.counts()
			Expect(starts).To(Equal(1))
			seen = append(seen, t)
		}))
		_, err := c.Push()
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]Transition{{Trigger: Push, Source: Off, Destination: On}}))
	})

	It("writes an event for every trigger", func() {
		w := &recordingWriter{}
		c.Close()
		c = newController(WithWriter(w))

		_, _ = c.Photo()
		_, _ = c.Push()

		var names []string
		for _, e := range w.Events() {
			names = append(names, e.GetName())
		}
		Expect(names).To(Equal([]string{"Off -> Off", "TIMER_started", "Off -> On"}))
		rejected := w.Events()[0].(*event.LampTransitionEvent)
		Expect(rejected.Outcome).To(Equal("rejected"))
		Expect(rejected.LampId).To(Equal(c.ID()))
	})

	It("can start On without a running timer", func() {
		c.Close()
		c = newController(WithInitialState(On))
		Expect(c.State()).To(Equal(On))
		starts, _ := tm.counts()
		Expect(starts).To(BeZero())
		_, err := c.Fire(Timer)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.State()).To(Equal(Off))
	})

	fold := func(seed int64, photoTurnsOn bool) {
		rng := rand.New(rand.NewSource(seed))
		expected := Off
		entries, exits := 0, 0
		for i := 0; i < 500; i++ {
			trigger := Triggers()[rng.Intn(3)]
			switch {
			case expected == On:
				expected = Off
				exits++
			case trigger == Push, trigger == Photo && photoTurnsOn:
				expected = On
				entries++
			}
			_, err := c.Fire(trigger)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.State()).To(Equal(expected))

			starts, stops := tm.counts()
			Expect(starts).To(Equal(entries))
			Expect(stops).To(Equal(exits))
		}
		Expect(exits).To(BeNumerically(">", 0))
	}

	It("matches the transition table for any trigger sequence", func() {
		fold(11, false)
	})

	It("matches the transition table for any trigger sequence in the afternoon", func() {
		c.Close()
		tm = &manualTimer{}
		c = newController(WithClock(at(14, 0, 0)))
		fold(23, true)
	})

	It("stops the timer once per exit and once more on Close", func() {
		_, err := c.Push()
		Expect(err).NotTo(HaveOccurred())
		_, err = c.Fire(Timer)
		Expect(err).NotTo(HaveOccurred())
		_, stops := tm.counts()
		Expect(stops).To(Equal(1))

		c.Close()
		c.Close()
		_, stops = tm.counts()
		Expect(stops).To(Equal(2))
	})

	It("serializes concurrent triggers and expiries", func() {
		wg := sync.WaitGroup{}
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for j := 0; j < 50; j++ {
					_, err := c.Push()
					Expect(err).NotTo(HaveOccurred())
					tm.Expire()
				}
			}()
		}
		wg.Wait()

		starts, stops := tm.counts()
		if c.State() == On {
			Expect(starts - stops).To(Equal(1))
		} else {
			Expect(starts).To(Equal(stops))
		}
	})

	It("turns itself off with a wall clock timer", func() {
		c.Close()
		ctrl, err := NewController(WithTimer(timer.NewInterval(10*time.Millisecond, false)))
		Expect(err).NotTo(HaveOccurred())
		c = ctrl
		_, err = c.Push()
		Expect(err).NotTo(HaveOccurred())
		Eventually(c.State, time.Second).Should(Equal(Off))
	})
})

var _ = Describe("lamp enums", func() {
	It("parses names case-insensitively", func() {
		trigger, err := TriggerFromString("photo")
		Expect(err).NotTo(HaveOccurred())
		Expect(trigger).To(Equal(Photo))
		state, err := StateFromString("ON")
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(Equal(On))

		_, err = TriggerFromString("knock")
		Expect(err).To(HaveOccurred())
		_, err = StateFromString("dim")
		Expect(err).To(HaveOccurred())
	})

	It("names out of range values", func() {
		Expect(State(7).String()).To(Equal("State(7)"))
		Expect(strings.Join([]string{Push.String(), Photo.String(), Timer.String()}, ",")).To(Equal("Push,Photo,Timer"))
	})
})
