package sim

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Simulator", func() {
	var (
		s     *Simulator
		clock *fakeClock
		vp    *fixedViewport
	)

	start := func(t time.Time, cfg Config) {
		s, clock, vp = newTestSim(t, cfg)
		s.Init()
	}

	Context("initialized at 3:07:45", func() {
		BeforeEach(func() { start(at(3, 7, 45), DefaultConfig()) })

		It("creates one bubble per elapsed unit", func() {
			Expect(s.Count(Hour)).To(Equal(3))
			Expect(s.Count(Minute)).To(Equal(7))
			Expect(s.Count(Second)).To(Equal(45))
			Expect(s.Bubbles()).To(HaveLen(55))
		})

		It("starts every bubble steady at its scaled target", func() {
			scale := DynamicScale(vp.w*vp.h, 55, 130, 1000)
			Expect(s.Scale()).To(BeNumerically("~", scale, 1e-12))
			for _, b := range s.Bubbles() {
				base := s.Config().Categories[b.Category].BaseRadius
				Expect(b.Phase).To(Equal(Steady))
				Expect(b.Radius).To(Equal(b.Target))
				Expect(b.Target).To(BeNumerically("~", base*scale, 1e-9))
			}
		})

		It("places bubbles inside the viewport", func() {
			for _, b := range s.Bubbles() {
				Expect(b.X).To(BeNumerically(">=", 0))
				Expect(b.X).To(BeNumerically("<=", vp.w))
				Expect(b.Y).To(BeNumerically(">=", 0))
				Expect(b.Y).To(BeNumerically("<=", vp.h))
			}
		})

		It("spawns the next second with an animation", func() {
			clock.Advance(time.Second)
			s.Frame(referenceFrame)
			Expect(s.Count(Second)).To(Equal(46))

			var newest Bubble
			for _, b := range s.Bubbles() {
				if b.ID > newest.ID {
					newest = b
				}
			}
			Expect(newest.Category).To(Equal(Second))
			Expect(newest.Phase).To(Equal(Spawning))
			Expect(newest.Radius).To(BeNumerically("<", newest.Target))
		})
	})

	Context("with a full second category", func() {
		BeforeEach(func() { start(at(5, 20, 59), DefaultConfig()) })

		It("rolls seconds into one more minute", func() {
			clock.Advance(time.Second)
			s.Frame(referenceFrame)

			Expect(s.Count(Second)).To(Equal(0))
			Expect(s.Count(Minute)).To(Equal(21))
			Expect(s.Retiring()).To(Equal(59))
		})

		It("finishes the shrink within the animation duration", func() {
			clock.Advance(time.Second)
			s.Frame(referenceFrame)
			for i := 0; i < 10; i++ {
				s.Frame(100 * time.Millisecond)
			}
			Expect(s.Retiring()).To(BeZero())
			Expect(s.Bubbles()).To(HaveLen(s.Active()))
		})
	})

	Context("at the twelve hour boundary", func() {
		BeforeEach(func() { start(at(0, 59, 59), DefaultConfig()) })

		It("resets the hour count instead of growing past twelve", func() {
			Expect(s.Count(Hour)).To(Equal(12))

			clock.Advance(time.Second)
			s.Frame(referenceFrame)

			Expect(s.Count(Hour)).To(BeZero())
			Expect(s.Active()).To(BeZero())
		})
	})

	Context("running the simple variant", func() {
		BeforeEach(func() {
			cfg := DefaultConfig()
			cfg.Features = Features{}
			start(at(7, 0, 59), cfg)
		})

		It("removes retired bubbles immediately", func() {
			clock.Advance(time.Second)
			s.Frame(referenceFrame)
			Expect(s.Retiring()).To(BeZero())
			Expect(s.Bubbles()).To(HaveLen(8))
		})

		It("never resizes existing bubbles", func() {
			before := s.Bubbles()[0].Target
			for i := 0; i < 5; i++ {
				clock.Advance(time.Second)
				s.Frame(referenceFrame)
			}
			Expect(s.Bubbles()[0].Target).To(Equal(before))
		})
	})

	Context("over an hour of frames", func() {
		BeforeEach(func() { start(at(11, 59, 0), DefaultConfig()) })

		It("keeps every category within its maximum", func() {
			for i := 0; i < 3700; i++ {
				clock.Advance(time.Second)
				s.Frame(time.Second)
				Expect(s.Count(Hour)).To(BeNumerically("<=", 12))
				Expect(s.Count(Minute)).To(BeNumerically("<=", 59))
				Expect(s.Count(Second)).To(BeNumerically("<=", 59))
			}
		})
	})
})
