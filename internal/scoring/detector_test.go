package scoring_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tfdrive/internal/scoring"
	"github.com/san-kum/tfdrive/internal/track"
)

const dt = 1.0 / 60

// driver feeds the detector one tick at a time with a simulated clock.
type driver struct {
	d   *scoring.Detector
	now float64
}

func (dr *driver) tick(input, velocity, position float64) (scoring.Record, bool) {
	dr.now += dt
	return dr.d.Observe(input, velocity, position, dr.now, dt)
}

func (dr *driver) hold(n int, input, velocity, position float64) []scoring.Record {
	var out []scoring.Record
	for i := 0; i < n; i++ {
		if rec, ok := dr.tick(input, velocity, position); ok {
			out = append(out, rec)
		}
	}
	return out
}

var _ = Describe("Detector", func() {
	var (
		loop track.Loop
		dr   *driver
	)

	BeforeEach(func() {
		loop = track.DefaultLoop()
		dr = &driver{d: scoring.NewDetector(600, loop)}
	})

	It("starts idle", func() {
		Expect(dr.d.Phase()).To(Equal(scoring.Idle))
		_, ok := dr.d.Last()
		Expect(ok).To(BeFalse())
	})

	It("does not start timing without input", func() {
		Expect(dr.hold(120, 0, 0, 0)).To(BeEmpty())
		Expect(dr.d.Phase()).To(Equal(scoring.Idle))
	})

	It("does not start timing when input is pressed while already moving", func() {
		dr.tick(1, 5, 10)
		Expect(dr.d.Phase()).To(Equal(scoring.Idle))
	})

	Context("after motion starts from rest", func() {
		BeforeEach(func() {
			_, ok := dr.tick(1, 0, 0)
			Expect(ok).To(BeFalse())
			Expect(dr.d.Phase()).To(Equal(scoring.Timing))
			Expect(dr.d.StartTime()).To(BeNumerically("~", dt, 1e-12))
		})

		It("emits exactly one record after one second of stop", func() {
			recs := dr.hold(90, 0, 3, 300)
			Expect(recs).To(BeEmpty())

			recs = dr.hold(59, 0, 0.01, 590)
			Expect(recs).To(BeEmpty())
			Expect(dr.d.Phase()).To(Equal(scoring.Timing))

			recs = dr.hold(1, 0, 0.01, 590)
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].PositionError).To(BeNumerically("~", 10, 1e-9))
			Expect(recs[0].Elapsed).To(BeNumerically("~", dr.now-dt, 1e-9))
			Expect(dr.d.Phase()).To(Equal(scoring.Idle))

			Expect(dr.hold(300, 0, 0, 590)).To(BeEmpty())

			last, ok := dr.d.Last()
			Expect(ok).To(BeTrue())
			Expect(last).To(Equal(recs[0]))
		})

		It("resets the stop timer when the vehicle moves again", func() {
			dr.hold(30, 0, 3, 100)
			dr.hold(40, 0, 0, 150)
			Expect(dr.d.StopTimer()).To(BeNumerically("~", 40*dt, 1e-9))

			dr.tick(0, -1, 149)
			Expect(dr.d.StopTimer()).To(Equal(0.0))

			Expect(dr.hold(59, 0, 0, 140)).To(BeEmpty())
			Expect(dr.hold(1, 0, 0, 140)).To(HaveLen(1))
		})

		It("uses the shortest way round the loop", func() {
			n := loop.Length()
			dr.hold(10, 0, 2, 0)
			recs := dr.hold(60, 0, 0, n-20)
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].PositionError).To(BeNumerically("~", 620, 1e-9))
		})

		It("wraps a target given outside the loop", func() {
			n := loop.Length()
			dr.d.Target = -100
			dr.hold(10, 0, 2, 0)
			recs := dr.hold(60, 0, 0, 1250)
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].PositionError).To(BeNumerically("~", 1250-(n-100), 1e-9))
			Expect(recs[0].PositionError).To(BeNumerically(">", 0))
		})

		It("returns to idle silently when the vehicle never moved", func() {
			Expect(dr.hold(60, 1, 0.001, 0)).To(BeEmpty())
			Expect(dr.d.Phase()).To(Equal(scoring.Idle))
			_, ok := dr.d.Last()
			Expect(ok).To(BeFalse())
		})

		It("clears the previous result when a new run starts", func() {
			dr.hold(10, 0, 2, 0)
			Expect(dr.hold(60, 0, 0, 600)).To(HaveLen(1))
			_, ok := dr.d.Last()
			Expect(ok).To(BeTrue())

			dr.tick(-1, 0, 600)
			Expect(dr.d.Phase()).To(Equal(scoring.Timing))
			_, ok = dr.d.Last()
			Expect(ok).To(BeFalse())
		})

		It("forgets everything on reset", func() {
			dr.hold(10, 0, 2, 0)
			dr.d.Reset()
			Expect(dr.d.Phase()).To(Equal(scoring.Idle))
			Expect(dr.d.StopTimer()).To(Equal(0.0))
			Expect(dr.hold(120, 0, 0, 0)).To(BeEmpty())
		})
	})

	It("measures plain distance on an open track", func() {
		dr.d = scoring.NewDetector(400, track.DefaultLine())
		dr.tick(1, 0, 50)
		dr.hold(20, 1, 4, 200)
		recs := dr.hold(60, 0, 0, 1200)
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].PositionError).To(Equal(800.0))
	})
})

var _ = Describe("Log", func() {
	It("keeps newest first and evicts the oldest past capacity", func() {
		l := scoring.NewLog(3)
		for i := 1; i <= 5; i++ {
			l.Push(scoring.Record{Elapsed: float64(i)})
			Expect(l.Len()).To(BeNumerically("<=", 3))
		}
		Expect(l.Records()).To(Equal([]scoring.Record{
			{Elapsed: 5}, {Elapsed: 4}, {Elapsed: 3},
		}))
	})

	It("returns copies", func() {
		l := scoring.NewLog(3)
		l.Push(scoring.Record{Elapsed: 1})
		recs := l.Records()
		recs[0].Elapsed = 99
		Expect(l.Records()[0].Elapsed).To(Equal(1.0))
	})

	It("falls back to the default size and can be cleared", func() {
		l := scoring.NewLog(0)
		Expect(l.Cap()).To(Equal(scoring.DefaultLogSize))
		l.Push(scoring.Record{})
		l.Reset()
		Expect(l.Len()).To(BeZero())
	})
})
