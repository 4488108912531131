package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/tfdrive/internal/filter"
	"github.com/san-kum/tfdrive/internal/integrators"
	"github.com/san-kum/tfdrive/internal/plant"
)

const dt = 1.0 / 60

func trace(t *testing.T, m plant.Mode, nmp bool, duration float64) Trace {
	t.Helper()
	p, err := plant.Map(m)
	require.NoError(t, err)
	return Simulate(p, integrators.NewEuler(), filter.NewZero(nmp), 1, dt, duration)
}

func TestSimulateLengths(t *testing.T) {
	tr := trace(t, plant.SecondOrder{PercentOvershoot: 10, SettlingTime: 2}, false, 1)
	assert.Len(t, tr.Times, 60)
	assert.Len(t, tr.Output, 60)
	assert.InDelta(t, 1.0, tr.Times[59], 1e-9)
	assert.Equal(t, tr.Base, tr.Output)
}

func TestCharacterizeSecondOrder(t *testing.T) {
	tr := trace(t, plant.SecondOrder{PercentOvershoot: 10, SettlingTime: 2}, false, 10)
	sr, err := Characterize(tr.Output, dt)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, sr.Final, 1e-6)
	assert.InDelta(t, 10, sr.Overshoot, 2)
	assert.Equal(t, 0.0, sr.Undershoot)
	assert.Greater(t, sr.RiseTime, 0.0)
	assert.Less(t, sr.RiseTime, sr.PeakTime)
	assert.LessOrEqual(t, sr.SettlingTime, 2.1)
	assert.Greater(t, sr.SettlingTime, sr.PeakTime)
}

func TestCharacterizeNMPUndershoots(t *testing.T) {
	plain := trace(t, plant.SecondOrder{PercentOvershoot: 10, SettlingTime: 2}, false, 10)
	nmp := trace(t, plant.SecondOrder{PercentOvershoot: 10, SettlingTime: 2}, true, 10)

	a, err := Characterize(plain.Output, dt)
	require.NoError(t, err)
	b, err := Characterize(nmp.Output, dt)
	require.NoError(t, err)

	assert.InDelta(t, a.Final, b.Final, 1e-6)
	assert.Greater(t, b.Undershoot, 10.0)
	assert.Greater(t, b.Overshoot, a.Overshoot)
}

func TestCharacterizePoleZero(t *testing.T) {
	tr := trace(t, plant.PoleZero{Zero: 2, Pole: 1}, false, 15)
	sr, err := Characterize(tr.Output, dt)
	require.NoError(t, err)

	// DC gain a/b
	assert.InDelta(t, 2.0, sr.Final, 1e-4)
	assert.InDelta(t, 47.5, sr.Undershoot, 1)
	assert.Equal(t, 0.0, sr.Overshoot)
}

func TestCharacterizeNoFinal(t *testing.T) {
	_, err := Characterize(nil, dt)
	assert.ErrorIs(t, err, ErrNoResponse)
	_, err = Characterize([]float64{1, 2, 0}, dt)
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestCharacterizeNegativeFinal(t *testing.T) {
	sr, err := Characterize([]float64{-0.5, -1.2, -1.0, -1.0}, 1)
	require.NoError(t, err)
	assert.Equal(t, -1.0, sr.Final)
	assert.Equal(t, -1.2, sr.Peak)
	assert.InDelta(t, 20, sr.Overshoot, 1e-9)
	assert.Equal(t, 2.0, sr.PeakTime)
}

func TestRingFrequencyMatchesDampedFrequency(t *testing.T) {
	m := plant.SecondOrder{PercentOvershoot: 40, SettlingTime: 8}
	p, err := plant.Map(m)
	require.NoError(t, err)
	zeta, wn := p.Damping()

	tr := Simulate(p, integrators.NewEuler(), filter.NewZero(false), 1, dt, 20)
	w, err := RingFrequency(tr.Output, dt)
	require.NoError(t, err)

	assert.InEpsilon(t, DampedFrequency(zeta, wn), w, 0.05)
}

func TestRingFrequencyErrors(t *testing.T) {
	_, err := RingFrequency([]float64{1, 2}, dt)
	assert.ErrorIs(t, err, ErrNoResponse)
	_, err = RingFrequency([]float64{1, 1, 1, 1, 1}, dt)
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestDampedFrequency(t *testing.T) {
	assert.Equal(t, 0.0, DampedFrequency(1, 3))
	assert.Equal(t, 0.0, DampedFrequency(0, 3))
	assert.InDelta(t, 3*0.8, DampedFrequency(0.6, 3), 1e-12)
}

func TestPhasePortraitASCII(t *testing.T) {
	tr := trace(t, plant.SecondOrder{PercentOvershoot: 30, SettlingTime: 4}, false, 6)
	portrait := NewPhasePortrait(tr)
	require.Len(t, portrait.Points, len(tr.X1))

	out := PhasePortraitToASCII(portrait, 40, 12)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 12)
	for _, l := range lines {
		assert.Equal(t, 40, len([]rune(l)))
	}
	assert.Contains(t, out, "•")
	assert.Equal(t, "", PhasePortraitToASCII(nil, 40, 12))
}
