package control

import "github.com/san-kum/tfdrive/internal/sim"

// DefaultHold covers the gap a terminal leaves between the first key
// press and its auto-repeat.
const DefaultHold = 0.5

// Manual turns key presses into a held input. Terminals report presses and
// repeats but never releases, so a press holds for Hold seconds of
// simulated time and each repeat extends it.
type Manual struct {
	Hold float64

	value float64
	until float64
	now   float64
}

func NewManual() *Manual {
	return &Manual{Hold: DefaultHold}
}

// Press holds direction dir (-1 brake, +1 accelerate).
func (m *Manual) Press(dir float64) {
	switch {
	case dir > 0:
		m.value = 1
	case dir < 0:
		m.value = -1
	default:
		m.value = 0
	}
	m.until = m.now + m.Hold
}

func (m *Manual) Release() {
	m.value = 0
	m.until = 0
}

func (m *Manual) Input(s sim.Snapshot) float64 {
	m.now = s.Time
	if m.now >= m.until {
		m.value = 0
	}
	return m.value
}

// Held reports the current input without advancing time.
func (m *Manual) Held() float64 {
	return m.value
}
