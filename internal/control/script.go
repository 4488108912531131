package control

import (
	"fmt"

	"github.com/san-kum/tfdrive/internal/sim"
)

type Segment struct {
	Input    float64 `yaml:"input"`
	Duration float64 `yaml:"duration"`
}

// Script plays segments back to back, keyed on simulated time. After the
// last segment the input is zero.
type Script struct {
	segments []Segment
	ends     []float64
}

func NewScript(segments []Segment) (*Script, error) {
	s := &Script{
		segments: make([]Segment, len(segments)),
		ends:     make([]float64, len(segments)),
	}
	t := 0.0
	for i, seg := range segments {
		if seg.Duration <= 0 {
			return nil, fmt.Errorf("segment %d: duration must be positive, got %g", i, seg.Duration)
		}
		if seg.Input < -1 || seg.Input > 1 {
			return nil, fmt.Errorf("segment %d: input %g outside [-1, 1]", i, seg.Input)
		}
		t += seg.Duration
		s.segments[i] = seg
		s.ends[i] = t
	}
	return s, nil
}

// Duration is the total scripted time.
func (s *Script) Duration() float64 {
	if len(s.ends) == 0 {
		return 0
	}
	return s.ends[len(s.ends)-1]
}

func (s *Script) Input(snap sim.Snapshot) float64 {
	for i, end := range s.ends {
		if snap.Time < end-1e-9 {
			return s.segments[i].Input
		}
	}
	return 0
}
