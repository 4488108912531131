package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/tfdrive/internal/sim"
	"github.com/san-kum/tfdrive/internal/track"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	sparkWidth = 40
)

// LiveRenderer draws a headless run to a terminal as it goes. It is a
// sim.Observer and drops frames above frameRate.
type LiveRenderer struct {
	out       io.Writer
	track     track.Geometry
	frameRate int
	lastFrame time.Time
	canvas    *Canvas
	velocity  []float64
}

func NewLiveRenderer(out io.Writer, g track.Geometry, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		track:     g,
		frameRate: frameRate,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		velocity:  make([]float64, 0, sparkWidth),
	}
}

func (r *LiveRenderer) OnTick(s sim.Snapshot) {
	r.velocity = append(r.velocity, s.Vehicle.Velocity)
	if len(r.velocity) > sparkWidth {
		r.velocity = r.velocity[1:]
	}

	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) && s.Scored == nil {
		return
	}
	r.lastFrame = time.Now()
	r.render(s)
}

func (r *LiveRenderer) render(s sim.Snapshot) {
	drawTrack(r.canvas, r.track, s.Vehicle.Position, s.Target)

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%.2fs  nmp=%v\n", s.Mode, s.Time, s.NMP)
	b.WriteString("  " + strings.Repeat("-", canvasWidth) + "\n")
	for _, line := range strings.Split(strings.TrimRight(r.canvas.String(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", canvasWidth) + "\n")
	fmt.Fprintf(&b, "  u=%+.2f  v=%+.3f  pos=%.1f  target=%.1f  %s\n",
		s.Input, s.Vehicle.Velocity, s.Vehicle.Position, s.Target, s.Phase)
	b.WriteString("  " + SparklineChart(r.velocity, sparkWidth) + "\n")
	if s.Scored != nil {
		fmt.Fprintf(&b, "  stopped in %.2fs, off by %.1f\n", s.Scored.Elapsed, s.Scored.PositionError)
	}

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
