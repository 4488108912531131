package analysis

import "strings"

// PhasePortrait holds a plant trajectory in the (x1, x2) plane.
type PhasePortrait struct {
	Points []struct{ X, Y float64 }
}

// NewPhasePortrait takes the state trajectory from a trace.
func NewPhasePortrait(tr Trace) *PhasePortrait {
	portrait := &PhasePortrait{
		Points: make([]struct{ X, Y float64 }, 0, len(tr.X1)),
	}
	for i := range tr.X1 {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: tr.X1[i],
			Y: tr.X2[i],
		})
	}
	return portrait
}

type bounds struct{ lo, hi float64 }

func (b bounds) pad() bounds {
	span := b.hi - b.lo
	if span == 0 {
		span = 1
	}
	return bounds{b.lo - span*0.1, b.hi + span*0.1}
}

// scale maps v onto 0..cells-1.
func (b bounds) scale(v float64, cells int) int {
	return int((v - b.lo) / (b.hi - b.lo) * float64(cells-1))
}

// PhasePortraitToASCII plots the trajectory with x1 across and x2 up,
// drawing the axes where they fall inside the plot.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	bx := bounds{portrait.Points[0].X, portrait.Points[0].X}
	by := bounds{portrait.Points[0].Y, portrait.Points[0].Y}
	for _, p := range portrait.Points {
		bx.lo, bx.hi = min(bx.lo, p.X), max(bx.hi, p.X)
		by.lo, by.hi = min(by.lo, p.Y), max(by.hi, p.Y)
	}
	bx, by = bx.pad(), by.pad()

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	set := func(row, col int, c rune, over bool) {
		if row < 0 || row >= height || col < 0 || col >= width {
			return
		}
		if over || grid[row][col] == ' ' {
			grid[row][col] = c
		}
	}

	for _, p := range portrait.Points {
		set(height-1-by.scale(p.Y, height), bx.scale(p.X, width), '•', true)
	}
	if bx.lo <= 0 && bx.hi >= 0 {
		col := bx.scale(0, width)
		for row := 0; row < height; row++ {
			set(row, col, '│', false)
		}
	}
	if by.lo <= 0 && by.hi >= 0 {
		row := height - 1 - by.scale(0, height)
		for col := 0; col < width; col++ {
			set(row, col, '─', false)
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
