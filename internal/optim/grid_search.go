package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/tfdrive/internal/config"
	"github.com/san-kum/tfdrive/internal/experiment"
)

var ErrNoTrials = errors.New("optim: no trial produced a value")

// Objective scores one parameter assignment. Lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Workers bounds concurrent trials. Zero means GOMAXPROCS.
	Workers int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Points enumerates the grid, first parameter slowest.
func (g *GridSearch) Points() []map[string]float64 {
	var points []map[string]float64
	g.enumerate(0, make(map[string]float64), &points)
	return points
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val
		g.enumerate(depth+1, newParams, out)
	}
}

// Search evaluates every grid point concurrently and returns the best
// trial with all trials in grid order. Failed trials are kept with their
// error; the search only fails when none succeeds or ctx ends.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.Points()
	trials := make([]Trial, len(points))

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, p := range points {
		i, p := i, p
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			v, err := objective(egCtx, p)
			trials[i] = Trial{Params: p, Value: v, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Trial{}, trials, err
	}
	if err := ctx.Err(); err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Value: math.Inf(1)}
	found := false
	for _, t := range trials {
		if t.Err != nil || math.IsNaN(t.Value) {
			continue
		}
		if !found || t.Value < best.Value {
			best = t
			found = true
		}
	}
	if !found {
		return Trial{}, trials, ErrNoTrials
	}
	return best, trials, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// ExperimentObjective runs base with the trial parameters applied and
// reads metric from the result.
func ExperimentObjective(base *config.Config, reg *experiment.Registry, metric string) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := *base
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return 0, err
			}
		}

		exp := experiment.New(&cfg, reg)
		if err := exp.Setup(); err != nil {
			return 0, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return 0, err
		}
		v, ok := result.Metrics[metric]
		if !ok {
			return 0, fmt.Errorf("optim: run produced no metric %q", metric)
		}
		return v, nil
	}
}
