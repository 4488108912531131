// Package export writes headless run results as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/tfdrive/internal/scoring"
	"github.com/san-kum/tfdrive/internal/sim"
)

var csvHeader = []string{"time", "input", "base", "accel", "velocity", "position"}

// WriteCSV writes one row per tick.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := range result.Times {
		row := []string{
			format(result.Times[i]),
			format(at(result.Inputs, i)),
			format(at(result.Base, i)),
			format(at(result.Accel, i)),
			format(at(result.Velocity, i)),
			format(at(result.Position, i)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Meta describes how a run was produced.
type Meta struct {
	Mode       string  `json:"mode"`
	Integrator string  `json:"integrator"`
	Driver     string  `json:"driver"`
	NMP        bool    `json:"nmp"`
	Dt         float64 `json:"dt"`
	Duration   float64 `json:"duration"`
}

type Data struct {
	Meta
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	Inputs   []float64          `json:"inputs"`
	Velocity []float64          `json:"velocity"`
	Position []float64          `json:"position"`
	Scores   []Score            `json:"scores"`
	Metrics  map[string]float64 `json:"metrics"`
}

type Score struct {
	Elapsed       float64 `json:"elapsed"`
	PositionError float64 `json:"position_error"`
}

// WriteJSON writes the whole run as one indented document. Metrics that
// are not finite are dropped since JSON cannot carry them.
func WriteJSON(w io.Writer, meta Meta, result *sim.Result) error {
	data := Data{
		Meta:     meta,
		Steps:    result.StepsTaken,
		Times:    result.Times,
		Inputs:   result.Inputs,
		Velocity: result.Velocity,
		Position: result.Position,
		Scores:   scores(result.Scores),
		Metrics:  make(map[string]float64, len(result.Metrics)),
	}
	for k, v := range result.Metrics {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			data.Metrics[k] = v
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func scores(recs []scoring.Record) []Score {
	out := make([]Score, len(recs))
	for i, r := range recs {
		out[i] = Score{Elapsed: r.Elapsed, PositionError: r.PositionError}
	}
	return out
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
