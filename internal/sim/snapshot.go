package sim

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Header is the per-step, per-patch output contract. Downstream aggregation
// and visualization depend on these exact column names.
var Header = []string{
	"step",
	"position.x",
	"position.y",
	"numSeedling",
	"numJuvenile",
	"numAdult",
	"numAlive",
	"newSeedlings",
	"invasiveCover",
	"fireSeverity",
}

// Row is one patch's exported state for one step.
type Row struct {
	Step          int
	X, Y          int
	NumSeedling   int
	NumJuvenile   int
	NumAdult      int
	NumAlive      int
	NewSeedlings  int
	InvasiveCover float64
	FireSeverity  float64
}

// Record serializes the row in Header order.
func (r Row) Record() []string {
	return []string{
		strconv.Itoa(r.Step),
		strconv.Itoa(r.X),
		strconv.Itoa(r.Y),
		strconv.Itoa(r.NumSeedling),
		strconv.Itoa(r.NumJuvenile),
		strconv.Itoa(r.NumAdult),
		strconv.Itoa(r.NumAlive),
		strconv.Itoa(r.NewSeedlings),
		strconv.FormatFloat(r.InvasiveCover, 'g', -1, 64),
		strconv.FormatFloat(r.FireSeverity, 'g', -1, 64),
	}
}

// Rows snapshots the current state of every patch in row-major order.
func (w *World) Rows() []Row {
	rows := make([]Row, 0, len(w.patches))
	for i := range w.patches {
		p := &w.patches[i]
		rows = append(rows, Row{
			Step:          p.StepCount,
			X:             p.X,
			Y:             p.Y,
			NumSeedling:   p.NumSeedling,
			NumJuvenile:   p.NumJuvenile,
			NumAdult:      p.NumAdult,
			NumAlive:      p.NumAlive,
			NewSeedlings:  p.NewSeedlings,
			InvasiveCover: p.InvasiveCover,
			FireSeverity:  p.FireSeverity,
		})
	}
	return rows
}

// CSVRecorder streams snapshot rows to CSV, header first.
type CSVRecorder struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewCSVRecorder wraps out in a recorder.
func NewCSVRecorder(out io.Writer) *CSVRecorder {
	return &CSVRecorder{w: csv.NewWriter(out)}
}

// Record appends one batch of rows, emitting the header on first use.
func (r *CSVRecorder) Record(rows []Row) error {
	if !r.wroteHeader {
		if err := r.w.Write(Header); err != nil {
			return err
		}
		r.wroteHeader = true
	}
	for _, row := range rows {
		if err := r.w.Write(row.Record()); err != nil {
			return err
		}
	}
	return nil
}

// Flush commits buffered rows and reports any write error.
func (r *CSVRecorder) Flush() error {
	r.w.Flush()
	return r.w.Error()
}
