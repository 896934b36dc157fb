package prof

import (
	"fmt"
	"io"
	"math"
)

// Unavailable is printed in place of a rate that is NaN or infinite, which
// happens whenever a block never ran in the measured interval.
const Unavailable = "n/a"

// DiffExcluded returns the blocks left out of diffs by default. The per-pixel
// block is derived each frame and its totals say nothing about the run.
func DiffExcluded() []string {
	return []string{"pixel"}
}

// Table is a block table tagged with where it came from.
type Table struct {
	Source string
	Blocks []Block
}

// Rate is the frequency implied by one measurement of clock seconds.
func Rate(clock float64) float64 {
	return 1 / clock
}

// AvgRate is the mean frequency over count measurements totalling clock seconds.
func AvgRate(count uint32, clock float64) float64 {
	return 1 / (clock / float64(count))
}

// FormatRate renders v with one decimal, or Unavailable.
func FormatRate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unavailable
	}
	return fmt.Sprintf("%.1f", v)
}

// Lines formats one row per block: index, name, last-frame count, total
// count, last-frame rate and last-frame seconds.
func (t Table) Lines() []string {
	lines := make([]string, len(t.Blocks))
	for i, b := range t.Blocks {
		lines[i] = fmt.Sprintf("%3x %8s %12d %12d %9s HZ (%0.5f)",
			i,
			b.Name,
			b.CountLastFrame,
			b.CountTotal,
			FormatRate(Rate(b.ClockLastFrame)),
			b.ClockLastFrame)
	}
	return lines
}

// WriteReport prints a "name:" header followed by Lines.
func WriteReport(w io.Writer, t Table) error {
	if _, err := fmt.Fprintf(w, "name: %s\n", t.Source); err != nil {
		return err
	}
	for _, l := range t.Lines() {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// DiffRow compares the average rate of one block across two runs.
type DiffRow struct {
	Name   string
	CountA uint32
	CountB uint32
	RateA  float64
	RateB  float64
	Delta  float64
}

// Diff pairs blocks of a and b by position and reports rateB - rateA for each
// block not named in exclude. The tables must describe the same blocks.
func Diff(a, b Table, exclude ...string) ([]DiffRow, error) {
	if len(a.Blocks) != len(b.Blocks) {
		return nil, fmt.Errorf("%w: %s has %d, %s has %d",
			ErrBlockCount, a.Source, len(a.Blocks), b.Source, len(b.Blocks))
	}
	skip := make(map[string]bool, len(exclude))
	for _, n := range exclude {
		skip[n] = true
	}

	var rows []DiffRow
	for k := range a.Blocks {
		ba, bb := a.Blocks[k], b.Blocks[k]
		if ba.Name != bb.Name {
			return nil, fmt.Errorf("%w: block %d is %q in %s and %q in %s",
				ErrBlockName, k, ba.Name, a.Source, bb.Name, b.Source)
		}
		if skip[ba.Name] {
			continue
		}
		rateA := AvgRate(ba.CountTotal, ba.ClockTotal)
		rateB := AvgRate(bb.CountTotal, bb.ClockTotal)
		rows = append(rows, DiffRow{
			Name:   ba.Name,
			CountA: ba.CountTotal,
			CountB: bb.CountTotal,
			RateA:  rateA,
			RateB:  rateB,
			Delta:  rateB - rateA,
		})
	}
	return rows, nil
}

// String formats the row as printed by WriteDiff.
func (r DiffRow) String() string {
	return fmt.Sprintf("%s %12d %12d %9s %9s %9s",
		r.Name,
		r.CountA,
		r.CountB,
		FormatRate(r.RateA),
		FormatRate(r.RateB),
		FormatRate(r.Delta))
}

// WriteDiff prints a "diff:" header followed by one line per DiffRow.
func WriteDiff(w io.Writer, a, b Table, exclude ...string) error {
	rows, err := Diff(a, b, exclude...)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "diff: %s %s\n", a.Source, b.Source); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
