package layout

import (
	"cmp"
	"math"
	"slices"
)

// RowBoundaries detects the horizontal bands of a tiling.
//
// Starting at y=0 it collects the panes whose top lies within gap of the
// cursor. The shortest of them (lowest ID on ties) closes the band, and the
// cursor moves one gap below it. Detection stops at the first cursor with no
// matching pane, so the result is strictly ascending and non-overlapping.
// A non-positive gap selects DefaultGap.
func RowBoundaries(panes []Pane, gap float64) []Boundary {
	if gap <= 0 {
		gap = DefaultGap
	}

	var bounds []Boundary
	top := 0.0
	for {
		shortest, ok := shortestAt(panes, top, gap)
		if !ok {
			return bounds
		}
		bottom := top + shortest.Height
		bounds = append(bounds, Boundary{Top: top, Bottom: bottom})
		top = bottom + gap
	}
}

// shortestAt returns the shortest pane whose top is within tolerance of top.
func shortestAt(panes []Pane, top, tolerance float64) (Pane, bool) {
	var (
		best  Pane
		found bool
	)
	for _, p := range panes {
		if math.Abs(p.Y-top) >= tolerance {
			continue
		}
		if !found || p.Height < best.Height || (p.Height == best.Height && p.ID < best.ID) {
			best = p
			found = true
		}
	}
	return best, found
}

// PanesInRow returns the panes whose top or bottom edge lies within b,
// ordered by ascending X (then ID). A pane taller than one row is returned
// for each row it touches.
func PanesInRow(panes []Pane, b Boundary) []Pane {
	var row []Pane
	for _, p := range panes {
		if b.Contains(p.Y) || b.Contains(p.Bottom()) {
			row = append(row, p)
		}
	}
	slices.SortStableFunc(row, func(a, b Pane) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return row
}

// Rows detects all row boundaries and partitions panes into them.
func Rows(panes []Pane, gap float64) []Row {
	bounds := RowBoundaries(panes, gap)
	rows := make([]Row, 0, len(bounds))
	for _, b := range bounds {
		rows = append(rows, Row{Boundary: b, Panes: PanesInRow(panes, b)})
	}
	return rows
}
