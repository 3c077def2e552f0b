package layout

import (
	"errors"
	"math"

	"github.com/matzehuels/paneflow/pkg/solver"

	perrors "github.com/matzehuels/paneflow/pkg/errors"
)

// Solution is the outcome of one solve.
type Solution struct {
	// Rows are the detected rows, top to bottom.
	Rows []Row

	// Panes holds the solved pane for every ID that belongs to at least one
	// row. Only X and Width differ from the input.
	Panes map[int]Pane

	// Constraints is the number of distinct constraints handed to the solver.
	Constraints int
}

// Solve detects rows, builds their constraints and solves them together for
// the given container width. The input is not modified.
func Solve(panes []Pane, width float64, opts Options) (*Solution, error) {
	if err := Validate(panes, width, opts.Gap); err != nil {
		return nil, err
	}
	gap := opts.gap()
	logger := opts.logger()

	rows := Rows(panes, gap)
	items := make(FlexItems)
	set := NewConstraintSet()
	for i, row := range rows {
		if IsDegenerate(row) {
			logger.Debug("row has no flexible panes", "row", i, "top", row.Top, "bottom", row.Bottom)
		}
		added := set.Add(RowConstraints(width, gap, row, items)...)
		logger.Debug("row constraints", "row", i, "panes", len(row.Panes), "added", added)
	}

	s := solver.NewSolver()
	if err := s.AddConstraints(set.Constraints()...); err != nil {
		if errors.Is(err, solver.ErrUnsatisfiable) {
			return nil, perrors.Wrap(perrors.ErrCodeUnsatisfiableLayout, err, "resize to width %g", width)
		}
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "resize to width %g", width)
	}
	s.UpdateVariables()

	solved := make(map[int]Pane, len(items))
	for _, p := range panes {
		item, ok := items[p.ID]
		if !ok {
			continue
		}
		p.X = round(item.Position.Value())
		p.Width = round(item.Size.Value())
		solved[p.ID] = p
	}

	logger.Debug("layout solved", "width", width, "rows", len(rows), "constraints", set.Len(), "panes", len(solved))
	return &Solution{Rows: rows, Panes: solved, Constraints: set.Len()}, nil
}

// Resize returns a copy of panes laid out for the new container width.
// Panes that fall into no row are returned unchanged. On error no panes are
// returned.
func Resize(panes []Pane, width float64, opts Options) ([]Pane, error) {
	sol, err := Solve(panes, width, opts)
	if err != nil {
		return nil, err
	}
	return Apply(panes, sol.Panes, opts.logger()), nil
}

// round trims solver noise to six decimal places.
func round(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}
