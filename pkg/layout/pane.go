package layout

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/paneflow/pkg/errors"
)

// DefaultGap is the spacing between adjacent panes and between rows.
// It is also the tolerance used when matching top edges to a row.
const DefaultGap = 10.0

// Pane is a rectangle in the tiling. ID is the stable identity used to match
// solved geometry back to panes. Flex panes scale with the row; fixed panes
// keep their width.
type Pane struct {
	ID     int     `json:"id" toml:"id"`
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Flex   bool    `json:"flex" toml:"flex"`
}

// Right returns the x coordinate of the pane's right edge.
func (p Pane) Right() float64 { return p.X + p.Width }

// Bottom returns the y coordinate of the pane's bottom edge.
func (p Pane) Bottom() float64 { return p.Y + p.Height }

func (p Pane) String() string {
	mode := "fixed"
	if p.Flex {
		mode = "flex"
	}
	return fmt.Sprintf("pane %d (%s) %gx%g at (%g,%g)", p.ID, mode, p.Width, p.Height, p.X, p.Y)
}

// Boundary is the vertical interval [Top, Bottom] of one row.
type Boundary struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Contains reports whether y lies in the closed interval.
func (b Boundary) Contains(y float64) bool { return y >= b.Top && y <= b.Bottom }

// Height returns the vertical extent of the boundary.
func (b Boundary) Height() float64 { return b.Bottom - b.Top }

// Row is a boundary together with the panes that intersect it, ordered by X.
type Row struct {
	Boundary
	Panes []Pane
}

// Options configures a resize.
type Options struct {
	// Gap is the spacing between panes. Zero selects DefaultGap.
	Gap float64

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

func (o Options) gap() float64 {
	if o.Gap <= 0 {
		return DefaultGap
	}
	return o.Gap
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Logger
}

// Validate checks a pane snapshot, a target width and a gap before solving.
func Validate(panes []Pane, width, gap float64) error {
	if err := perrors.ValidateWidth(width); err != nil {
		return err
	}
	if err := perrors.ValidateGap(gap); err != nil {
		return err
	}

	seen := make(map[int]bool, len(panes))
	for _, p := range panes {
		if seen[p.ID] {
			return perrors.New(perrors.ErrCodeDuplicatePane, "pane id %d appears more than once", p.ID)
		}
		seen[p.ID] = true

		for _, d := range []struct {
			name        string
			value       float64
			nonNegative bool
		}{
			{"x", p.X, false},
			{"y", p.Y, false},
			{"width", p.Width, true},
			{"height", p.Height, true},
		} {
			if err := perrors.ValidateDimension(d.name, d.value, d.nonNegative); err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidPane, err, "pane %d", p.ID)
			}
		}
	}
	return nil
}
