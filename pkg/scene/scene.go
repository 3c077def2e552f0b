package scene

import (
	"slices"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/paneflow/pkg/errors"
	"github.com/matzehuels/paneflow/pkg/layout"
)

// Scene is a container and the panes tiling it.
type Scene struct {
	Width  float64       `json:"width" toml:"width"`
	Height float64       `json:"height" toml:"height"`
	Gap    float64       `json:"gap,omitempty" toml:"gap"`
	Panes  []layout.Pane `json:"panes" toml:"panes"`
}

// EffectiveGap returns the gap used for layout. Zero selects layout.DefaultGap.
func (s *Scene) EffectiveGap() float64 {
	if s.Gap <= 0 {
		return layout.DefaultGap
	}
	return s.Gap
}

// Validate checks the container and every pane.
func (s *Scene) Validate() error {
	if err := perrors.ValidateWidth(s.Width); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidScene, err, "scene width")
	}
	if err := perrors.ValidateDimension("height", s.Height, true); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidScene, err, "scene height")
	}
	if err := layout.Validate(s.Panes, s.Width, s.Gap); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidScene, err, "scene panes")
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Panes = slices.Clone(s.Panes)
	return &c
}

// Resize returns a copy of s laid out for a new container width.
// s itself is never modified.
func (s *Scene) Resize(width float64, logger *log.Logger) (*Scene, error) {
	panes, err := layout.Resize(s.Panes, width, layout.Options{Gap: s.Gap, Logger: logger})
	if err != nil {
		return nil, err
	}
	out := s.Clone()
	out.Width = width
	out.Panes = panes
	return out, nil
}

// Rows returns the rows detected in s.
func (s *Scene) Rows() []layout.Row {
	return layout.Rows(s.Panes, s.EffectiveGap())
}

// Demo returns the built-in scene: five panes in a 920x920 container with
// a 10 pixel gap. Panes 2 and 5 are fixed, the rest flexible.
//
//	+----+-------+
//	| 1  |   2   |
//	|    +---+---+
//	|    | 3 |   |
//	+----+---+ 4 |
//	|    5   |   |
//	+--------+---+
func Demo() *Scene {
	const (
		gap  = layout.DefaultGap
		unit = 300.0
		size = 3*unit + 2*gap
	)
	return &Scene{
		Width:  size,
		Height: size,
		Gap:    gap,
		Panes: []layout.Pane{
			{ID: 1, X: 0, Y: 0, Width: unit, Height: 2*unit + gap, Flex: true},
			{ID: 2, X: unit + gap, Y: 0, Width: 2*unit + gap, Height: unit},
			{ID: 3, X: unit + gap, Y: unit + gap, Width: unit, Height: unit, Flex: true},
			{ID: 4, X: 2 * (unit + gap), Y: unit + gap, Width: unit, Height: 2*unit + gap, Flex: true},
			{ID: 5, X: 0, Y: 2 * (unit + gap), Width: 2*unit + gap, Height: unit},
		},
	}
}
