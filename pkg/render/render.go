package render

import (
	"slices"
	"strings"

	perrors "github.com/matzehuels/paneflow/pkg/errors"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// Format is an output format.
type Format string

const (
	FormatSVG   Format = "svg"
	FormatPNG   Format = "png"
	FormatDOT   Format = "dot"
	FormatGraph Format = "graph"
	FormatJSON  Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT, FormatGraph, FormatJSON}

// ParseFormat parses a format name. Names are case-sensitive.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if slices.Contains(Formats, f) {
		return f, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", perrors.New(perrors.ErrCodeInvalidFormat, "invalid format %q (want %s)", name, strings.Join(names, ", "))
}

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	if f == FormatGraph {
		return "graph.svg"
	}
	return string(f)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG, FormatGraph:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz"
	}
}

// Options configures rendering.
type Options struct {
	// Rows draws the detected row boundaries.
	Rows bool

	// Labels writes each pane's ID inside it.
	Labels bool

	// Scale multiplies PNG dimensions. Zero means 1.
	Scale float64
}

// Render draws s in the given format.
func Render(s *scene.Scene, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(s, opts), nil
	case FormatPNG:
		return RenderPNG(s, opts)
	case FormatDOT:
		return []byte(ToDOT(s)), nil
	case FormatGraph:
		return RenderGraphSVG(ToDOT(s))
	case FormatJSON:
		return scene.Marshal(s, scene.FormatJSON)
	}
	return nil, perrors.New(perrors.ErrCodeInvalidFormat, "invalid format %q", format)
}

const (
	flexColor  = "#2e9e44"
	fixedColor = "#d43a2f"
	rowColor   = "#7a7a7a"
)

// fill returns the colour used for a pane.
func fill(flex bool) string {
	if flex {
		return flexColor
	}
	return fixedColor
}
