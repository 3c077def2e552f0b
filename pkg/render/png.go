package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/matzehuels/paneflow/pkg/scene"
)

// RenderPNG rasterizes the same picture as RenderSVG.
func RenderPNG(s *scene.Scene, opts Options) ([]byte, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	width, height := canvasSize(s)
	w := int(math.Ceil(width * scale))
	h := int(math.Ceil(height * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(scale, scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, p := range s.Panes {
		dc.DrawRectangle(p.X, p.Y, p.Width, p.Height)
		dc.SetHexColor(fill(p.Flex))
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	if opts.Rows {
		dc.SetHexColor(rowColor)
		dc.SetDash(6, 4)
		for _, r := range s.Rows() {
			dc.DrawRectangle(0, r.Top, width, r.Height())
			dc.Stroke()
		}
		dc.SetDash()
	}

	if opts.Labels {
		dc.SetRGB(1, 1, 1)
		for _, p := range s.Panes {
			dc.DrawStringAnchored(strconv.Itoa(p.ID), p.X+p.Width/2, p.Y+p.Height/2, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
