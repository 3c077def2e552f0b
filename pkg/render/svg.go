package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/paneflow/pkg/scene"
)

// RenderSVG draws the panes of s on a canvas the size of the container.
func RenderSVG(s *scene.Scene, opts Options) []byte {
	width, height := canvasSize(s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect class="container" x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", width, height)

	for _, p := range s.Panes {
		fmt.Fprintf(&buf, `  <rect id="pane-%d" class="pane" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="black" stroke-width="1"/>`+"\n",
			p.ID, p.X, p.Y, p.Width, p.Height, fill(p.Flex))
	}

	if opts.Rows {
		for i, r := range s.Rows() {
			fmt.Fprintf(&buf, `  <rect class="row" data-row="%d" x="0" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-dasharray="6 4"/>`+"\n",
				i, r.Top, width, r.Height(), rowColor)
		}
	}

	if opts.Labels {
		for _, p := range s.Panes {
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="monospace" font-size="14" fill="white">%d</text>`+"\n",
				p.X+p.Width/2, p.Y+p.Height/2, p.ID)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// canvasSize returns the container size, grown to fit panes that overflow it.
func canvasSize(s *scene.Scene) (float64, float64) {
	w, h := s.Width, s.Height
	for _, p := range s.Panes {
		w = max(w, p.Right())
		h = max(h, p.Bottom())
	}
	return w, h
}
