package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/paneflow/pkg/scene"
)

// ToDOT converts the rows of s into a Graphviz DOT graph. Nodes are panes;
// edges join horizontal neighbours and carry the row index as their label.
// The result can be laid out with [RenderGraphSVG].
func ToDOT(s *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph rows {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range s.Panes {
		fmt.Fprintf(&buf, "  p%d [label=%q, fillcolor=%q];\n", p.ID, paneLabel(p.ID, p.Width, p.Flex), fill(p.Flex))
	}

	buf.WriteString("\n")
	for i, r := range s.Rows() {
		for j := 0; j+1 < len(r.Panes); j++ {
			fmt.Fprintf(&buf, "  p%d -> p%d [label=\"row %d\"];\n", r.Panes[j].ID, r.Panes[j+1].ID, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func paneLabel(id int, width float64, flex bool) string {
	mode := "fixed"
	if flex {
		mode = "flex"
	}
	return fmt.Sprintf("%d\n%s %g", id, mode, width)
}

// RenderGraphSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderGraphSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
