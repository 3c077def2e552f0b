// Package render draws pane layouts for inspection.
//
// # Formats
//
//   - svg: one rectangle per pane, flexible panes green and fixed panes red,
//     optionally with row boundaries and labels ([RenderSVG])
//   - png: the same picture rasterized with gg ([RenderPNG])
//   - dot: Graphviz source for the row adjacency graph ([ToDOT])
//   - graph: that graph laid out by Graphviz as SVG ([RenderGraphSVG])
//   - json: the scene document itself
//
// [Render] dispatches on a [Format]:
//
//	data, err := render.Render(s, render.FormatSVG, render.Options{Rows: true})
//
// # Row Adjacency Graph
//
// Every pane becomes a node and every pair of neighbours in a row becomes an
// edge from the left pane to the right one, labelled with the row index. A
// pane spanning several rows shows up in each of them, which makes the graph
// a quick way to see which rows share constraints.
package render
