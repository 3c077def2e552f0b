// Package scene reads and writes pane layouts as documents.
//
// A scene is the container size, the gap and the panes of one tiling:
//
//	{
//	  "width": 920,
//	  "height": 920,
//	  "gap": 10,
//	  "panes": [
//	    {"id": 1, "x": 0, "y": 0, "width": 300, "height": 610, "flex": true},
//	    {"id": 2, "x": 310, "y": 0, "width": 610, "height": 300, "flex": false}
//	  ]
//	}
//
// The same fields are accepted as TOML, with panes as an array of tables:
//
//	width = 920
//	height = 920
//	gap = 10
//
//	[[panes]]
//	id = 1
//	x = 0
//	y = 0
//	width = 300
//	height = 610
//	flex = true
//
// [Load] and [Save] pick the format from the file extension (.json or
// .toml). [Demo] returns the built-in five-pane scene used by the CLI and
// the HTTP API.
package scene
