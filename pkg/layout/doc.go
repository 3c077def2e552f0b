// Package layout resizes a tiling of rectangular panes to a new container
// width.
//
// Panes are grouped into horizontal rows by their top edge. Every row is
// turned into a set of linear constraints over per-pane position and width
// variables, all rows are solved together by one [solver.Solver], and the
// solved values are written back to panes by ID.
//
// # Pipeline
//
//  1. [RowBoundaries]: walk down from y=0, one row per band of panes that
//     share a top edge (within the gap). The shortest pane ends the band.
//  2. [PanesInRow]: a pane belongs to every row that contains its top or
//     bottom edge, ordered left to right.
//  3. [RowConstraints]: pack each row from x=0 to the new width with a gap
//     between neighbours. Fixed panes keep their width (required); flexible
//     panes keep their share of the row's flexible space (strong).
//  4. [Solve]: register the deduplicated union of all rows' constraints with
//     a fresh solver and read back every pane's position and width.
//  5. [Apply]: copy solved horizontal geometry onto the input panes by ID.
//
// [Resize] runs the whole pipeline. It never mutates its input and either
// returns a complete new layout or an error; an unsatisfiable layout
// (fixed widths plus gaps wider than the container, for example) yields an
// error with code [perrors.ErrCodeUnsatisfiableLayout] and no panes.
//
// Vertical geometry is never changed. No state is kept between calls.
package layout
