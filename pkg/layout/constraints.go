package layout

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/paneflow/pkg/solver"
)

// FlexItem holds the solver variables for one pane during one resize.
type FlexItem struct {
	Position *solver.Variable
	Size     *solver.Variable
}

// FlexItems maps pane IDs to their variables. A pane that appears in several
// rows shares one FlexItem across them.
type FlexItems map[int]FlexItem

// For returns the item for p, creating it on first use.
func (items FlexItems) For(p Pane) FlexItem {
	if item, ok := items[p.ID]; ok {
		return item
	}
	item := FlexItem{
		Position: solver.NewVariable(fmt.Sprintf("pane%d.x", p.ID)),
		Size:     solver.NewVariable(fmt.Sprintf("pane%d.width", p.ID)),
	}
	items[p.ID] = item
	return item
}

// IsDegenerate reports whether a row has no flexible panes. Such rows have
// no flexible space to share and get no ratio constraints.
func IsDegenerate(row Row) bool {
	return !slices.ContainsFunc(row.Panes, func(p Pane) bool { return p.Flex })
}

// RowConstraints builds the constraints that pack row into [0, width]:
//
//   - the first pane starts at 0 (required)
//   - neighbours are separated by exactly gap (required)
//   - every width is non-negative (required)
//   - a fixed pane keeps its width (required, except when it is alone in
//     the row; see below)
//   - a flex pane keeps its share of the flexible space (strong)
//   - the last pane ends at width (required)
//
// A fixed pane alone in its row gets its width only as a strong constraint.
// The span constraint wins, so such a pane is stretched or shrunk to the
// full container width instead of keeping its fixed width.
//
// The flexible share is old_width / old_flex_space of
// new_flex_space = width - gap*(n-1) - Σ fixed widths. Degenerate rows
// (see IsDegenerate) skip it. When the row has flex panes but all of them
// are zero wide there is no share to keep, and the flex panes are asked to
// be equally wide instead (weak).
func RowConstraints(width, gap float64, row Row, items FlexItems) []*solver.Constraint {
	panes := row.Panes
	if len(panes) == 0 {
		return nil
	}

	var cs []*solver.Constraint
	add := func(e solver.Expression, op solver.Relation, s solver.Strength) {
		cs = append(cs, solver.NewConstraint(e, op, s))
	}

	first := items.For(panes[0])
	add(solver.Expr(0, first.Position.T(1)), solver.EQ, solver.Required)

	for i := 0; i+1 < len(panes); i++ {
		l, r := items.For(panes[i]), items.For(panes[i+1])
		add(solver.Expr(gap, l.Position.T(1), l.Size.T(1), r.Position.T(-1)), solver.EQ, solver.Required)
	}

	var oldFlex, fixed float64
	for _, p := range panes {
		if p.Flex {
			oldFlex += p.Width
		} else {
			fixed += p.Width
		}
	}
	gapSpace := gap * float64(len(panes)-1)
	newFlex := width - gapSpace - fixed

	var anchor *solver.Variable
	for _, p := range panes {
		item := items.For(p)
		add(solver.Expr(0, item.Size.T(1)), solver.GE, solver.Required)

		switch {
		case !p.Flex:
			strength := solver.Required
			if len(panes) == 1 {
				strength = solver.Strong
			}
			add(solver.Expr(-p.Width, item.Size.T(1)), solver.EQ, strength)
		case oldFlex > 0:
			ratio := p.Width / oldFlex
			add(solver.Expr(-ratio*newFlex, item.Size.T(1)), solver.EQ, solver.Strong)
		case anchor == nil:
			anchor = item.Size
		default:
			add(solver.Expr(0, item.Size.T(1), anchor.T(-1)), solver.EQ, solver.Weak)
		}
	}

	last := items.For(panes[len(panes)-1])
	add(solver.Expr(-width, last.Position.T(1), last.Size.T(1)), solver.EQ, solver.Required)

	return cs
}

// ConstraintSet is an ordered union of constraints without duplicates.
// Two constraints are duplicates when they have the same terms, constant,
// relation and strength.
type ConstraintSet struct {
	seen map[string]struct{}
	list []*solver.Constraint
}

// NewConstraintSet returns an empty set.
func NewConstraintSet() *ConstraintSet {
	return &ConstraintSet{seen: make(map[string]struct{})}
}

// Add inserts constraints not already present and returns how many were new.
func (s *ConstraintSet) Add(cs ...*solver.Constraint) int {
	added := 0
	for _, c := range cs {
		k := constraintKey(c)
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		s.list = append(s.list, c)
		added++
	}
	return added
}

// Constraints returns the constraints in insertion order.
func (s *ConstraintSet) Constraints() []*solver.Constraint { return s.list }

// Len returns the number of distinct constraints.
func (s *ConstraintSet) Len() int { return len(s.list) }

func constraintKey(c *solver.Constraint) string {
	terms := slices.Clone(c.Expression.Terms)
	slices.SortFunc(terms, func(a, b solver.Term) int {
		return cmp.Compare(a.Variable.Name, b.Variable.Name)
	})

	var b strings.Builder
	for _, t := range terms {
		fmt.Fprintf(&b, "%s*%g;", t.Variable.Name, t.Coefficient)
	}
	fmt.Fprintf(&b, "%g|%s|%g", c.Expression.Constant, c.Op, float64(c.Strength))
	return b.String()
}
