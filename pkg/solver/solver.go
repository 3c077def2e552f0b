package solver

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Sentinel errors returned by Solver operations.
var (
	// ErrUnsatisfiable is returned when a required constraint conflicts with
	// the required constraints already registered.
	ErrUnsatisfiable = errors.New("unsatisfiable constraint")

	// ErrDuplicateConstraint is returned when a constraint is added twice.
	ErrDuplicateConstraint = errors.New("duplicate constraint")

	// ErrUnknownConstraint is returned when removing a constraint that was never added.
	ErrUnknownConstraint = errors.New("unknown constraint")
)

const (
	// tolerance is the reduced cost below which the simplex stops. The
	// smallest strength weight is 1, so this only absorbs rounding noise.
	tolerance = 1e-4

	// slack is how far a required constraint may be off before it counts
	// as violated.
	slack = 1e-7
)

// Solver keeps a set of constraints and the solution that satisfies them
// best. Every change re-solves the whole set.
type Solver struct {
	constraints []*Constraint
	values      map[*Variable]float64
}

// NewSolver returns an empty solver.
func NewSolver() *Solver {
	return &Solver{values: make(map[*Variable]float64)}
}

// AddConstraint registers c and re-solves.
// On ErrUnsatisfiable the constraint is not registered.
func (s *Solver) AddConstraint(c *Constraint) error {
	if s.HasConstraint(c) {
		return ErrDuplicateConstraint
	}
	return s.commit(append(slices.Clip(s.constraints), c))
}

// AddConstraints registers each constraint in order and stops at the first
// error. Constraints before the failing one stay registered.
func (s *Solver) AddConstraints(cs ...*Constraint) error {
	batch := slices.Concat(s.constraints, cs)
	if !hasDuplicates(batch) && s.commit(batch) == nil {
		return nil
	}
	for _, c := range cs {
		if err := s.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// RemoveConstraint unregisters c and re-solves.
func (s *Solver) RemoveConstraint(c *Constraint) error {
	i := slices.Index(s.constraints, c)
	if i < 0 {
		return ErrUnknownConstraint
	}
	return s.commit(slices.Delete(slices.Clone(s.constraints), i, i+1))
}

// HasConstraint reports whether c is registered.
func (s *Solver) HasConstraint(c *Constraint) bool {
	return slices.Contains(s.constraints, c)
}

// Value returns the current value of v. Unknown variables are zero.
func (s *Solver) Value(v *Variable) float64 {
	return s.values[v]
}

// UpdateVariables copies the solution into every known variable.
func (s *Solver) UpdateVariables() {
	for v, x := range s.values {
		v.value = x
	}
}

// commit solves cs and, on success, makes it the registered set.
func (s *Solver) commit(cs []*Constraint) error {
	values, err := solve(cs)
	if err != nil {
		return err
	}
	s.constraints = cs
	s.values = values
	return nil
}

func hasDuplicates(cs []*Constraint) bool {
	seen := make(map[*Constraint]struct{}, len(cs))
	for _, c := range cs {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

// solve turns cs into one linear program in standard form and hands it to
// the gonum simplex.
//
// Every variable v becomes two non-negative columns v⁺ and v⁻ with
// v = v⁺ - v⁻. Every constraint row i gets two more columns p and q with
// coefficients +1 and -1:
//
//	EQ:  expr + p - q = 0   p and q are errors
//	LE:  expr + p - q = 0   p is slack, q is the error
//	GE:  expr + p - q = 0   p is the error, q is slack
//
// Error columns cost the constraint's strength, so minimizing the cost
// satisfies strong constraints before weak ones. The per-row columns give A
// full row rank, and picking p or q by the sign of the constant yields a
// feasible starting basis, so the simplex never needs a phase one.
func solve(cs []*Constraint) (map[*Variable]float64, error) {
	values := make(map[*Variable]float64)
	if len(cs) == 0 {
		return values, nil
	}

	coefficients := make([]map[*Variable]float64, len(cs))
	column := make(map[*Variable]int)
	var vars []*Variable
	for i, c := range cs {
		row := make(map[*Variable]float64, len(c.Expression.Terms))
		for _, t := range c.Expression.Terms {
			row[t.Variable] += t.Coefficient
		}
		// Columns follow first appearance; a variable that cancels out
		// everywhere would be an all-zero column, which lp rejects.
		for _, t := range c.Expression.Terms {
			if _, ok := column[t.Variable]; ok || row[t.Variable] == 0 {
				continue
			}
			column[t.Variable] = 2 * len(vars)
			vars = append(vars, t.Variable)
		}
		coefficients[i] = row
	}

	m := len(cs)
	base := 2 * len(vars)
	n := base + 2*m
	a := mat.NewDense(m, n, nil)
	b := make([]float64, m)
	cost := make([]float64, n)
	basic := make([]int, m)

	for i, c := range cs {
		for v, coef := range coefficients[i] {
			if coef == 0 {
				continue
			}
			a.Set(i, column[v], coef)
			a.Set(i, column[v]+1, -coef)
		}

		p, q := base+2*i, base+2*i+1
		a.Set(i, p, 1)
		a.Set(i, q, -1)
		w := float64(c.Strength)
		switch c.Op {
		case EQ:
			cost[p], cost[q] = w, w
		case LE:
			cost[q] = w
		case GE:
			cost[p] = w
		}

		b[i] = -c.Expression.Constant
		if b[i] >= 0 {
			basic[i] = p
		} else {
			basic[i] = q
		}
	}

	_, x, err := lp.Simplex(cost, a, b, tolerance, basic)
	if err != nil {
		return nil, fmt.Errorf("solve %d constraints: %w", m, err)
	}

	for i, c := range cs {
		if c.Strength < Required {
			continue
		}
		p, q := base+2*i, base+2*i+1
		var violation float64
		if cost[p] > 0 {
			violation += x[p]
		}
		if cost[q] > 0 {
			violation += x[q]
		}
		if violation > slack*(1+math.Abs(b[i])) {
			return nil, fmt.Errorf("%w: %s", ErrUnsatisfiable, c)
		}
	}

	for _, v := range vars {
		k := column[v]
		values[v] = x[k] - x[k+1]
	}
	return values, nil
}
