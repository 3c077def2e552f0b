package solver

import (
	"fmt"
	"strings"
)

// Strength is the priority of a constraint. Larger values win.
type Strength float64

// Predefined strengths. Required is the only strength that is never violated.
var (
	Required = NewStrength(1000, 1000, 1000, 1)
	Strong   = NewStrength(1, 0, 0, 1)
	Medium   = NewStrength(0, 1, 0, 1)
	Weak     = NewStrength(0, 0, 1, 1)
)

// NewStrength builds a strength from three symbolic levels and a weight.
// Each level is clamped to [0, 1000] after weighting.
func NewStrength(strong, medium, weak, weight float64) Strength {
	var s float64
	s += max(0, min(1000, strong*weight)) * 1_000_000
	s += max(0, min(1000, medium*weight)) * 1_000
	s += max(0, min(1000, weak*weight))
	return Strength(s)
}

func (s Strength) clip() Strength {
	return max(0, min(Required, s))
}

// String names the predefined strengths and prints other values numerically.
func (s Strength) String() string {
	switch s {
	case Required:
		return "required"
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	case Weak:
		return "weak"
	}
	return fmt.Sprintf("%g", float64(s))
}

// Relation compares an expression against zero.
type Relation int

const (
	EQ Relation = iota // expression == 0
	LE                 // expression <= 0
	GE                 // expression >= 0
)

func (r Relation) String() string {
	switch r {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "=="
	}
}

// Variable is an unknown solved for by a Solver.
type Variable struct {
	Name  string
	value float64
}

// NewVariable creates a named variable. Names are informational only.
func NewVariable(name string) *Variable {
	return &Variable{Name: name}
}

// Value returns the value assigned by the last [Solver.UpdateVariables].
func (v *Variable) Value() float64 { return v.value }

// T returns the term coefficient·v.
func (v *Variable) T(coefficient float64) Term {
	return Term{Variable: v, Coefficient: coefficient}
}

// Term is a variable scaled by a coefficient.
type Term struct {
	Variable    *Variable
	Coefficient float64
}

// Expression is a sum of terms plus a constant.
type Expression struct {
	Terms    []Term
	Constant float64
}

// Expr builds an expression from a constant and terms.
func Expr(constant float64, terms ...Term) Expression {
	return Expression{Terms: terms, Constant: constant}
}

func (e Expression) String() string {
	var b strings.Builder
	for i, t := range e.Terms {
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g*%s", t.Coefficient, t.Variable.Name)
	}
	if len(e.Terms) > 0 {
		b.WriteString(" + ")
	}
	fmt.Fprintf(&b, "%g", e.Constant)
	return b.String()
}

// Constraint is the relation "Expression Op 0" with a strength.
// Solvers track constraints by pointer identity.
type Constraint struct {
	Expression Expression
	Op         Relation
	Strength   Strength
}

// NewConstraint creates a constraint. The strength is clamped to Required.
func NewConstraint(e Expression, op Relation, strength Strength) *Constraint {
	return &Constraint{Expression: e, Op: op, Strength: strength.clip()}
}

func (c *Constraint) String() string {
	return fmt.Sprintf("%s %s 0 | %s", c.Expression, c.Op, c.Strength)
}

// Sub returns e - o.
func (e Expression) Sub(o Expression) Expression {
	terms := make([]Term, 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	for _, t := range o.Terms {
		terms = append(terms, Term{Variable: t.Variable, Coefficient: -t.Coefficient})
	}
	return Expression{Terms: terms, Constant: e.Constant - o.Constant}
}

// Equal returns the constraint lhs == rhs.
func Equal(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs.Sub(rhs), EQ, strength)
}

// LessOrEqual returns the constraint lhs <= rhs.
func LessOrEqual(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs.Sub(rhs), LE, strength)
}

// GreaterOrEqual returns the constraint lhs >= rhs.
func GreaterOrEqual(lhs, rhs Expression, strength Strength) *Constraint {
	return NewConstraint(lhs.Sub(rhs), GE, strength)
}
