package solver

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func eq(v *Variable, value float64, s Strength) *Constraint {
	return NewConstraint(Expr(-value, v.T(1)), EQ, s)
}

func TestStrengthOrdering(t *testing.T) {
	if !(Required > Strong && Strong > Medium && Medium > Weak && Weak > 0) {
		t.Fatalf("strengths out of order: %v %v %v %v", Required, Strong, Medium, Weak)
	}
	if got := NewConstraint(Expr(0), EQ, Required*2).Strength; got != Required {
		t.Errorf("strength not clipped: %v", got)
	}
	if Strong.String() != "strong" || Required.String() != "required" {
		t.Errorf("String() = %q, %q", Strong.String(), Required.String())
	}
}

func TestRequiredEquality(t *testing.T) {
	s := NewSolver()
	x := NewVariable("x")
	if err := s.AddConstraint(eq(x, 10, Required)); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	if got := s.Value(x); !approx(got, 10) {
		t.Errorf("x = %v, want 10", got)
	}
}

func TestPriorityResolution(t *testing.T) {
	tests := []struct {
		name  string
		build func(x *Variable) []*Constraint
		want  float64
	}{
		{
			name: "required then strong",
			build: func(x *Variable) []*Constraint {
				return []*Constraint{eq(x, 10, Required), eq(x, 20, Strong)}
			},
			want: 10,
		},
		{
			name: "strong then required",
			build: func(x *Variable) []*Constraint {
				return []*Constraint{eq(x, 20, Strong), eq(x, 10, Required)}
			},
			want: 10,
		},
		{
			name: "weak then strong",
			build: func(x *Variable) []*Constraint {
				return []*Constraint{eq(x, 10, Weak), eq(x, 20, Strong)}
			},
			want: 20,
		},
		{
			name: "medium beats weak",
			build: func(x *Variable) []*Constraint {
				return []*Constraint{eq(x, 5, Medium), eq(x, 7, Weak)}
			},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSolver()
			x := NewVariable("x")
			if err := s.AddConstraints(tt.build(x)...); err != nil {
				t.Fatalf("AddConstraints: %v", err)
			}
			if got := s.Value(x); !approx(got, tt.want) {
				t.Errorf("x = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInequalities(t *testing.T) {
	t.Run("lower bound", func(t *testing.T) {
		s := NewSolver()
		x := NewVariable("x")
		// x - 5 >= 0
		if err := s.AddConstraints(
			NewConstraint(Expr(-5, x.T(1)), GE, Required),
			eq(x, 0, Weak),
		); err != nil {
			t.Fatal(err)
		}
		if got := s.Value(x); !approx(got, 5) {
			t.Errorf("x = %v, want 5", got)
		}
	})

	t.Run("upper bound", func(t *testing.T) {
		s := NewSolver()
		x := NewVariable("x")
		// x - 3 <= 0
		if err := s.AddConstraints(
			NewConstraint(Expr(-3, x.T(1)), LE, Required),
			eq(x, 10, Strong),
		); err != nil {
			t.Fatal(err)
		}
		if got := s.Value(x); !approx(got, 3) {
			t.Errorf("x = %v, want 3", got)
		}
	})

	t.Run("satisfied preference", func(t *testing.T) {
		s := NewSolver()
		x := NewVariable("x")
		if err := s.AddConstraints(
			NewConstraint(Expr(0, x.T(1)), GE, Required),
			eq(x, 42, Strong),
		); err != nil {
			t.Fatal(err)
		}
		if got := s.Value(x); !approx(got, 42) {
			t.Errorf("x = %v, want 42", got)
		}
	})
}

func TestUnsatisfiable(t *testing.T) {
	s := NewSolver()
	x := NewVariable("x")
	if err := s.AddConstraint(eq(x, 10, Required)); err != nil {
		t.Fatal(err)
	}
	c := eq(x, 20, Required)
	err := s.AddConstraint(c)
	if !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("err = %v, want ErrUnsatisfiable", err)
	}
	if s.HasConstraint(c) {
		t.Error("rejected constraint should not be registered")
	}
	if got := s.Value(x); !approx(got, 10) {
		t.Errorf("x = %v after rejection, want 10", got)
	}
}

func TestUnsatisfiableSum(t *testing.T) {
	// a + b = 100, a >= 0, b >= 0, a = 80, b = 30 cannot all hold.
	s := NewSolver()
	a, b := NewVariable("a"), NewVariable("b")
	err := s.AddConstraints(
		NewConstraint(Expr(-100, a.T(1), b.T(1)), EQ, Required),
		NewConstraint(Expr(0, a.T(1)), GE, Required),
		NewConstraint(Expr(0, b.T(1)), GE, Required),
		eq(a, 80, Required),
		eq(b, 30, Required),
	)
	if !errors.Is(err, ErrUnsatisfiable) {
		t.Fatalf("err = %v, want ErrUnsatisfiable", err)
	}
}

func TestRedundantRequired(t *testing.T) {
	s := NewSolver()
	x := NewVariable("x")
	if err := s.AddConstraints(eq(x, 10, Required), eq(x, 10, Required)); err != nil {
		t.Fatalf("redundant equal constraint rejected: %v", err)
	}
	if got := s.Value(x); !approx(got, 10) {
		t.Errorf("x = %v, want 10", got)
	}
}

func TestDuplicateConstraint(t *testing.T) {
	s := NewSolver()
	x := NewVariable("x")
	c := eq(x, 1, Required)
	if err := s.AddConstraint(c); err != nil {
		t.Fatal(err)
	}
	if err := s.AddConstraint(c); !errors.Is(err, ErrDuplicateConstraint) {
		t.Errorf("err = %v, want ErrDuplicateConstraint", err)
	}
}

func TestRemoveConstraint(t *testing.T) {
	s := NewSolver()
	x := NewVariable("x")
	strong := eq(x, 10, Strong)
	if err := s.AddConstraints(strong, eq(x, 20, Weak)); err != nil {
		t.Fatal(err)
	}
	if got := s.Value(x); !approx(got, 10) {
		t.Fatalf("x = %v, want 10", got)
	}

	if err := s.RemoveConstraint(strong); err != nil {
		t.Fatalf("RemoveConstraint: %v", err)
	}
	if s.HasConstraint(strong) {
		t.Error("constraint still registered after removal")
	}
	if got := s.Value(x); !approx(got, 20) {
		t.Errorf("x = %v after removal, want 20", got)
	}

	if err := s.RemoveConstraint(strong); !errors.Is(err, ErrUnknownConstraint) {
		t.Errorf("err = %v, want ErrUnknownConstraint", err)
	}
}

func TestRowLayout(t *testing.T) {
	// Two boxes separated by 10 filling 210, preferring a 1:3 split.
	s := NewSolver()
	x1, w1 := NewVariable("x1"), NewVariable("w1")
	x2, w2 := NewVariable("x2"), NewVariable("w2")

	err := s.AddConstraints(
		NewConstraint(Expr(0, x1.T(1)), EQ, Required),
		NewConstraint(Expr(10, x1.T(1), w1.T(1), x2.T(-1)), EQ, Required),
		NewConstraint(Expr(-210, x2.T(1), w2.T(1)), EQ, Required),
		NewConstraint(Expr(-50, w1.T(1)), EQ, Strong),
		NewConstraint(Expr(-150, w2.T(1)), EQ, Strong),
	)
	if err != nil {
		t.Fatal(err)
	}

	s.UpdateVariables()
	for _, c := range []struct {
		v    *Variable
		want float64
	}{{x1, 0}, {w1, 50}, {x2, 60}, {w2, 150}} {
		if !approx(c.v.Value(), c.want) {
			t.Errorf("%s = %v, want %v", c.v.Name, c.v.Value(), c.want)
		}
	}
}

func TestDeterministic(t *testing.T) {
	// Under-determined: a + b = 100 with conflicting equal-strength wishes.
	solve := func() (float64, float64) {
		s := NewSolver()
		a, b := NewVariable("a"), NewVariable("b")
		_ = s.AddConstraints(
			NewConstraint(Expr(-100, a.T(1), b.T(1)), EQ, Required),
			eq(a, 70, Strong),
			eq(b, 70, Strong),
		)
		return s.Value(a), s.Value(b)
	}

	a1, b1 := solve()
	for i := 0; i < 20; i++ {
		a2, b2 := solve()
		if a1 != a2 || b1 != b2 {
			t.Fatalf("run %d: (%v, %v) != (%v, %v)", i, a2, b2, a1, b1)
		}
	}
	if !approx(a1+b1, 100) {
		t.Errorf("a + b = %v, want 100", a1+b1)
	}
}

func TestValueUnknownVariable(t *testing.T) {
	s := NewSolver()
	if got := s.Value(NewVariable("ghost")); got != 0 {
		t.Errorf("Value() = %v, want 0", got)
	}
}

func TestRelationHelpers(t *testing.T) {
	s := NewSolver()
	x, y := NewVariable("x"), NewVariable("y")

	// x + 10 == y, y <= 50, x >= 5, prefer x large.
	cs := []*Constraint{
		Equal(Expr(10, x.T(1)), Expr(0, y.T(1)), Required),
		LessOrEqual(Expr(0, y.T(1)), Expr(50), Required),
		GreaterOrEqual(Expr(0, x.T(1)), Expr(5), Required),
		eq(x, 100, Weak),
	}
	if err := s.AddConstraints(cs...); err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}
	if got := s.Value(x); !approx(got, 40) {
		t.Errorf("x = %v, want 40", got)
	}
	if got := s.Value(y); !approx(got, 50) {
		t.Errorf("y = %v, want 50", got)
	}
}

func TestExpressionSub(t *testing.T) {
	x := NewVariable("x")
	e := Expr(3, x.T(2)).Sub(Expr(1, x.T(5)))
	if e.Constant != 2 || len(e.Terms) != 2 || e.Terms[1].Coefficient != -5 {
		t.Errorf("Sub() = %v", e)
	}
}

func TestDependentRequired(t *testing.T) {
	// Four panes in two interleaved rows: the offsets form a cycle, so the
	// fourth equation follows from the other three.
	s := NewSolver()
	a, b, c, d := NewVariable("a"), NewVariable("b"), NewVariable("c"), NewVariable("d")
	err := s.AddConstraints(
		NewConstraint(Expr(-10, b.T(1), a.T(-1)), EQ, Required),
		NewConstraint(Expr(-10, d.T(1), c.T(-1)), EQ, Required),
		NewConstraint(Expr(-10, d.T(1), a.T(-1)), EQ, Required),
		NewConstraint(Expr(-10, b.T(1), c.T(-1)), EQ, Required),
		eq(a, 5, Required),
	)
	if err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}
	for _, tc := range []struct {
		v    *Variable
		want float64
	}{{a, 5}, {b, 15}, {c, 5}, {d, 15}} {
		if got := s.Value(tc.v); !approx(got, tc.want) {
			t.Errorf("%s = %v, want %v", tc.v.Name, got, tc.want)
		}
	}
}

func TestCancelledTerm(t *testing.T) {
	s := NewSolver()
	x, y := NewVariable("x"), NewVariable("y")
	// x - x + y = 7 leaves x unconstrained.
	if err := s.AddConstraint(NewConstraint(Expr(-7, x.T(1), x.T(-1), y.T(1)), EQ, Required)); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	if got := s.Value(y); !approx(got, 7) {
		t.Errorf("y = %v, want 7", got)
	}
	if got := s.Value(x); got != 0 {
		t.Errorf("x = %v, want 0", got)
	}
}

func TestNegativeValues(t *testing.T) {
	s := NewSolver()
	x := NewVariable("x")
	if err := s.AddConstraints(eq(x, -12.5, Required)); err != nil {
		t.Fatal(err)
	}
	if got := s.Value(x); !approx(got, -12.5) {
		t.Errorf("x = %v, want -12.5", got)
	}
}
