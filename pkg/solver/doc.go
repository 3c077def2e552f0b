// Package solver models prioritized linear constraints in the Cassowary
// style and solves them with the gonum simplex.
//
// Constraints are linear relations (=, <=, >=) over [Variable] values, each
// tagged with a [Strength]. [Required] constraints must hold; weaker
// strengths are satisfied on a best-effort basis, and conflicts between them
// are resolved by strength rather than by registration order.
//
// # Usage
//
//	s := solver.NewSolver()
//	x := solver.NewVariable("x")
//	w := solver.NewVariable("w")
//
//	// x + w = 100 (required)
//	_ = s.AddConstraint(solver.NewConstraint(solver.Expr(-100, x.T(1), w.T(1)), solver.EQ, solver.Required))
//	// w = 40 (strong preference)
//	_ = s.AddConstraint(solver.NewConstraint(solver.Expr(-40, w.T(1)), solver.EQ, solver.Strong))
//
//	s.Value(x) // 60
//
// # Strengths
//
// Each non-required constraint may be violated at a cost of its strength per
// unit of error, and the solver minimizes the total. Required is weighted far
// above any realistic sum of weaker violations, and a solution that still
// violates a required constraint is rejected with [ErrUnsatisfiable].
//
// # Determinism
//
// Variables and constraints map to columns in registration order, so the
// same sequence of constraints always produces the same solution, including
// for under-determined systems.
//
// A Solver is not safe for concurrent use.
package solver
