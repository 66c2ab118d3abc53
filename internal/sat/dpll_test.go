package sat

import "testing"

func buildProblem(t *testing.T, numVars int, clauses [][]int) *Problem {
	t.Helper()
	b := NewProblemBuilder()
	for i := 0; i < numVars; i++ {
		b.AddVariable()
	}
	for _, c := range clauses {
		lits := make([]Literal, len(c))
		for i, k := range c {
			lits[i] = FromSigned(k)
		}
		if err := b.AddClause(lits); err != nil {
			t.Fatalf("AddClause(%v) error = %v", c, err)
		}
	}
	return b.Build()
}

func TestDPLLSolver_Solve_SAT(t *testing.T) {
	// (x1 v x2) & (!x1 v x2) & (x1 v !x2) — satisfied only by x1=x2=true.
	p := buildProblem(t, 2, [][]int{{1, 2}, {-1, 2}, {1, -2}})

	model, ok := NewDPLLSolver(p, nil).Solve()
	if !ok {
		t.Fatalf("Solve() ok = false, want true")
	}
	if bad := VerifySolution(p, model); bad >= 0 {
		t.Fatalf("reported model violates clause %d: %v", bad, model)
	}
	if !model[0] || !model[1] {
		t.Errorf("model = %v, want [true true]", model)
	}
}

func TestDPLLSolver_Solve_UNSAT(t *testing.T) {
	// x1 & !x1 — trivially unsatisfiable.
	p := buildProblem(t, 1, [][]int{{1}, {-1}})

	_, ok := NewDPLLSolver(p, nil).Solve()
	if ok {
		t.Fatalf("Solve() ok = true on an unsatisfiable formula")
	}
}

func TestDPLLSolver_Solve_RequiresBacktracking(t *testing.T) {
	// (x1 v x2) & (x1 v x3) & (!x1 v x3) & (!x1 v !x3) forces x1=false,
	// then x2=true and x3=true to satisfy the first two clauses: backtracking
	// is required because the solver always tries "true" first on every
	// decision, and x1 (in every clause) is its first pick.
	p := buildProblem(t, 3, [][]int{{1, 2}, {1, 3}, {-1, 3}, {-1, -3}})

	model, ok := NewDPLLSolver(p, nil).Solve()
	if !ok {
		t.Fatalf("Solve() ok = false, want true")
	}
	if bad := VerifySolution(p, model); bad >= 0 {
		t.Fatalf("reported model violates clause %d: %v", bad, model)
	}
}

func TestDPLLSolver_Solve_WithInitialCubeRestrictsSearch(t *testing.T) {
	p := buildProblem(t, 2, [][]int{{1, 2}, {-1, 2}, {1, -2}})

	// Fixing x1=false makes the formula unsatisfiable under this cube, even
	// though the unrestricted formula is satisfiable.
	cube := DecisionPath{NegativeLiteral(0)}
	_, ok := NewDPLLSolver(p, cube).Solve()
	if ok {
		t.Fatalf("Solve() under cube x1=false ok = true, want false")
	}
}

func TestDPLLSolver_WasFreshDecision_DistinguishesDecisionsFromBacktracks(t *testing.T) {
	// Same formula as TestDPLLSolver_Solve_RequiresBacktracking: guaranteed
	// to need at least one backtrack continuation before reaching SAT.
	p := buildProblem(t, 3, [][]int{{1, 2}, {1, 3}, {-1, 3}, {-1, -3}})
	s := NewDPLLSolver(p, nil)

	action := s.FirstStep()
	if action.Kind != ActionContinue || !action.WasFreshDecision {
		t.Fatalf("FirstStep() = %+v, want a fresh ActionContinue", action)
	}

	sawBacktrackContinuation := false
	for action.Kind == ActionContinue {
		action = s.Step(action.Continue)
		if action.Kind == ActionContinue && !action.WasFreshDecision {
			sawBacktrackContinuation = true
		}
	}
	if action.Kind != ActionSAT {
		t.Fatalf("final action.Kind = %v, want ActionSAT", action.Kind)
	}
	if !sawBacktrackContinuation {
		t.Errorf("search never reported a backtrack continuation (WasFreshDecision = false)")
	}
}

func TestDPLLSolver_FirstStep_DetectsRootUnitConflict(t *testing.T) {
	p := buildProblem(t, 1, [][]int{{1}, {-1}})
	s := NewDPLLSolver(p, nil)

	action := s.FirstStep()
	if action.Kind != ActionUNSAT {
		t.Fatalf("FirstStep().Kind = %v, want ActionUNSAT", action.Kind)
	}
}

func TestDPLLSolver_FirstStep_DetectsRootSAT(t *testing.T) {
	// No variables and no clauses: the empty assignment is already complete.
	p := buildProblem(t, 0, nil)
	s := NewDPLLSolver(p, nil)

	action := s.FirstStep()
	if action.Kind != ActionSAT {
		t.Fatalf("FirstStep().Kind = %v, want ActionSAT", action.Kind)
	}
}
