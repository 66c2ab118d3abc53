package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWithDecisions_InstallsInitialAsUnbacktrackableLevel0(t *testing.T) {
	a := WithDecisions(3, DecisionPath{PositiveLiteral(0), NegativeLiteral(1)})

	if a.NumVars() != 3 {
		t.Fatalf("NumVars() = %d, want 3", a.NumVars())
	}
	if !a.State(0).IsBool(true) || !a.State(1).IsBool(false) || !a.State(2).IsUnassigned() {
		t.Fatalf("initial state not installed correctly: %v, %v, %v", a.State(0), a.State(1), a.State(2))
	}

	// The initial decisions must never be backtracked over.
	_, ok := a.Backtrack(nil)
	if ok {
		t.Errorf("Backtrack() past the initial cube = true, want false (NoMoreDecisions)")
	}
}

func TestPartialAssignment_DecideThenBacktrackFlipsToFalse(t *testing.T) {
	a := WithDecisions(2, nil)
	a.Decide(0)

	if !a.State(0).IsBool(true) {
		t.Fatalf("State(0) after Decide = %v, want true", a.State(0))
	}
	if a.DecisionLevel() != 1 {
		t.Fatalf("DecisionLevel() = %d, want 1", a.DecisionLevel())
	}

	lit, ok := a.Backtrack(nil)
	if !ok {
		t.Fatalf("Backtrack() ok = false, want true")
	}
	if lit != PositiveLiteral(0) {
		t.Errorf("falsified literal = %v, want %v", lit, PositiveLiteral(0))
	}
	if !a.State(0).IsBool(false) {
		t.Errorf("State(0) after flip = %v, want false", a.State(0))
	}
}

func TestPartialAssignment_BacktrackUndoesPropagationsFirst(t *testing.T) {
	a := WithDecisions(3, nil)
	a.Decide(0)
	a.Propagate(1, true)
	a.Propagate(2, false)

	var unassigned []int
	_, ok := a.Backtrack(func(v int) { unassigned = append(unassigned, v) })
	if !ok {
		t.Fatalf("Backtrack() ok = false, want true")
	}

	want := []int{2, 1}
	if diff := cmp.Diff(want, unassigned); diff != "" {
		t.Errorf("unassign order mismatch (-want +got):\n%s", diff)
	}
	if !a.State(1).IsUnassigned() || !a.State(2).IsUnassigned() {
		t.Errorf("propagated vars not cleared: State(1)=%v, State(2)=%v", a.State(1), a.State(2))
	}
	if !a.State(0).IsBool(false) {
		t.Errorf("State(0) after flip = %v, want false", a.State(0))
	}
}

func TestPartialAssignment_BacktrackPopsExhaustedLevel(t *testing.T) {
	a := WithDecisions(2, nil)
	a.Decide(0)
	a.Backtrack(nil) // flips var 0 to false

	_, ok := a.Backtrack(nil) // var 0's both branches tried: level pops entirely
	if ok {
		t.Errorf("Backtrack() on an exhausted single-level tree = true, want false")
	}
	if !a.State(0).IsUnassigned() {
		t.Errorf("State(0) after full exhaustion = %v, want unassigned", a.State(0))
	}
}

func TestPartialAssignment_IsCompleteAndToSolution(t *testing.T) {
	a := WithDecisions(2, nil)
	if a.IsComplete() {
		t.Fatalf("IsComplete() = true on an empty assignment")
	}

	a.Propagate(0, true)
	if a.IsComplete() {
		t.Fatalf("IsComplete() = true with one of two variables assigned")
	}

	a.Propagate(1, false)
	if !a.IsComplete() {
		t.Fatalf("IsComplete() = false with every variable assigned")
	}

	want := []bool{true, false}
	if diff := cmp.Diff(want, a.ToSolution()); diff != "" {
		t.Errorf("ToSolution() mismatch (-want +got):\n%s", diff)
	}
}

func TestPartialAssignment_ExtractDecisions(t *testing.T) {
	a := WithDecisions(3, DecisionPath{PositiveLiteral(0)})
	a.Decide(1)
	a.Propagate(2, false) // a propagation must not show up as a decision

	want := DecisionPath{PositiveLiteral(0), PositiveLiteral(1)}
	if diff := cmp.Diff(want, a.ExtractDecisions()); diff != "" {
		t.Errorf("ExtractDecisions() mismatch (-want +got):\n%s", diff)
	}

	if got := a.LastDecisionVar(); got != 1 {
		t.Errorf("LastDecisionVar() = %d, want 1", got)
	}
}
