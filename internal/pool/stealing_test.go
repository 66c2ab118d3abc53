package pool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hartog/cubesat/internal/sat"
)

func TestCoprimeStride_VisitsEveryPeerExactlyOnce(t *testing.T) {
	for n := 1; n <= 16; n++ {
		stride := coprimeStride(n)
		if n <= 2 {
			require.Equal(t, 1, stride)
			continue
		}
		require.Equal(t, 1, gcd(stride, n), "stride %d not coprime with %d", stride, n)

		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			idx := (i * stride) % n
			require.False(t, seen[idx], "n=%d stride=%d: residue %d visited twice", n, stride, idx)
			seen[idx] = true
		}
	}
}

func TestGCD(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{12, 8, 4},
		{7, 5, 1},
		{0, 5, 5},
		{9, 9, 9},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, gcd(tt.a, tt.b))
	}
}

// buildContradictoryPair returns a 2-variable formula where deciding the
// first-chosen variable either way conflicts immediately via unit
// propagation, with no second decision level ever opened. That makes the
// very first backtrack re-entry land back on the same level the first
// decision donated, which is exactly the scenario these tests need to drive
// without depending on which variable the solver happens to branch on
// first.
func buildContradictoryPair(t *testing.T) *sat.Problem {
	t.Helper()
	return buildSatProblem(t, 2, [][]int{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}})
}

func buildSatProblem(t *testing.T, numVars int, clauses [][]int) *sat.Problem {
	t.Helper()
	b := sat.NewProblemBuilder()
	for i := 0; i < numVars; i++ {
		b.AddVariable()
	}
	for _, c := range clauses {
		lits := make([]sat.Literal, len(c))
		for i, k := range c {
			lits[i] = sat.FromSigned(k)
		}
		if err := b.AddClause(lits); err != nil {
			t.Fatalf("AddClause(%v) error = %v", c, err)
		}
	}
	return b.Build()
}

func TestStealingWorker_ShouldStopBacktrackingEarly_DetectsStolenDonation(t *testing.T) {
	p := buildContradictoryPair(t)

	deques := []*Deque{NewDeque(queueCapacity), NewDeque(queueCapacity)}
	owner := newStealingWorker(0, deques)

	solver := sat.NewDPLLSolver(p, nil)
	owner.OnNewSubproblem(solver)

	action := solver.FirstStep()
	require.True(t, action.WasFreshDecision)
	owner.AfterDecision(solver, action.WasFreshDecision)
	require.Equal(t, 1, deques[0].Len(), "a fresh decision should donate its untried sibling")

	_, stole := deques[0].Steal()
	require.True(t, stole, "a peer should be able to steal the donation")

	action = solver.Step(action.Continue)
	require.Equal(t, sat.ActionContinue, action.Kind)
	require.False(t, action.WasFreshDecision, "re-entry should be a backtrack continuation, not a fresh decision")

	require.True(t, owner.ShouldStopBacktrackingEarly(solver),
		"the donated branch was stolen out from under this worker; it should abandon the subtree")
}

func TestStealingWorker_ShouldStopBacktrackingEarly_ReclaimsUnstolenDonation(t *testing.T) {
	p := buildContradictoryPair(t)

	deques := []*Deque{NewDeque(queueCapacity), NewDeque(queueCapacity)}
	owner := newStealingWorker(0, deques)

	solver := sat.NewDPLLSolver(p, nil)
	owner.OnNewSubproblem(solver)

	action := solver.FirstStep()
	owner.AfterDecision(solver, action.WasFreshDecision)
	require.Equal(t, 1, deques[0].Len())

	action = solver.Step(action.Continue)
	require.False(t, action.WasFreshDecision)

	require.False(t, owner.ShouldStopBacktrackingEarly(solver),
		"nobody stole the donation, so this worker should reclaim it and keep exploring")
	require.Equal(t, 0, deques[0].Len(), "reclaiming the donation should pop it back off the deque")
}

func TestStealingWorker_AfterDecision_RejectsWhenQueueFull(t *testing.T) {
	p := buildContradictoryPair(t)

	deques := []*Deque{NewDeque(queueCapacity), NewDeque(queueCapacity)}
	w := newStealingWorker(0, deques)
	for i := 0; i < queueCapacity; i++ {
		deques[0].PushBack(SubProblem{})
	}

	solver := sat.NewDPLLSolver(p, nil)
	action := solver.FirstStep()
	w.AfterDecision(solver, action.WasFreshDecision)

	require.Equal(t, queueCapacity, deques[0].Len(), "a full queue should reject further donations")
}

func TestStealingWorker_AfterDecision_IgnoresBacktrackReentries(t *testing.T) {
	p := buildContradictoryPair(t)

	deques := []*Deque{NewDeque(queueCapacity), NewDeque(queueCapacity)}
	w := newStealingWorker(0, deques)

	solver := sat.NewDPLLSolver(p, nil)
	w.OnNewSubproblem(solver)

	action := solver.FirstStep()
	w.AfterDecision(solver, action.WasFreshDecision)
	require.Equal(t, 1, deques[0].Len())
	_, _ = deques[0].Steal()

	action = solver.Step(action.Continue)
	require.False(t, action.WasFreshDecision)
	w.AfterDecision(solver, action.WasFreshDecision)

	require.Equal(t, 0, deques[0].Len(),
		"a backtrack re-entry must not re-donate the branch it just flipped into")
}

func TestStealingWorker_FindNewWork_StopsWhenNoActiveWorkersRemain(t *testing.T) {
	deques := []*Deque{NewDeque(queueCapacity), NewDeque(queueCapacity)}
	w := newStealingWorker(0, deques)

	var solutionFound atomic.Bool
	var activeWorkers atomic.Int64 // zero value: nobody else is working either

	_, ok := w.FindNewWork(nil, &solutionFound, &activeWorkers)
	require.False(t, ok, "FindNewWork should give up once every worker is idle, not loop forever")
}
