package sat

// VSIDS (Variable State Independent Decaying Sum) is the branching
// heuristic: it orders variables by a decaying activity score, bumped on
// every conflict for the variables appearing in the falsified clause.
//
// Unlike the reference implementation's lazy heap (push-and-skip-stale on
// pop), this keeps an IndexedHeap that is eagerly repositioned on every
// bump, matching the admissibility invariant that the heap root is always
// the true highest-activity unassigned variable, not merely the freshest
// stale-tolerant approximation of it.
type VSIDS struct {
	activity  []float64
	heap      *IndexedHeap
	increment float64
}

const (
	vsidsGrowFactor   = 1.0 / 0.95
	vsidsRescaleAt    = 1e100
	vsidsRescaleScale = 1e-100
)

// NewVSIDS builds the activity vector and indexed max-heap from the given
// initial (e.g. Jeroslow-Wang) variable scores.
func NewVSIDS(initialScores []float64) *VSIDS {
	v := &VSIDS{
		activity:  append([]float64(nil), initialScores...),
		heap:      NewIndexedHeap(len(initialScores)),
		increment: 1.0,
	}
	for i := range initialScores {
		v.heap.Insert(i, v.less)
	}
	return v
}

// less orders by (activity desc, variable id asc): a has priority over b
// iff a's activity is strictly greater, or equal and a's id is smaller.
func (v *VSIDS) less(a, b int) bool {
	if v.activity[a] != v.activity[b] {
		return v.activity[a] > v.activity[b]
	}
	return a < b
}

// PopMostActiveUnassigned pops and returns the highest-activity variable not
// currently assigned in assignment. It returns (0, false) if every variable
// in the heap is exhausted.
func (v *VSIDS) PopMostActiveUnassigned(assignment *PartialAssignment) (int, bool) {
	for {
		id, ok := v.heap.Pop(v.less)
		if !ok {
			return 0, false
		}
		if assignment.State(id).IsUnassigned() {
			return id, true
		}
		// Already assigned by propagation while still resident in the
		// heap: discard and keep popping.
	}
}

// OnUnassignVar re-inserts var into the heap after backtracking unassigns
// it, if it is not already present.
func (v *VSIDS) OnUnassignVar(variable int) {
	if !v.heap.Contains(variable) {
		v.heap.Insert(variable, v.less)
	}
}

// BumpLitActivities bumps the activity of every variable mentioned by the
// literals of a falsified clause.
func (v *VSIDS) BumpLitActivities(lits []Literal) {
	for _, lit := range lits {
		v.bumpVar(lit.Var())
	}
}

func (v *VSIDS) bumpVar(variable int) {
	v.activity[variable] += v.increment
	if v.heap.Contains(variable) {
		v.heap.Update(variable, v.less)
	}
	if v.activity[variable] > vsidsRescaleAt {
		v.rescale()
	}
}

// rescale scales down every activity score and the increment to prevent
// floating point overflow. Heap order is preserved because scaling is
// monotone across all variables.
func (v *VSIDS) rescale() {
	for i := range v.activity {
		v.activity[i] *= vsidsRescaleScale
	}
	v.increment *= vsidsRescaleScale
}

// Decay grows the increment, making future bumps strictly more significant
// than older ones.
func (v *VSIDS) Decay() {
	v.increment *= vsidsGrowFactor
}
