package sat

// BacktrackKind is the discriminant of a BacktrackResult.
type BacktrackKind int8

const (
	TryAlternative BacktrackKind = iota
	ContinueBacktracking
	NoMoreDecisions
)

// BacktrackResult is the outcome of one step of backtracking: TryAlternative
// carries the literal that became falsified by flipping the decision to its
// second branch; the other two kinds carry no payload.
type BacktrackResult struct {
	Kind          BacktrackKind
	FalsifiedLit  Literal
}

// PartialAssignment manages the partial assignment of variables during DPLL
// search: decisions, unit propagations, and level-wise backtracking.
type PartialAssignment struct {
	// state[v] is the current OptBool value of variable v.
	state []OptBool

	// trail is the chronological stack of assigned variables (decisions and
	// propagations), used to undo assignments on backtracking.
	trail []int

	// decisionMarks[i] is the index into trail of the decision variable for
	// level i+1.
	decisionMarks []int

	numAssigned           int
	initialDecisionLevel  int
}

// WithDecisions builds a PartialAssignment over numVars variables with the
// literals of initial installed as level-0 context: they are never
// backtracked over.
func WithDecisions(numVars int, initial DecisionPath) *PartialAssignment {
	state := initial.ToAssignment(numVars)
	trail := make([]int, len(initial))
	marks := make([]int, len(initial))
	for i, lit := range initial {
		trail[i] = lit.Var()
		marks[i] = i
	}
	return &PartialAssignment{
		state:                state,
		trail:                trail,
		decisionMarks:        marks,
		numAssigned:          len(initial),
		initialDecisionLevel: len(initial),
	}
}

// DecisionLevel returns the current decision level (depth of the search
// tree).
func (a *PartialAssignment) DecisionLevel() int {
	return len(a.decisionMarks)
}

// State returns the current value of variable v.
func (a *PartialAssignment) State(v int) OptBool {
	return a.state[v]
}

// NumVars returns the number of variables tracked by the assignment.
func (a *PartialAssignment) NumVars() int {
	return len(a.state)
}

// Propagate assigns var to val outside of a new decision level. The
// variable must be currently unassigned.
func (a *PartialAssignment) Propagate(v int, val bool) {
	a.state[v] = Lift(val)
	a.numAssigned++
	a.trail = append(a.trail, v)
}

// Decide opens a new decision level and assigns v to true — the first
// branch explored is always "true".
func (a *PartialAssignment) Decide(v int) {
	a.decisionMarks = append(a.decisionMarks, len(a.trail))
	a.state[v] = OptTrue
	a.numAssigned++
	a.trail = append(a.trail, v)
}

// undoCurrentUnitPropagations pops every trail entry above the last
// decision mark, invoking onUnassign for each, and returns the trail index
// of the decision variable itself.
func (a *PartialAssignment) undoCurrentUnitPropagations(onUnassign func(int)) int {
	levelStart := a.decisionMarks[len(a.decisionMarks)-1]
	for len(a.trail) > levelStart+1 {
		v := a.trail[len(a.trail)-1]
		a.trail = a.trail[:len(a.trail)-1]
		a.state[v] = OptUnassigned
		a.numAssigned--
		if onUnassign != nil {
			onUnassign(v)
		}
	}
	return levelStart
}

// BacktrackOnce attempts to backtrack one decision level: it undoes unit
// propagations above the last decision mark and either flips the decision to
// its untried branch, pops an exhausted level, or reports exhaustion.
func (a *PartialAssignment) BacktrackOnce(onUnassign func(int)) BacktrackResult {
	if len(a.decisionMarks) <= a.initialDecisionLevel {
		return BacktrackResult{Kind: NoMoreDecisions}
	}

	decisionIdx := a.undoCurrentUnitPropagations(onUnassign)
	decisionVar := a.trail[decisionIdx]

	if a.state[decisionVar] == OptTrue {
		a.state[decisionVar] = OptFalse
		return BacktrackResult{Kind: TryAlternative, FalsifiedLit: PositiveLiteral(decisionVar)}
	}

	a.state[decisionVar] = OptUnassigned
	a.numAssigned--
	if onUnassign != nil {
		onUnassign(decisionVar)
	}
	a.trail = a.trail[:len(a.trail)-1]
	a.decisionMarks = a.decisionMarks[:len(a.decisionMarks)-1]
	return BacktrackResult{Kind: ContinueBacktracking}
}

// Backtrack repeatedly calls BacktrackOnce until it yields TryAlternative or
// NoMoreDecisions, invoking onUnassign for every variable cleared along the
// way. It returns the falsified literal to re-propagate, or false if the
// search space is exhausted.
func (a *PartialAssignment) Backtrack(onUnassign func(int)) (Literal, bool) {
	for {
		switch r := a.BacktrackOnce(onUnassign); r.Kind {
		case TryAlternative:
			return r.FalsifiedLit, true
		case NoMoreDecisions:
			return 0, false
		default: // ContinueBacktracking
			continue
		}
	}
}

// IsComplete returns true iff every variable is assigned.
func (a *PartialAssignment) IsComplete() bool {
	return a.numAssigned == len(a.state)
}

// ToSolution converts the assignment to a full model, defaulting any
// still-unassigned variable to false.
func (a *PartialAssignment) ToSolution() []bool {
	out := make([]bool, len(a.state))
	for i, v := range a.state {
		out[i] = v.UnwrapOr(false)
	}
	return out
}

// ExtractDecisionsUpto copies the first level decision literals into a new
// DecisionPath, preserving order.
func (a *PartialAssignment) ExtractDecisionsUpto(level int) DecisionPath {
	out := make(DecisionPath, 0, level)
	for _, idx := range a.decisionMarks[:level] {
		v := a.trail[idx]
		out = append(out, PositiveLiteral(v).orNegative(a.state[v].Unwrap()))
	}
	return out
}

// ExtractDecisions copies every current decision literal into a new
// DecisionPath, preserving order.
func (a *PartialAssignment) ExtractDecisions() DecisionPath {
	return a.ExtractDecisionsUpto(a.DecisionLevel())
}

// LastDecisionVar returns the variable of the most recently opened decision
// level. It panics if no decision has been made yet.
func (a *PartialAssignment) LastDecisionVar() int {
	mark := a.decisionMarks[len(a.decisionMarks)-1]
	return a.trail[mark]
}

// orNegative returns l if positive is true, else its inverted counterpart.
// Small helper kept unexported since it only makes sense paired with
// PositiveLiteral above.
func (l Literal) orNegative(positive bool) Literal {
	if positive {
		return l
	}
	return l.Inverted()
}
