package sat

// DecisionPath is an ordered chain of decision literals from the root of the
// search tree. It is the unit of work handed between the cube generator, the
// job channel, and the work-stealing deques.
type DecisionPath []Literal

// ToAssignment builds the OptBool vector obtained by assigning every literal
// in the path and leaving every other variable unassigned.
func (dp DecisionPath) ToAssignment(numVars int) []OptBool {
	state := make([]OptBool, numVars)
	for i := range state {
		state[i] = OptUnassigned
	}
	for _, lit := range dp {
		state[lit.Var()] = Lift(lit.IsPos())
	}
	return state
}

// Clone returns a copy of the path, safe to mutate independently.
func (dp DecisionPath) Clone() DecisionPath {
	out := make(DecisionPath, len(dp))
	copy(out, dp)
	return out
}
