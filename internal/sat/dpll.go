package sat

// SolverActionKind is the discriminant of a SolverAction.
type SolverActionKind int8

const (
	ActionSAT SolverActionKind = iota
	ActionUNSAT
	ActionContinue
)

// SolverAction is the outcome of one DPLLSolver.Step call.
type SolverAction struct {
	Kind     SolverActionKind
	Continue Literal // valid iff Kind == ActionContinue

	// WasFreshDecision is true iff Continue was produced by opening a brand
	// new decision level (always trying "true" first), and false when it
	// was produced by backtracking and flipping an existing decision to its
	// untried "false" alternative. internal/pool uses this to tell a fresh
	// descent apart from a backtrack re-entry, since only the former is a
	// branch worth offering to an idle peer.
	WasFreshDecision bool
}

// DPLLSolver is the iterative chronological-backtracking DPLL search engine:
// unit propagation, VSIDS-guided decisions, and flip-then-restore
// backtracking. It holds no CDCL machinery — no learnt clauses, no conflict
// analysis, no restarts — by design (see the Non-goals in SPEC_FULL.md §1).
type DPLLSolver struct {
	problem    *Problem
	Assignment *PartialAssignment
	vsids      *VSIDS

	// falsifiedLits is the reusable LIFO stack of literals newly falsified
	// during the current unit-propagation wave.
	falsifiedLits []Literal

	rootPropagationDone bool
}

// NewDPLLSolver builds a solver seeded with the given initial decisions
// (possibly empty, for a solver covering the whole search space).
func NewDPLLSolver(problem *Problem, initial DecisionPath) *DPLLSolver {
	return &DPLLSolver{
		problem:    problem,
		Assignment: WithDecisions(problem.NumVars, initial),
		vsids:      NewVSIDS(problem.VarScores),
	}
}

// Solve runs the search loop to completion, returning the satisfying model
// and true on SAT, or (nil, false) on UNSAT.
func (s *DPLLSolver) Solve() ([]bool, bool) {
	action := s.FirstStep()
	for {
		switch action.Kind {
		case ActionSAT:
			return s.Assignment.ToSolution(), true
		case ActionUNSAT:
			return nil, false
		default:
			action = s.Step(action.Continue)
		}
	}
}

// FirstStep performs the root unit-propagation scan (scan-all-once) if it
// has not yet run, then makes (or continues from) the first branching
// decision. Every subsequent wave is seeded solely from the literal produced
// by the triggering decision or backtrack. Exported so that internal/pool
// can drive a solver one step at a time, checking for a cross-worker
// solution between steps instead of running Solve to completion.
func (s *DPLLSolver) FirstStep() SolverAction {
	if !s.rootPropagationDone {
		s.rootPropagationDone = true
		switch s.propagateUnitsRoot() {
		case propSAT:
			return SolverAction{Kind: ActionSAT}
		case propUNSAT:
			return SolverAction{Kind: ActionUNSAT}
		}
	}
	return SolverAction{Kind: ActionContinue, Continue: s.makeBranchingDecision(), WasFreshDecision: true}
}

// Step advances the search by one propagation wave, given the literal that
// was just falsified (by a decision or a backtrack).
func (s *DPLLSolver) Step(falsifiedLit Literal) SolverAction {
	switch s.propagateUnitsFrom(falsifiedLit) {
	case propSAT:
		return SolverAction{Kind: ActionSAT}
	case propUNSAT:
		if lit, ok := s.Assignment.Backtrack(s.vsids.OnUnassignVar); ok {
			return SolverAction{Kind: ActionContinue, Continue: lit}
		}
		return SolverAction{Kind: ActionUNSAT}
	default: // propUndecided
		return SolverAction{Kind: ActionContinue, Continue: s.makeBranchingDecision(), WasFreshDecision: true}
	}
}

// makeBranchingDecision pops the highest-activity unassigned variable from
// VSIDS, opens a new decision level on it, and returns the literal falsified
// by always trying "true" first.
func (s *DPLLSolver) makeBranchingDecision() Literal {
	v, ok := s.vsids.PopMostActiveUnassigned(s.Assignment)
	if !ok {
		panic("sat: no unassigned variable left to decide on an incomplete assignment")
	}
	s.Assignment.Decide(v)
	return NegativeLiteral(v)
}

type propagationResult int8

const (
	propSAT propagationResult = iota
	propUNSAT
	propUndecided
)

// propagateUnitsRoot seeds the falsified-literals stack by scanning every
// clause once, exposing pure unit clauses present in the input before any
// branching has occurred.
func (s *DPLLSolver) propagateUnitsRoot() propagationResult {
	s.falsifiedLits = s.falsifiedLits[:0]
	for i := range s.problem.Clauses {
		state := s.problem.Clauses[i].Eval(s.Assignment.state)
		if state.Kind == Unit {
			if r := s.propagateOneUnit(state.UnitLit); r == propUNSAT {
				return propUNSAT
			}
		} else if state.Kind == Unsatisfied {
			return propUNSAT
		}
	}
	return s.drainPropagationStack()
}

// propagateUnitsFrom runs a propagation wave seeded from a single falsified
// literal.
func (s *DPLLSolver) propagateUnitsFrom(falsifiedLit Literal) propagationResult {
	s.falsifiedLits = append(s.falsifiedLits[:0], falsifiedLit)
	return s.drainPropagationStack()
}

// drainPropagationStack pops literals LIFO, inspecting every clause that
// mentions each one, until the stack is empty or a conflict is found.
func (s *DPLLSolver) drainPropagationStack() propagationResult {
	for len(s.falsifiedLits) > 0 {
		lit := s.falsifiedLits[len(s.falsifiedLits)-1]
		s.falsifiedLits = s.falsifiedLits[:len(s.falsifiedLits)-1]

		for _, cid := range s.problem.Lit2Clauses[lit] {
			clause := &s.problem.Clauses[cid]
			state := clause.Eval(s.Assignment.state)
			switch state.Kind {
			case Satisfied, Undecided:
				continue
			case Unsatisfied:
				s.vsids.BumpLitActivities(clause.literals)
				s.vsids.Decay()
				return propUNSAT
			case Unit:
				if r := s.propagateOneUnit(state.UnitLit); r == propUNSAT {
					s.vsids.BumpLitActivities(clause.literals)
					s.vsids.Decay()
					return propUNSAT
				}
			}
		}
	}
	if s.Assignment.IsComplete() {
		return propSAT
	}
	return propUndecided
}

// propagateOneUnit assigns the variable of unitLit to make it true and
// pushes its inverse onto the falsified-literals stack. If the variable is
// already assigned to the opposite value, this unit clause is a conflict.
func (s *DPLLSolver) propagateOneUnit(unitLit Literal) propagationResult {
	v := unitLit.Var()
	if !s.Assignment.State(v).IsUnassigned() {
		if !s.Assignment.State(v).IsBool(unitLit.IsPos()) {
			return propUNSAT
		}
		return propUndecided
	}
	s.Assignment.Propagate(v, unitLit.IsPos())
	s.falsifiedLits = append(s.falsifiedLits, unitLit.Inverted())
	return propUndecided
}
