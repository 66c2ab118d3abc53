package sat

// CubeGenerationKind is the discriminant of a CubeGenerationResult.
type CubeGenerationKind int8

const (
	CubeSAT CubeGenerationKind = iota
	CubeUNSAT
	CubeCube
)

// CubeGenerationResult is one value yielded by a CubeGenerator: either a
// complete model, a proof the whole formula is UNSAT, or a partial decision
// path (cube) of length at most the generator's max depth.
type CubeGenerationResult struct {
	Kind  CubeGenerationKind
	Model []bool
	Cube  DecisionPath
}

// genPhase tracks where CubeGenerator.Next should resume: Go has no
// suspendable-coroutine primitive, so the lazy yield-based reference
// algorithm is re-architected as an explicit state machine that resumes
// exactly where it left off on every call.
type genPhase int8

const (
	phaseInit genPhase = iota
	phaseDescending
	phaseBacktracking
	phaseDone
)

// CubeGenerator enumerates the disjoint sub-problems ("cubes") of a Problem
// up to a bounded depth, driven eagerly by the caller via repeated Next
// calls — there is no background goroutine and no channel involved.
type CubeGenerator struct {
	solver      *DPLLSolver
	maxDepth    int
	phase       genPhase
	generatedAny bool
}

// NewCubeGenerator returns a generator over problem bounded to maxDepth
// decisions per cube. maxDepth must be >= 1.
func NewCubeGenerator(problem *Problem, maxDepth int) *CubeGenerator {
	return &CubeGenerator{
		solver:   NewDPLLSolver(problem, nil),
		maxDepth: maxDepth,
		phase:    phaseInit,
	}
}

// Next advances the generator to its next yield point. The second return
// value is false once the generator is exhausted — no further results will
// ever be produced.
func (g *CubeGenerator) Next() (CubeGenerationResult, bool) {
	switch g.phase {
	case phaseInit:
		return g.stepInit()
	case phaseDescending:
		return g.stepDescending()
	case phaseBacktracking:
		return g.stepBacktracking()
	default:
		return CubeGenerationResult{}, false
	}
}

func (g *CubeGenerator) stepInit() (CubeGenerationResult, bool) {
	switch g.solver.propagateUnitsRoot() {
	case propSAT:
		g.phase = phaseDone
		return CubeGenerationResult{Kind: CubeSAT, Model: g.solver.Assignment.ToSolution()}, true
	case propUNSAT:
		g.phase = phaseDone
		return CubeGenerationResult{Kind: CubeUNSAT}, true
	}

	v, ok := g.solver.vsids.PopMostActiveUnassigned(g.solver.Assignment)
	if !ok {
		// Root propagation already assigned every variable.
		g.phase = phaseDone
		return CubeGenerationResult{Kind: CubeSAT, Model: g.solver.Assignment.ToSolution()}, true
	}
	g.solver.Assignment.Decide(v)
	g.phase = phaseDescending
	return g.stepDescending()
}

func (g *CubeGenerator) stepDescending() (CubeGenerationResult, bool) {
	falsifiedLit := NegativeLiteral(g.solver.Assignment.LastDecisionVar())

	abandonBranch := false
	switch g.solver.propagateUnitsFrom(falsifiedLit) {
	case propSAT:
		g.phase = phaseDone
		return CubeGenerationResult{Kind: CubeSAT, Model: g.solver.Assignment.ToSolution()}, true
	case propUNSAT:
		abandonBranch = true
	default: // propUndecided
		if g.solver.Assignment.DecisionLevel() >= g.maxDepth {
			cube := g.solver.Assignment.ExtractDecisions()
			g.generatedAny = true
			g.phase = phaseBacktracking
			return CubeGenerationResult{Kind: CubeCube, Cube: cube}, true
		}
	}

	if !abandonBranch {
		if v, ok := g.solver.vsids.PopMostActiveUnassigned(g.solver.Assignment); ok {
			g.solver.Assignment.Decide(v)
			return g.stepDescending()
		}
		// Every variable assigned with no SAT detected above: falls
		// through to backtracking, matching the reference generator.
	}

	g.phase = phaseBacktracking
	return g.stepBacktracking()
}

func (g *CubeGenerator) stepBacktracking() (CubeGenerationResult, bool) {
	for {
		r := g.solver.Assignment.BacktrackOnce(g.solver.vsids.OnUnassignVar)
		switch r.Kind {
		case ContinueBacktracking:
			continue
		case TryAlternative:
			g.phase = phaseDescending
			return g.stepDescendingFrom(r.FalsifiedLit)
		default: // NoMoreDecisions
			g.phase = phaseDone
			if !g.generatedAny {
				return CubeGenerationResult{Kind: CubeUNSAT}, true
			}
			return CubeGenerationResult{}, false
		}
	}
}

// stepDescendingFrom continues the descent with falsifiedLit already known
// (the literal produced by flipping the backtracked-to decision), avoiding
// a redundant re-derivation of "last decision, negated".
func (g *CubeGenerator) stepDescendingFrom(falsifiedLit Literal) (CubeGenerationResult, bool) {
	abandonBranch := false
	switch g.solver.propagateUnitsFrom(falsifiedLit) {
	case propSAT:
		g.phase = phaseDone
		return CubeGenerationResult{Kind: CubeSAT, Model: g.solver.Assignment.ToSolution()}, true
	case propUNSAT:
		abandonBranch = true
	default:
		if g.solver.Assignment.DecisionLevel() >= g.maxDepth {
			cube := g.solver.Assignment.ExtractDecisions()
			g.generatedAny = true
			g.phase = phaseBacktracking
			return CubeGenerationResult{Kind: CubeCube, Cube: cube}, true
		}
	}

	if !abandonBranch {
		if v, ok := g.solver.vsids.PopMostActiveUnassigned(g.solver.Assignment); ok {
			g.solver.Assignment.Decide(v)
			return g.stepDescending()
		}
	}

	g.phase = phaseBacktracking
	return g.stepBacktracking()
}
