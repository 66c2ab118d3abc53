package sat

import "math"

// Problem is an immutable, indexed CNF formula. It is built once by a
// ProblemBuilder and then shared, read-only, across every worker in a pool.
type Problem struct {
	NumVars int

	// Clauses is the flat arena of clauses; everywhere else a clause is
	// referenced by its index into this slice rather than by pointer.
	Clauses []Clause

	// Var2Clauses[v] lists the ids of clauses that mention variable v under
	// either polarity.
	Var2Clauses [][]int

	// Lit2Clauses[l] lists the ids of clauses that mention literal l exactly.
	Lit2Clauses [][]int

	// VarScores holds the Jeroslow-Wang initial activity of each variable,
	// used to seed VSIDS.
	VarScores []float64
}

// NumClauses returns the number of clauses in the problem.
func (p *Problem) NumClauses() int {
	return len(p.Clauses)
}

// ProblemBuilder incrementally constructs a Problem. It is the collaborator
// contract that DIMACS parsers (and any other CNF producer) are written
// against: AddVariable is called once per variable, then AddClause once per
// clause.
type ProblemBuilder struct {
	numVars     int
	clauses     []Clause
	var2clauses [][]int
	lit2clauses [][]int
}

// NewProblemBuilder returns an empty builder.
func NewProblemBuilder() *ProblemBuilder {
	return &ProblemBuilder{}
}

// AddVariable allocates a new variable and returns its 0-indexed id.
func (b *ProblemBuilder) AddVariable() int {
	v := b.numVars
	b.numVars++
	b.var2clauses = append(b.var2clauses, nil)
	b.lit2clauses = append(b.lit2clauses, nil, nil)
	return v
}

// AddClause sorts, dedups, and (if non-tautological) adds the clause formed
// by lits to the problem under construction. Tautological clauses are
// silently dropped.
func (b *ProblemBuilder) AddClause(lits []Literal) error {
	clause, tautology := NewClause(lits)
	if tautology || clause.Len() == 0 {
		return nil
	}
	id := len(b.clauses)
	b.clauses = append(b.clauses, clause)
	for _, lit := range clause.literals {
		v := lit.Var()
		b.var2clauses[v] = append(b.var2clauses[v], id)
		b.lit2clauses[lit] = append(b.lit2clauses[lit], id)
	}
	return nil
}

// Build finalizes the Problem, computing Jeroslow-Wang variable scores.
func (b *ProblemBuilder) Build() *Problem {
	scores := make([]float64, b.numVars)
	for _, c := range b.clauses {
		weight := math.Pow(2, -float64(c.Len()))
		for _, lit := range c.literals {
			scores[lit.Var()] += weight
		}
	}
	return &Problem{
		NumVars:     b.numVars,
		Clauses:     b.clauses,
		Var2Clauses: b.var2clauses,
		Lit2Clauses: b.lit2clauses,
		VarScores:   scores,
	}
}

// VerifySolution returns the index of the first clause violated by model, or
// -1 if model satisfies every clause of p.
func VerifySolution(p *Problem, model []bool) int {
	for i := range p.Clauses {
		if !p.Clauses[i].IsSatisfiedBy(model) {
			return i
		}
	}
	return -1
}
