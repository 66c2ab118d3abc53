package sat

import "sort"

// Clause is an ordered, deduplicated, non-tautological set of literals.
// Clauses are immutable once constructed by NewClause and are referenced
// everywhere else by their index into Problem.Clauses, never by pointer.
type Clause struct {
	literals []Literal
}

// Literals returns the clause's literals in sorted order.
func (c *Clause) Literals() []Literal {
	return c.literals
}

// Len returns the number of literals in the clause.
func (c *Clause) Len() int {
	return len(c.literals)
}

// NewClause sorts, dedups, and drops tautologies from lits, returning the
// built clause and whether it is a tautology (in which case it must not be
// added to a Problem).
func NewClause(lits []Literal) (Clause, bool) {
	cp := make([]Literal, len(lits))
	copy(cp, lits)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })

	out := cp[:0]
	for i, l := range cp {
		if i > 0 && cp[i-1] == l {
			continue // duplicate
		}
		out = append(out, l)
	}

	for i := 1; i < len(out); i++ {
		if out[i-1].Var() == out[i].Var() {
			// Adjacent in sorted order with the same variable and not
			// equal (handled above) means opposite polarities: tautology.
			return Clause{}, true
		}
	}

	return Clause{literals: out}, false
}

// ClauseStateKind is the discriminant of a ClauseState.
type ClauseStateKind int8

const (
	Satisfied ClauseStateKind = iota
	Unsatisfied
	Unit
	Undecided
)

// ClauseState is the tagged-union evaluation of a Clause under a partial
// assignment: Satisfied/Unsatisfied carry no payload, Unit carries the sole
// unassigned literal, Undecided carries the count of unassigned literals.
type ClauseState struct {
	Kind      ClauseStateKind
	UnitLit   Literal
	Unassigned int
}

// Eval computes the ClauseState of c under state, where state[v] gives the
// OptBool value of variable v.
func (c *Clause) Eval(state []OptBool) ClauseState {
	unassignedCount := 0
	var lastUnassigned Literal
	for _, lit := range c.literals {
		v := state[lit.Var()]
		if v.IsUnassigned() {
			unassignedCount++
			lastUnassigned = lit
			continue
		}
		if lit.EvalWith(v.Unwrap()) {
			return ClauseState{Kind: Satisfied}
		}
	}
	switch unassignedCount {
	case 0:
		return ClauseState{Kind: Unsatisfied}
	case 1:
		return ClauseState{Kind: Unit, UnitLit: lastUnassigned}
	default:
		return ClauseState{Kind: Undecided, Unassigned: unassignedCount}
	}
}

// IsSatisfiedBy returns true iff at least one literal in c evaluates to true under
// the complete assignment model (model[v] is the value of variable v).
func (c *Clause) IsSatisfiedBy(model []bool) bool {
	for _, lit := range c.literals {
		if lit.EvalWith(model[lit.Var()]) {
			return true
		}
	}
	return false
}
