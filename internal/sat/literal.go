package sat

import "fmt"

// Literal represents a literal, which either represent a boolean variable or
// its negation. Bit 0 carries the polarity (0 = positive, 1 = negative); the
// remaining bits carry the 0-indexed variable id.
type Literal int32

// PositiveLiteral returns the positive literal of variable v.
func PositiveLiteral(v int) Literal {
	return Literal(v * 2)
}

// NegativeLiteral returns the negative literal of variable v.
func NegativeLiteral(v int) Literal {
	return Literal(v*2 + 1)
}

// FromSigned builds a Literal from a 1-indexed DIMACS-style signed integer:
// a positive k denotes variable k-1 true, a negative k denotes variable k-1
// false.
func FromSigned(k int) Literal {
	if k > 0 {
		return PositiveLiteral(k - 1)
	}
	return NegativeLiteral(-k - 1)
}

// Var returns the ID of the literal's variable.
func (l Literal) Var() int {
	return int(l) / 2
}

// IsPos returns true if and only if the literal represents the value of its
// boolean variable (i.e. not its negation).
func (l Literal) IsPos() bool {
	return l&1 == 0
}

// IsNeg returns true if and only if the literal is the negation of its
// boolean variable.
func (l Literal) IsNeg() bool {
	return l&1 == 1
}

// Inverted returns the opposite literal.
func (l Literal) Inverted() Literal {
	return l ^ 1
}

// EvalWith evaluates the literal given a value for its variable.
func (l Literal) EvalWith(value bool) bool {
	return l.IsNeg() != value
}

// Signed returns the 1-indexed DIMACS-style signed integer for the literal.
func (l Literal) Signed() int {
	if l.IsPos() {
		return l.Var() + 1
	}
	return -(l.Var() + 1)
}

func (l Literal) String() string {
	if l.IsPos() {
		return fmt.Sprintf("%d", l.Var())
	}
	return fmt.Sprintf("!%d", l.Var())
}
