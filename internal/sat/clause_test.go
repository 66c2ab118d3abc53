package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewClause_SortsDedupsAndDropsTautologies(t *testing.T) {
	tests := []struct {
		name      string
		lits      []Literal
		want      []Literal
		tautology bool
	}{
		{
			name: "sorts and dedups",
			lits: []Literal{PositiveLiteral(2), PositiveLiteral(0), PositiveLiteral(0), PositiveLiteral(1)},
			want: []Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)},
		},
		{
			name:      "opposite polarities are a tautology",
			lits:      []Literal{PositiveLiteral(0), NegativeLiteral(0)},
			tautology: true,
		},
		{
			name: "empty clause",
			lits: nil,
			want: []Literal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, tautology := NewClause(tt.lits)
			if tautology != tt.tautology {
				t.Fatalf("tautology = %v, want %v", tautology, tt.tautology)
			}
			if tautology {
				return
			}
			if diff := cmp.Diff(tt.want, c.Literals(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Literals() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClause_Eval(t *testing.T) {
	c, _ := NewClause([]Literal{PositiveLiteral(0), NegativeLiteral(1), PositiveLiteral(2)})

	tests := []struct {
		name  string
		state []OptBool
		want  ClauseState
	}{
		{
			name:  "all unassigned",
			state: []OptBool{OptUnassigned, OptUnassigned, OptUnassigned},
			want:  ClauseState{Kind: Undecided, Unassigned: 3},
		},
		{
			name:  "satisfied by positive literal",
			state: []OptBool{Lift(true), OptUnassigned, OptUnassigned},
			want:  ClauseState{Kind: Satisfied},
		},
		{
			name:  "satisfied by negative literal",
			state: []OptBool{Lift(false), Lift(false), OptUnassigned},
			want:  ClauseState{Kind: Satisfied},
		},
		{
			name:  "unit on the last unassigned literal",
			state: []OptBool{Lift(false), Lift(true), OptUnassigned},
			want:  ClauseState{Kind: Unit, UnitLit: PositiveLiteral(2)},
		},
		{
			name:  "unsatisfied",
			state: []OptBool{Lift(false), Lift(true), Lift(false)},
			want:  ClauseState{Kind: Unsatisfied},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Eval(tt.state)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Eval() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClause_IsSatisfiedBy(t *testing.T) {
	c, _ := NewClause([]Literal{PositiveLiteral(0), NegativeLiteral(1)})

	tests := []struct {
		model []bool
		want  bool
	}{
		{model: []bool{true, true}, want: true},
		{model: []bool{false, false}, want: true},
		{model: []bool{false, true}, want: false},
	}
	for _, tt := range tests {
		if got := c.IsSatisfiedBy(tt.model); got != tt.want {
			t.Errorf("IsSatisfiedBy(%v) = %v, want %v", tt.model, got, tt.want)
		}
	}
}
