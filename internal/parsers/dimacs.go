// Package parsers adapts byte-level CNF readers into the sat package's
// Problem-construction collaborator contract. The core never parses bytes
// itself; it only ever sees a fully built *sat.Problem.
package parsers

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rhartert/dimacs"

	"github.com/hartog/cubesat/internal/sat"
)

// ProblemCollaborator is the contract a DIMACS reader is written against:
// AddVariable is called once per variable, AddClause once per clause. It is
// satisfied directly by *sat.ProblemBuilder.
type ProblemCollaborator interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file and feeds it into the given
// collaborator. gzipped forces gzip decompression regardless of the file
// extension.
func LoadDIMACS(filename string, gzipped bool, dst ProblemCollaborator) error {
	r, err := open(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()
	return LoadDIMACSReader(r, dst)
}

// LoadDIMACSReader parses already-open DIMACS CNF content and feeds it into
// the given collaborator, for callers (such as the CLI's "-" stdin path)
// that do not have a filename to open.
func LoadDIMACSReader(r io.Reader, dst ProblemCollaborator) error {
	b := &builder{dst: dst}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return fmt.Errorf("error parsing DIMACS stream: %w", err)
	}
	return nil
}

// LoadProblem parses filename (transparently gzip-decompressing it if its
// name ends in ".gz") and returns the built Problem. filename "-" reads
// uncompressed DIMACS from stdin instead of opening a file.
func LoadProblem(filename string) (*sat.Problem, error) {
	b := sat.NewProblemBuilder()
	if filename == "-" {
		if err := LoadDIMACSReader(os.Stdin, b); err != nil {
			return nil, err
		}
		return b.Build(), nil
	}
	if err := LoadDIMACS(filename, strings.HasSuffix(filename, ".gz"), b); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// builder adapts a ProblemCollaborator to dimacs.Builder.
type builder struct {
	dst ProblemCollaborator
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem: %q", problem)
	}
	for i := 0; i < nVars; i++ {
		b.dst.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		clause[i] = sat.FromSigned(l)
	}
	return b.dst.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// ReadModels returns the list of models (if any) contained in the given
// model file — one model per line, space-separated signed integers, used by
// golden-file regression tests to check a solver's output against a
// precomputed set of satisfying assignments.
func ReadModels(filename string) ([][]bool, error) {
	r, err := open(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("model files should not have problem lines")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
