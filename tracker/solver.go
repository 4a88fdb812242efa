package tracker

import (
	"errors"
	"fmt"

	munkres "github.com/charles-haynes/munkres"
	pkgerrors "github.com/pkg/errors"
)

// Solver names accepted by SolverByName and Config.Solver
const (
	SolverLAPJV   = "lapjv"
	SolverMunkres = "munkres"
)

var (
	// ErrUnknownSolver is returned when a solver name is not recognised
	ErrUnknownSolver = errors.New("unknown assignment solver")
	// ErrEmptyCostMatrix is returned when a solver is given a matrix with no
	// rows or no columns
	ErrEmptyCostMatrix = errors.New("empty cost matrix")
)

// Solver finds the one-to-one assignment between rows and columns of a cost
// matrix that minimises the total cost.  The cost matrix may be rectangular.
type Solver interface {
	// Solve returns rowsol where rowsol[i] is the column assigned to row i,
	// or -1 if row i is unassigned
	Solve(cost [][]float64) ([]int, error)
	// Name returns the solver name
	Name() string
}

// SolverByName returns the Solver registered under name.  An empty name
// selects the default LAPJV solver.
func SolverByName(name string) (Solver, error) {

	switch name {
	case "", SolverLAPJV:
		return NewLAPJV(), nil
	case SolverMunkres:
		return &Munkres{}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
}

// Munkres is a Solver backed by github.com/charles-haynes/munkres
type Munkres struct{}

// Name returns the solver name used in configuration
func (m *Munkres) Name() string {
	return SolverMunkres
}

// Solve returns the optimal row to column assignment
func (m *Munkres) Solve(cost [][]float64) ([]int, error) {

	if len(cost) == 0 || len(cost[0]) == 0 {
		return nil, ErrEmptyCostMatrix
	}

	// the solver may reduce the matrix it is given, so hand it a copy
	costC := make([][]float64, len(cost))

	for i := range cost {
		costC[i] = make([]float64, len(cost[i]))
		copy(costC[i], cost[i])
	}

	ha, err := munkres.NewHungarianAlgorithm(costC)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "unable to build munkres solver")
	}

	assigned := ha.Execute()

	rowsol := make([]int, len(cost))
	nCols := len(cost[0])

	for i := range rowsol {
		rowsol[i] = -1

		if i < len(assigned) && assigned[i] >= 0 && assigned[i] < nCols {
			rowsol[i] = assigned[i]
		}
	}

	return rowsol, nil
}
