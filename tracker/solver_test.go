package tracker

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// bruteForceCost returns the minimum total cost of assigning every row of a
// matrix with no more rows than columns
func bruteForceCost(cost [][]float64) float64 {

	nCols := len(cost[0])
	used := make([]bool, nCols)
	best := math.Inf(1)

	var walk func(row int, total float64)
	walk = func(row int, total float64) {
		if row == len(cost) {
			if total < best {
				best = total
			}
			return
		}
		for j := 0; j < nCols; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			walk(row+1, total+cost[row][j])
			used[j] = false
		}
	}

	walk(0, 0)

	return best
}

// assignmentCost sums the cost of an assignment, checking no column is used
// twice
func assignmentCost(t *testing.T, cost [][]float64, rowsol []int) float64 {

	seen := make(map[int]bool)
	total := 0.0

	for i, j := range rowsol {
		if j < 0 {
			continue
		}
		if seen[j] {
			t.Fatalf("column %d assigned twice in %v", j, rowsol)
		}
		seen[j] = true
		total += cost[i][j]
	}

	return total
}

func randomCost(rng *rand.Rand, rows, cols int) [][]float64 {
	cost := make([][]float64, rows)
	for i := range cost {
		cost[i] = make([]float64, cols)
		for j := range cost[i] {
			// round to avoid ties decided by float noise
			cost[i][j] = math.Round(rng.Float64()*1000) / 1000
		}
	}
	return cost
}

func TestSolverByName(t *testing.T) {

	for _, name := range []string{"", SolverLAPJV, SolverMunkres} {
		solver, err := SolverByName(name)

		if err != nil {
			t.Fatalf("solver %q: unexpected error %v", name, err)
		}

		want := name
		if want == "" {
			want = SolverLAPJV
		}

		if solver.Name() != want {
			t.Errorf("expected solver name %q, got %q", want, solver.Name())
		}
	}

	for _, name := range []string{"simplex", "hungarian"} {
		if _, err := SolverByName(name); !errors.Is(err, ErrUnknownSolver) {
			t.Errorf("solver %q: expected ErrUnknownSolver, got %v", name, err)
		}
	}
}

func TestSolversAgreeSquare(t *testing.T) {

	rng := rand.New(rand.NewSource(42))

	solvers := []Solver{NewLAPJV(), &Munkres{}}

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(5)
		cost := randomCost(rng, n, n)
		want := bruteForceCost(cost)

		for _, solver := range solvers {
			rowsol, err := solver.Solve(cost)

			if err != nil {
				t.Fatalf("%s: unexpected error %v", solver.Name(), err)
			}

			for i, j := range rowsol {
				if j < 0 {
					t.Fatalf("%s: row %d left unassigned in square matrix", solver.Name(), i)
				}
			}

			got := assignmentCost(t, cost, rowsol)

			if math.Abs(got-want) > 1e-9 {
				t.Errorf("%s: round %d expected total cost %v, got %v",
					solver.Name(), round, want, got)
			}
		}
	}
}

func TestSolversAgreeRectangular(t *testing.T) {

	rng := rand.New(rand.NewSource(7))

	solvers := []Solver{NewLAPJV(), &Munkres{}}

	for round := 0; round < 20; round++ {
		rows := 1 + rng.Intn(4)
		cols := rows + 1 + rng.Intn(2)
		cost := randomCost(rng, rows, cols)
		want := bruteForceCost(cost)

		for _, solver := range solvers {
			rowsol, err := solver.Solve(cost)

			if err != nil {
				t.Fatalf("%s: unexpected error %v", solver.Name(), err)
			}

			if len(rowsol) != rows {
				t.Fatalf("%s: expected %d rows, got %d", solver.Name(), rows, len(rowsol))
			}

			got := assignmentCost(t, cost, rowsol)

			if math.Abs(got-want) > 1e-9 {
				t.Errorf("%s: round %d expected total cost %v, got %v",
					solver.Name(), round, want, got)
			}
		}
	}
}

func TestSolverEmptyMatrix(t *testing.T) {

	for _, solver := range []Solver{NewLAPJV(), &Munkres{}} {
		if _, err := solver.Solve([][]float64{}); !errors.Is(err, ErrEmptyCostMatrix) {
			t.Errorf("%s: expected ErrEmptyCostMatrix, got %v", solver.Name(), err)
		}
	}
}
