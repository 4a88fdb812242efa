package tracker

import (
	"errors"
	"fmt"
	"math"
)

// lapLarge is the initial column dual value, it must exceed any finite cost
// placed in the matrix
const lapLarge = 1000000.0

// LAPJV is the default Solver using the Jonker-Volgenant shortest augmenting
// path algorithm.  Rectangular cost matrices are extended to a square matrix
// of size rows+cols where the dummy cells carry CostLimit/2, so any real pair
// costing more than CostLimit is left unassigned.
type LAPJV struct {
	// CostLimit is the maximum cost of an accepted pair, use math.Inf(1) to
	// accept every pair the optimum selects
	CostLimit float64
}

// NewLAPJV returns a LAPJV solver without a cost limit
func NewLAPJV() *LAPJV {
	return &LAPJV{CostLimit: math.Inf(1)}
}

// Name returns the solver name used in configuration
func (l *LAPJV) Name() string {
	return SolverLAPJV
}

// Solve returns rowsol where rowsol[i] is the column assigned to row i or -1
func (l *LAPJV) Solve(cost [][]float64) ([]int, error) {

	nRows := len(cost)

	if nRows == 0 || len(cost[0]) == 0 {
		return nil, ErrEmptyCostMatrix
	}

	nCols := len(cost[0])
	n := nRows + nCols

	// cost of leaving a row or column unassigned
	dummy := l.CostLimit / 2

	if math.IsInf(l.CostLimit, 1) || l.CostLimit >= lapLarge {
		costMax := -1.0

		for i := range cost {
			for j := range cost[i] {
				if cost[i][j] > costMax {
					costMax = cost[i][j]
				}
			}
		}

		dummy = costMax + 1
	}

	extended := make([][]float64, n)

	for i := range extended {
		extended[i] = make([]float64, n)

		for j := range extended[i] {
			switch {
			case i < nRows && j < nCols:
				if len(cost[i]) != nCols {
					return nil, fmt.Errorf("cost matrix row %d has %d columns, expected %d",
						i, len(cost[i]), nCols)
				}
				c := cost[i][j]
				if math.IsNaN(c) || math.IsInf(c, 0) {
					return nil, fmt.Errorf("cost matrix cell (%d,%d) is not finite", i, j)
				}
				extended[i][j] = c
			case i >= nRows && j >= nCols:
				extended[i][j] = 0
			default:
				extended[i][j] = dummy
			}
		}
	}

	x := make([]int, n)
	y := make([]int, n)

	ret, err := lapjvInternal(n, extended, x, y)

	if err != nil {
		return nil, fmt.Errorf("lapjv failed: %w", err)
	}

	if ret != 0 {
		return nil, fmt.Errorf("lapjv left %d rows unassigned", ret)
	}

	rowsol := make([]int, nRows)

	for i := 0; i < nRows; i++ {
		if x[i] >= nCols {
			rowsol[i] = -1
		} else {
			rowsol[i] = x[i]
		}
	}

	return rowsol, nil
}

// lapjvInternal solves the dense square LAP of size n.  On success x[i] holds
// the column assigned to row i and y[j] the row assigned to column j
func lapjvInternal(n int, cost [][]float64, x, y []int) (int, error) {

	freeRows := make([]int, n)
	v := make([]float64, n)

	ret := ccrrtDense(n, cost, freeRows, x, y, v)

	i := 0

	for ret > 0 && i < 2 {
		ret = carrDense(n, cost, ret, freeRows, x, y, v)
		i++
	}

	if ret > 0 {
		err := caDense(n, cost, ret, freeRows, x, y, v)

		if err != nil {
			return ret, err
		}

		ret = 0
	}

	return ret, nil
}

// ccrrtDense performs column-reduction and reduction transfer for a dense cost matrix
func ccrrtDense(n int, cost [][]float64, freeRows, x, y []int, v []float64) int {

	unique := make([]bool, n)

	for i := 0; i < n; i++ {
		x[i] = -1
		v[i] = lapLarge
		y[i] = 0
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := cost[i][j]
			if c < v[j] {
				v[j] = c
				y[j] = i
			}
		}
	}

	for i := 0; i < n; i++ {
		unique[i] = true
	}

	j := n

	for j > 0 {
		j--
		i := y[j]
		if x[i] < 0 {
			x[i] = j
		} else {
			unique[i] = false
			y[j] = -1
		}
	}

	nFreeRows := 0

	for i := 0; i < n; i++ {

		if x[i] < 0 {
			freeRows[nFreeRows] = i
			nFreeRows++

		} else if unique[i] {

			j := x[i]
			minVal := lapLarge

			for j2 := 0; j2 < n; j2++ {
				if j2 == j {
					continue
				}

				c := cost[i][j2] - v[j2]

				if c < minVal {
					minVal = c
				}
			}

			v[j] -= minVal
		}
	}

	return nFreeRows
}

// carrDense performs augmenting row reduction for a dense cost matrix
func carrDense(n int, cost [][]float64, nFreeRows int, freeRows,
	x, y []int, v []float64) int {

	current := 0
	newFreeRows := 0
	rrCnt := 0

	for current < nFreeRows {

		rrCnt++
		freeI := freeRows[current]
		current++

		j1 := 0
		v1 := cost[freeI][0] - v[0]
		j2 := -1
		v2 := lapLarge

		for j := 1; j < n; j++ {
			c := cost[freeI][j] - v[j]
			if c < v2 {
				if c >= v1 {
					v2 = c
					j2 = j
				} else {
					v2 = v1
					v1 = c
					j2 = j1
					j1 = j
				}
			}
		}

		i0 := y[j1]
		v1New := v[j1] - (v2 - v1)
		v1Lowers := v1New < v[j1]

		if rrCnt < current*n {
			if v1Lowers {
				v[j1] = v1New
			} else if i0 >= 0 && j2 >= 0 {
				j1 = j2
				i0 = y[j2]
			}

			if i0 >= 0 {
				if v1Lowers {
					current--
					freeRows[current] = i0
				} else {
					freeRows[newFreeRows] = i0
					newFreeRows++
				}
			}
		} else {
			if i0 >= 0 {
				freeRows[newFreeRows] = i0
				newFreeRows++
			}
		}

		x[freeI] = j1
		y[j1] = freeI
	}

	return newFreeRows
}

// findDense finds columns with minimum d[j] and put them on the SCAN list
func findDense(n int, lo int, d []float64, cols, y []int) int {

	hi := lo + 1
	mind := d[cols[lo]]

	for k := hi; k < n; k++ {

		j := cols[k]

		if d[j] <= mind {
			if d[j] < mind {
				hi = lo
				mind = d[j]
			}

			cols[k] = cols[hi]
			cols[hi] = j
			hi++
		}
	}

	return hi
}

// scanDense scans all columns in TODO starting from arbitrary column in SCAN
// and try to decrease d of the TODO columns using the SCAN column
func scanDense(n int, cost [][]float64, lo, hi *int, d []float64,
	cols, pred, y []int, v []float64) int {

	for *lo != *hi {

		j := cols[*lo]
		*lo++
		i := y[j]
		mind := d[j]
		h := cost[i][j] - v[j] - mind

		for k := *hi; k < n; k++ {
			j = cols[k]
			credIJ := cost[i][j] - v[j] - h

			if credIJ < d[j] {
				d[j] = credIJ
				pred[j] = i

				if credIJ == mind {
					if y[j] < 0 {
						return j
					}

					cols[k] = cols[*hi]
					cols[*hi] = j
					(*hi)++
				}
			}
		}
	}

	return -1
}

// findPathDense performs a single iteration of modified Dijkstra shortest path
// algorithm as explained in the JV paper.  This is a dense matrix version.
func findPathDense(n int, cost [][]float64, startI int, y []int, v []float64,
	pred []int) int {

	lo := 0
	hi := 0
	finalJ := -1
	nReady := 0
	cols := make([]int, n)
	d := make([]float64, n)

	for i := 0; i < n; i++ {
		cols[i] = i
		pred[i] = startI
		d[i] = cost[startI][i] - v[i]
	}

	for finalJ == -1 {
		// No columns left on the SCAN list
		if lo == hi {
			nReady = lo
			hi = findDense(n, lo, d, cols, y)

			for k := lo; k < hi; k++ {
				j := cols[k]

				if y[j] < 0 {
					finalJ = j
				}
			}
		}

		if finalJ == -1 {
			finalJ = scanDense(n, cost, &lo, &hi, d, cols, pred, y, v)
		}
	}

	mind := d[cols[lo]]

	for k := 0; k < nReady; k++ {
		j := cols[k]
		v[j] += d[j] - mind
	}

	return finalJ
}

// caDense performs augmenting for a dense cost matrix
func caDense(n int, cost [][]float64, nFreeRows int, freeRows,
	x, y []int, v []float64) error {

	pred := make([]int, n)

	for _, freeI := range freeRows[:nFreeRows] {

		i := -1
		k := 0

		j := findPathDense(n, cost, freeI, y, v, pred)

		if j < 0 {
			return errors.New("augmenting path not found")
		}

		if j >= n {
			return errors.New("augmenting path column out of range")
		}

		for i != freeI {

			i = pred[j]
			y[j] = i
			j, x[i] = x[i], j
			k++

			if k >= n {
				return errors.New("augmenting path longer than matrix")
			}
		}
	}

	return nil
}
