package tracker

import "sort"

// Assignment is the result of associating predicted track boxes with
// detection boxes.  Every track index and every detection index appears in
// exactly one of Matches or its unmatched list.
type Assignment struct {
	// Matches holds [trackIdx, detectionIdx] pairs sorted by track index
	Matches [][2]int
	// UnmatchedTracks holds track indices without an accepted match
	UnmatchedTracks []int
	// UnmatchedDetections holds detection indices without an accepted match
	UnmatchedDetections []int
}

// Associate matches predicted track boxes (rows) against detection boxes
// (columns) by IoU.  When thresholding the IoU matrix already gives an
// unambiguous one-to-one pairing it is used directly, otherwise the solver
// computes the assignment maximising total IoU.  Pairs with an IoU below
// threshold are rejected.  A solver error is returned alongside an
// Assignment where nothing is matched, so callers may carry on.
func Associate(tracks, dets []Rect, threshold float64, solver Solver) (Assignment, error) {

	ious := IOUMatrix(tracks, dets)

	if len(ious) == 0 {
		return unmatchedAll(len(tracks), len(dets)), nil
	}

	candidates, ok := uniquePairs(ious, threshold)

	if !ok {
		var err error
		candidates, err = solve(ious, solver)

		if err != nil {
			return unmatchedAll(len(tracks), len(dets)), err
		}
	}

	return gate(candidates, ious, threshold), nil
}

// uniquePairs returns the cells above threshold if no row and no column has
// more than one of them.  With no cell above threshold it reports false and
// the solver decides, as a pair exactly at threshold is still accepted.
func uniquePairs(ious [][]float64, threshold float64) ([][2]int, bool) {

	nCols := len(ious[0])
	colCount := make([]int, nCols)
	var pairs [][2]int

	for i, row := range ious {
		rowCount := 0

		for j, v := range row {
			if v > threshold {
				rowCount++
				colCount[j]++

				if rowCount > 1 || colCount[j] > 1 {
					return nil, false
				}

				pairs = append(pairs, [2]int{i, j})
			}
		}
	}

	return pairs, len(pairs) > 0
}

// solve runs the solver on the IoU distance matrix (1 - IoU)
func solve(ious [][]float64, solver Solver) ([][2]int, error) {

	if solver == nil {
		solver = NewLAPJV()
	}

	cost := make([][]float64, len(ious))

	for i, row := range ious {
		cost[i] = make([]float64, len(row))

		for j, v := range row {
			cost[i][j] = 1 - v
		}
	}

	rowsol, err := solver.Solve(cost)

	if err != nil {
		return nil, err
	}

	var pairs [][2]int

	for i, j := range rowsol {
		if j >= 0 {
			pairs = append(pairs, [2]int{i, j})
		}
	}

	return pairs, nil
}

// gate drops candidate pairs whose IoU is below threshold and collects the
// unmatched indices on both sides
func gate(candidates [][2]int, ious [][]float64, threshold float64) Assignment {

	nTracks := len(ious)
	nDets := len(ious[0])

	trackMatched := make([]bool, nTracks)
	detMatched := make([]bool, nDets)

	var res Assignment

	for _, c := range candidates {
		t, d := c[0], c[1]

		if t < 0 || t >= nTracks || d < 0 || d >= nDets {
			continue
		}

		if trackMatched[t] || detMatched[d] {
			continue
		}

		if ious[t][d] < threshold {
			continue
		}

		trackMatched[t] = true
		detMatched[d] = true
		res.Matches = append(res.Matches, [2]int{t, d})
	}

	sort.Slice(res.Matches, func(i, j int) bool {
		return res.Matches[i][0] < res.Matches[j][0]
	})

	for t, matched := range trackMatched {
		if !matched {
			res.UnmatchedTracks = append(res.UnmatchedTracks, t)
		}
	}

	for d, matched := range detMatched {
		if !matched {
			res.UnmatchedDetections = append(res.UnmatchedDetections, d)
		}
	}

	return res
}

// unmatchedAll returns an Assignment with every index unmatched
func unmatchedAll(nTracks, nDets int) Assignment {

	var res Assignment

	for i := 0; i < nTracks; i++ {
		res.UnmatchedTracks = append(res.UnmatchedTracks, i)
	}

	for i := 0; i < nDets; i++ {
		res.UnmatchedDetections = append(res.UnmatchedDetections, i)
	}

	return res
}
