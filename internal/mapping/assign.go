package mapping

import (
	"errors"
	"fmt"
	"math"
)

// AssignmentInfeasibleError reports a non-finite overlap entry. Solve refuses
// to approximate around it.
type AssignmentInfeasibleError struct {
	Row   int
	Col   int
	Value float64
}

func (e *AssignmentInfeasibleError) Error() string {
	return fmt.Sprintf("assignment infeasible: overlap[%d][%d] = %v is not finite", e.Row, e.Col, e.Value)
}

// ErrorKind classifies the error for callers that map failures to outcomes.
func (e *AssignmentInfeasibleError) ErrorKind() string { return "validation" }

// ErrRaggedMatrix is returned when rows have different lengths.
var ErrRaggedMatrix = errors.New("overlap matrix rows differ in length")

// Solve returns, for every row, the column assigned to it (or -1) so that the
// summed weight is maximal. Rows and columns may differ in number; the
// surplus side stays unassigned. Weights are overlap durations and are
// expected to be non-negative.
//
// Among equally good assignments Solve picks the one that gives the lowest
// row its lowest feasible column, then the next row, and so on, so identical
// input always yields identical output. The tie-break re-solves the
// remaining rows once per candidate column, roughly O(R·C·n³) for R rows, C
// columns and n = max(R, C). Label counts per recording are small enough for
// that to stay cheap.
func Solve(weights [][]float64) ([]int, error) {
	rows := len(weights)
	if rows == 0 {
		return nil, nil
	}
	cols := len(weights[0])
	for i, row := range weights {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row 0 has %d columns, row %d has %d", ErrRaggedMatrix, cols, i, len(row))
		}
		for j, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, &AssignmentInfeasibleError{Row: i, Col: j, Value: w}
			}
		}
	}
	assignment := make([]int, rows)
	for i := range assignment {
		assignment[i] = -1
	}
	if cols == 0 {
		return assignment, nil
	}

	free := make([]int, cols)
	for j := range free {
		free[j] = j
	}
	best := optimum(weights, 0, free)
	tolerance := 1e-9 * math.Max(1, math.Abs(best))
	var fixed float64
	for i := range rows {
		candidates := append(append([]int(nil), free...), -1)
		for _, c := range candidates {
			gain := 0.0
			remaining := free
			if c >= 0 {
				gain = weights[i][c]
				remaining = without(free, c)
			}
			if fixed+gain+optimum(weights, i+1, remaining) >= best-tolerance {
				assignment[i] = c
				fixed += gain
				free = remaining
				break
			}
		}
	}
	return assignment, nil
}

// optimum is the best total weight achievable by rows [from, len) over the
// given columns.
func optimum(weights [][]float64, from int, cols []int) float64 {
	n, m := len(weights)-from, len(cols)
	if n <= 0 || m == 0 {
		return 0
	}
	maxWeight := 0.0
	for i := from; i < len(weights); i++ {
		for _, j := range cols {
			maxWeight = math.Max(maxWeight, weights[i][j])
		}
	}
	// hungarian needs rows <= cols; transpose otherwise.
	transposed := n > m
	if transposed {
		n, m = m, n
	}
	cost := make([][]float64, n)
	for a := range n {
		cost[a] = make([]float64, m)
		for b := range m {
			var w float64
			if transposed {
				w = weights[from+b][cols[a]]
			} else {
				w = weights[from+a][cols[b]]
			}
			cost[a][b] = maxWeight - w
		}
	}
	var total float64
	for a, b := range hungarian(cost) {
		if b < 0 {
			continue
		}
		total += maxWeight - cost[a][b]
	}
	return total
}

func without(cols []int, c int) []int {
	out := make([]int, 0, len(cols))
	for _, j := range cols {
		if j != c {
			out = append(out, j)
		}
	}
	return out
}

// hungarian solves the minimum-cost assignment for an n×m cost matrix with
// n <= m using the potentials formulation of Kuhn–Munkres. It returns the
// column chosen for each row.
func hungarian(cost [][]float64) []int {
	n, m := len(cost), len(cost[0])
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	owner := make([]int, m+1) // owner[j] is the 1-based row holding column j
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		owner[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		used := make([]bool, m+1)
		for {
			used[j0] = true
			i0 := owner[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[owner[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if owner[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			owner[j0] = owner[j1]
			j0 = j1
		}
	}

	colOf := make([]int, n)
	for i := range colOf {
		colOf[i] = -1
	}
	for j := 1; j <= m; j++ {
		if owner[j] != 0 {
			colOf[owner[j]-1] = j - 1
		}
	}
	return colOf
}
