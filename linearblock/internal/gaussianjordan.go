package internal

import (
	"context"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/qhamming/matrix"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

func swapColOrder(i, j int, colIndices []int) {
	x := len(colIndices)
	if 0 <= i && i < x && 0 <= j && j < x {
		colIndices[i], colIndices[j] = colIndices[j], colIndices[i]
	}
}

func swapRows(H *matrix.Matrix, i, j int) {
	if i == j {
		return
	}
	_, cols := H.Dims()
	for c := 0; c < cols; c++ {
		a, b := H.At(i, c), H.At(j, c)
		H.Set(i, c, b)
		H.Set(j, c, a)
	}
}

func swapColumns(H *matrix.Matrix, i, j int) {
	if i == j {
		return
	}
	rows, _ := H.Dims()
	for r := 0; r < rows; r++ {
		a, b := H.At(r, i), H.At(r, j)
		H.Set(r, i, b)
		H.Set(r, j, a)
	}
}

// findPivotCol returns a column > forRow with a non-zero entry at or below forRow, or -1.
func findPivotCol(H *matrix.Matrix, forRow int) int {
	rows, cols := H.Dims()

	for r := forRow; r < rows; r++ {
		for c := cols - 1; c > forRow; c-- {
			if H.At(r, c) != 0 {
				return c
			}
		}
	}
	return -1
}

func findPivotRow(H *matrix.Matrix, col int) int {
	rows, _ := H.Dims()
	for r := col; r < rows; r++ {
		if H.At(r, col) != 0 {
			return r
		}
	}
	return -1
}

// GaussJordan brings H into reduced row echelon form [I, *] over GF(q), q prime,
// swapping columns when needed. It returns the reduced copy and the column swap
// history (history[c] is the original index of column c), or nil when the rows of H
// are not linearly independent or ctx is done.
func GaussJordan(ctx context.Context, H *matrix.Matrix, q matrix.Value, threads int) (*matrix.Matrix, []int) {
	rows, cols := H.Dims()
	result := H.Copy()
	result.Mod(q)
	columnSwapHistory := make([]int, cols)

	//initialize the columnIndices
	for c := 0; c < cols; c++ {
		columnSwapHistory[c] = c
	}

	if cols < rows {
		//null space must equal the rank
		return nil, nil
	}

	//to fail fast we first do the lower triangle then do the upper
	if lowerTriangular(ctx, rows, result, q, columnSwapHistory, threads, logrus.GetLevel() == logrus.DebugLevel) != rows {
		logrus.Debugf("All rows not linearly independent")
		return nil, nil
	}

	if !upperTriangular(ctx, rows, result, q, threads, logrus.GetLevel() == logrus.DebugLevel) {
		return nil, nil
	}

	logrus.Debugf("Gaussian-Jordan Elimination complete")
	return result, columnSwapHistory
}

// CalculateRank returns the rank of H over GF(q), or -1 when ctx is done.
func CalculateRank(ctx context.Context, H *matrix.Matrix, q matrix.Value, threads int) int {
	if H == nil {
		return -1
	}

	tmp := H.Copy()
	tmp.Mod(q)
	rows, cols := H.Dims()

	min := rows
	if cols < rows {
		min = cols
	}
	columnSwapHistory := make([]int, cols)

	return lowerTriangular(ctx, min, tmp, q, columnSwapHistory, threads, false)
}

func newBar(rows int, showProgressBar bool) *pb.ProgressBar {
	bar := pb.Full.New(rows)
	bar.Set("prefix", "Processing Row ")
	bar.SetWriter(os.Stdout)
	if showProgressBar {
		bar.Start()
	}
	return bar
}

func finishBar(bar *pb.ProgressBar) {
	bar.SetTemplateString(`{{string . "prefix"}}{{counters . }}{{string . "suffix"}}`)
	bar.Set("suffix", " Done")
	bar.Finish()
}

func lowerTriangular(ctx context.Context, rows int, H *matrix.Matrix, q matrix.Value, columnSwapHistory []int, threads int, showProgressBar bool) int {
	logrus.Debugf("Row echelon")
	bar := newBar(rows, showProgressBar)

	for r := 0; r < rows; r++ {
		select {
		case <-ctx.Done():
			return -1
		default:
		}
		bar.Increment()

		pivot := findPivotRow(H, r)
		if pivot == -1 {
			// nothing in this column so swap in a column that has something
			colPivot := findPivotCol(H, r)
			if colPivot == -1 {
				//we get here when there aren't any more non zero rows
				return r
			}
			swapColumns(H, r, colPivot)
			swapColOrder(r, colPivot, columnSwapHistory)
			pivot = findPivotRow(H, r)
		}
		swapRows(H, r, pivot)

		// scale so the pivot is 1
		inv := Inverse(H.At(r, r), q)
		scaleRow(H, r, inv, q)

		eliminate(ctx, r, H, q, threads, func(row int) bool { return row > r })
	}

	finishBar(bar)
	return rows
}

func upperTriangular(ctx context.Context, rows int, H *matrix.Matrix, q matrix.Value, threads int, showProgressBar bool) bool {
	logrus.Debugf("Reduced row echelon")
	bar := newBar(rows, showProgressBar)

	for r := 0; r < rows; r++ {
		bar.Increment()
		select {
		case <-ctx.Done():
			return false
		default:
		}
		eliminate(ctx, r, H, q, threads, func(row int) bool { return row < r })
	}
	finishBar(bar)
	return true
}

func scaleRow(H *matrix.Matrix, r int, factor, q matrix.Value) {
	_, cols := H.Dims()
	for c := 0; c < cols; c++ {
		H.Set(r, c, H.At(r, c)*factor%q)
	}
}

// eliminate subtracts a multiple of row pivotRow from every selected row with a
// non-zero entry in column pivotRow. Every worker writes only its own row.
func eliminate(ctx context.Context, pivotRow int, H *matrix.Matrix, q matrix.Value, threads int, selected func(row int) bool) {
	rows, cols := H.Dims()

	targets := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		if r != pivotRow && selected(r) && H.At(r, pivotRow) != 0 {
			targets = append(targets, r)
		}
	}
	if len(targets) == 0 {
		return
	}

	pool := threadpool.NewFixedSize(ctx, threads, len(targets))
	for _, target := range targets {
		t := target
		pool.Add(func() {
			factor := q - H.At(t, pivotRow)
			for c := 0; c < cols; c++ {
				H.Set(t, c, (H.At(t, c)+factor*H.At(pivotRow, c))%q)
			}
		})
	}
	pool.Wait()
}
