package hamming

import (
	"context"
	"fmt"

	"github.com/nathanhack/qhamming/linearblock"
	"github.com/nathanhack/qhamming/linearblock/internal"
	"github.com/nathanhack/qhamming/matrix"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

// NewBinary creates the binary hamming code with paritySymbols number of parity symbols.
// Hamming codes can detect up to two-bit errors or correct one-bit errors without
// detection of uncorrected errors.
func NewBinary(ctx context.Context, paritySymbols int, threads int) (*linearblock.LinearBlock, error) {
	if paritySymbols < 2 {
		panic("hamming codes require >=2 parity symbols")
	}
	n := 1<<paritySymbols - 1
	H := mat.CSRMat(paritySymbols, n)

	//To make Hamming codes we make the columns the bit versions
	// of every number from 1 to and including n -> [1,n] (note they're nonzero)
	for i := 1; i <= n; i++ {
		vec := mat.CSRVec(paritySymbols)
		for j := 0; j < paritySymbols; j++ {
			if i&(1<<j) > 0 {
				vec.Set(j, 1)
			}
		}
		H.SetColumn(i-1, vec)
	}

	return linearblock.NewFromChecker(ctx, 2, matrix.FromSparse(H), threads)
}

// New creates the q-ary hamming code, q prime, with paritySymbols number of parity
// symbols. The checker's columns are every non-zero vector whose last non-zero
// entry is 1, giving a codeword length of (q^paritySymbols-1)/(q-1).
// For q == 2 the checker is the same as the one from NewBinary.
func New(ctx context.Context, q matrix.Value, paritySymbols int, threads int) (*linearblock.LinearBlock, error) {
	if paritySymbols < 2 {
		panic("hamming codes require >=2 parity symbols")
	}
	if !internal.IsPrime(q) {
		return nil, fmt.Errorf("unable to create hamming code for q=%v: %w", q, internal.ErrNotPrime)
	}

	total := 1
	for j := 0; j < paritySymbols; j++ {
		total *= int(q)
	}
	n := (total - 1) / int(q-1)
	logrus.Debugf("Creating (%v, %v) hamming code over Z/%vZ", n, n-paritySymbols, q)

	H := matrix.New(paritySymbols, n)
	col := 0
	for i := 1; i < total; i++ {
		digits := make([]matrix.Value, paritySymbols)
		x := i
		last := 0
		for j := 0; j < paritySymbols; j++ {
			digits[j] = matrix.Value(x % int(q))
			if digits[j] != 0 {
				last = j
			}
			x /= int(q)
		}
		if digits[last] != 1 {
			continue
		}
		for j, d := range digits {
			H.Set(j, col, d)
		}
		col++
	}

	return linearblock.NewFromChecker(ctx, q, H, threads)
}
