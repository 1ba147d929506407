package internal

import (
	"context"
	"errors"

	"github.com/nathanhack/qhamming/matrix"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotPrime    = errors.New("alphabet size must be prime")
	ErrNotFullRank = errors.New("H matrix rows are not linearly independent")
)

func IsPrime(q matrix.Value) bool {
	if q < 2 {
		return false
	}
	for d := matrix.Value(2); d*d <= q; d++ {
		if q%d == 0 {
			return false
		}
	}
	return true
}

// Inverse returns the multiplicative inverse of a mod q, or 0 when there is none.
func Inverse(a, q matrix.Value) matrix.Value {
	t, newT := int64(0), int64(1)
	r, newR := int64(q), int64(a%q)
	for newR != 0 {
		quotient := r / newR
		t, newT = newT, t-quotient*newT
		r, newR = newR, r-quotient*newR
	}
	if r != 1 {
		return 0
	}
	if t < 0 {
		t += int64(q)
	}
	return matrix.Value(t)
}

// ExtractAFromH reduces H to [I, A] and returns A along with a column ordering
// that places the message columns first, i.e. H' = [A, I].
func ExtractAFromH(ctx context.Context, H *matrix.Matrix, q matrix.Value, threads int) (A *matrix.Matrix, columnOrdering []int) {
	m, N := H.Dims()

	gje, ordering := GaussJordan(ctx, H, q, threads)
	if gje == nil {
		return nil, nil
	}

	//let's check if we got a [ I, * ] format
	for r := 0; r < m; r++ {
		for c := 0; c < m; c++ {
			expected := matrix.Value(0)
			if r == c {
				expected = 1
			}
			if gje.At(r, c) != expected {
				logrus.Errorf("failed to create transform H matrix into [I,*]")
				return nil, nil
			}
		}
	}

	// first the keeping track part
	columnOrdering = make([]int, len(ordering))
	copy(columnOrdering[0:N-m], ordering[m:N])
	copy(columnOrdering[N-m:N], ordering[0:m])

	//finally extract the A
	A = matrix.New(m, N-m)
	for r := 0; r < m; r++ {
		for c := m; c < N; c++ {
			A.Set(r, c-m, gje.At(r, c))
		}
	}
	return
}

// SystematicFromH derives a generator (N x k) and receiver (k x N) for the parity
// check matrix H over GF(q). The message occupies codeword positions
// columnOrdering[0:k].
func SystematicFromH(ctx context.Context, H *matrix.Matrix, q matrix.Value, threads int) (generator, receiver *matrix.Matrix, err error) {
	if !IsPrime(q) {
		return nil, nil, ErrNotPrime
	}
	hrows, hcols := H.Dims()
	if hrows >= hcols {
		panic("H matrix shape == (rows, cols) where rows < cols required")
	}

	logrus.Debugf("Creating generator matrix from H matrix")
	A, columnOrdering := ExtractAFromH(ctx, H, q, threads)
	if A == nil {
		logrus.Debugf("Unable to create generator matrix from H")
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, ErrNotFullRank
	}

	m, N := hrows, hcols
	k := N - m

	// in the ordered frame the codeword is [y, -A*y]
	generator = matrix.New(N, k)
	receiver = matrix.New(k, N)
	for j := 0; j < k; j++ {
		generator.Set(columnOrdering[j], j, 1)
		receiver.Set(j, columnOrdering[j], 1)
	}
	for r := 0; r < m; r++ {
		for c := 0; c < k; c++ {
			generator.Set(columnOrdering[k+r], c, (q-A.At(r, c))%q)
		}
	}

	logrus.Debugf("Generator Matrix complete")
	return generator, receiver, nil
}
