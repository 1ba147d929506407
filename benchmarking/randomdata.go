package benchmarking

import (
	"math"
	"math/rand"

	"github.com/nathanhack/qhamming/matrix"
	mat2 "gonum.org/v1/gonum/mat"
)

// RandomMessage creates a random message over Z/qZ of length len.
func RandomMessage(q matrix.Value, len int) *matrix.Matrix {
	message := matrix.New(len, 1)
	for i := 0; i < len; i++ {
		message.Set(i, 0, matrix.Value(rand.Intn(int(q))))
	}
	return message
}

// RandomSymbolErrors adds a random non-zero error to min(count,len(codeword)) distinct symbols.
func RandomSymbolErrors(codeword *matrix.Matrix, q matrix.Value, count int) *matrix.Matrix {
	output := codeword.Copy()
	n := codeword.Rows()

	errs := make(map[int]bool)
	for len(errs) < count && len(errs) < n {
		errs[rand.Intn(n)] = true
	}

	for i := range errs {
		v := matrix.Value(rand.Intn(int(q-1))) + 1
		output.Set(i, 0, (output.At(i, 0)+v)%q)
	}
	return output
}

// RandomSymmetricChannel replaces each symbol, with probability p, by one of the
// other q-1 symbols chosen uniformly.
func RandomSymmetricChannel(codeword *matrix.Matrix, q matrix.Value, p float64) *matrix.Matrix {
	output := codeword.Copy()
	for i := 0; i < codeword.Rows(); i++ {
		if rand.Float64() < p {
			v := matrix.Value(rand.Intn(int(q-1))) + 1
			output.Set(i, 0, (output.At(i, 0)+v)%q)
		}
	}
	return output
}

// RandomNoiseBPSK creates a randomizes version of the bpsk vector using the E_b/N_0 passed in
func RandomNoiseBPSK(bpsk mat2.Vector, E_bPerN_0 float64) mat2.Vector {
	//using  σ^2 = N_0/2 and E_b=1
	// we get  σ = sqrt(1/(2*E_bPerN_0))
	σ := math.Sqrt(1 / (2 * E_bPerN_0))
	result := mat2.NewVecDense(bpsk.Len(), nil)
	for i := 0; i < bpsk.Len(); i++ {
		result.SetVec(i, rand.NormFloat64()*σ)
	}
	result.AddVec(result, bpsk)
	return result
}
