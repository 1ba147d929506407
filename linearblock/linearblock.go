package linearblock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nathanhack/qhamming/coder"
	"github.com/nathanhack/qhamming/linearblock/internal"
	"github.com/nathanhack/qhamming/matrix"
)

var ErrInvalidCode = errors.New("invalid linear block code")

// LinearBlock contains the matrices defining a linear block code over Z/qZ.
// Codewords and messages are column vectors.
type LinearBlock struct {
	AlphabetSize matrix.Value
	Generator    *matrix.Matrix // codeword length x message length
	Checker      *matrix.Matrix // parity symbols x codeword length
	Receiver     *matrix.Matrix // message length x codeword length
}

// NewFromChecker creates a systematic generator and receiver for the parity matrix H over GF(q), q prime.
func NewFromChecker(ctx context.Context, q matrix.Value, H *matrix.Matrix, threads int) (*LinearBlock, error) {
	G, R, err := internal.SystematicFromH(ctx, H, q, threads)
	if err != nil {
		return nil, fmt.Errorf("unable to create generator for H matrix: %w", err)
	}

	checker := H.Copy()
	checker.Mod(q)
	return &LinearBlock{
		AlphabetSize: q,
		Generator:    G,
		Checker:      checker,
		Receiver:     R,
	}, nil
}

// Coder builds the coder (and its error table) for this code
func (l *LinearBlock) Coder(opts ...coder.Option) *coder.Coder {
	return coder.New(l.AlphabetSize, l.Generator, l.Checker, l.Receiver, opts...)
}

func (l *LinearBlock) MessageLength() int {
	return l.Generator.Cols()
}
func (l *LinearBlock) ParitySymbols() int {
	return l.Checker.Rows()
}
func (l *LinearBlock) CodewordLength() int {
	return l.Generator.Rows()
}
func (l *LinearBlock) CodeRate() float64 {
	return float64(l.MessageLength()) / float64(l.CodewordLength())
}

// Validate tests the shapes and that Checker*Generator == 0 and Receiver*Generator == I (mod q)
func (l *LinearBlock) Validate() error {
	if l.AlphabetSize < 2 {
		return fmt.Errorf("%w: alphabet size %v < 2", ErrInvalidCode, l.AlphabetSize)
	}
	if l.Generator == nil || l.Checker == nil || l.Receiver == nil {
		return fmt.Errorf("%w: generator, checker and receiver are required", ErrInvalidCode)
	}

	n, k := l.Generator.Dims()
	if l.Checker.Cols() != n {
		return fmt.Errorf("%w: checker has %v columns but codeword length is %v", ErrInvalidCode, l.Checker.Cols(), n)
	}
	if rows, cols := l.Receiver.Dims(); rows != k || cols != n {
		return fmt.Errorf("%w: receiver shape (%v, %v) required but found (%v, %v)", ErrInvalidCode, k, n, rows, cols)
	}

	var cg matrix.Matrix
	if err := matrix.Multiply(l.Checker, l.Generator, &cg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	cg.Mod(l.AlphabetSize)
	if !cg.IsZero() {
		return fmt.Errorf("%w: checker*generator != 0", ErrInvalidCode)
	}

	var rg matrix.Matrix
	if err := matrix.Multiply(l.Receiver, l.Generator, &rg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	rg.Mod(l.AlphabetSize)
	if !rg.Equals(matrix.Identity(k)) {
		return fmt.Errorf("%w: receiver*generator != I", ErrInvalidCode)
	}
	return nil
}

func (l *LinearBlock) String() string {
	buf := strings.Builder{}
	buf.WriteString(fmt.Sprintf("{\nq: %v\nGenerator:\n", l.AlphabetSize))
	buf.WriteString(l.Generator.String())
	buf.WriteString("Checker:\n")
	buf.WriteString(l.Checker.String())
	buf.WriteString("Receiver:\n")
	buf.WriteString(l.Receiver.String())
	buf.WriteString("}\n")
	return buf.String()
}
