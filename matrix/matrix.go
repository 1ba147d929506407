package matrix

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	mat "github.com/nathanhack/sparsemat"
	"golang.org/x/exp/slices"
)

// Value is a ring element of Z/qZ. Between reductions it may hold an unreduced sum.
type Value uint32

var ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

// Matrix is a dense row-major matrix of Values.
// The zero value is a 0x0 matrix.
type Matrix struct {
	rows   int
	cols   int
	values []Value
}

// New creates a rows x cols matrix. With no values the matrix is zero filled,
// otherwise exactly rows*cols values in row-major order are required.
func New(rows, cols int, values ...Value) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix shape (%v, %v) must be non-negative", rows, cols))
	}
	m := &Matrix{
		rows:   rows,
		cols:   cols,
		values: make([]Value, rows*cols),
	}
	if len(values) == 0 {
		return m
	}
	if len(values) != rows*cols {
		panic(fmt.Sprintf("matrix of shape (%v, %v) requires %v values but found %v", rows, cols, rows*cols, len(values)))
	}
	copy(m.values, values)
	return m
}

// Vec creates a column vector
func Vec(values ...Value) *Matrix {
	return New(len(values), 1, values...)
}

func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.values[i*n+i] = 1
	}
	return m
}

// FromSparse converts a sparsemat matrix (GF(2) in practice) into a dense Matrix.
func FromSparse(s mat.SparseMat) *Matrix {
	rows, cols := s.Dims()
	m := New(rows, cols)
	for r := 0; r < rows; r++ {
		row := s.Row(r)
		for _, c := range row.NonzeroArray() {
			m.values[r*cols+c] = Value(row.At(c))
		}
	}
	return m
}

func (m *Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

func (m *Matrix) Rows() int {
	return m.rows
}

func (m *Matrix) Cols() int {
	return m.cols
}

func (m *Matrix) checkIndex(r, c int) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("index (%v, %v) out of range for matrix of shape (%v, %v)", r, c, m.rows, m.cols))
	}
}

func (m *Matrix) At(r, c int) Value {
	m.checkIndex(r, c)
	return m.values[r*m.cols+c]
}

func (m *Matrix) Set(r, c int, v Value) {
	m.checkIndex(r, c)
	m.values[r*m.cols+c] = v
}

// Elements returns a copy of the values in row-major order.
func (m *Matrix) Elements() []Value {
	return slices.Clone(m.values)
}

// Copy returns an independent deep copy of m.
func (m *Matrix) Copy() *Matrix {
	return &Matrix{
		rows:   m.rows,
		cols:   m.cols,
		values: slices.Clone(m.values),
	}
}

func (m *Matrix) IsZero() bool {
	return !slices.ContainsFunc(m.values, func(v Value) bool { return v != 0 })
}

// Equals is true when both matrices have the same shape and elements.
func (m *Matrix) Equals(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.rows == o.rows && m.cols == o.cols && slices.Equal(m.values, o.values)
}

// Hash is the exclusive-or of the per-element hashes. Equal matrices hash equal.
func (m *Matrix) Hash() uint64 {
	var h uint64
	buf := make([]byte, 4)
	for _, v := range m.values {
		binary.LittleEndian.PutUint32(buf, uint32(v))
		h ^= xxhash.Sum64(buf)
	}
	return h
}

// Multiply sets result = a*b. On a shape mismatch result is left untouched.
// result is only reallocated when its shape differs from (a.rows, b.cols).
// No modular reduction is done here, see Mod.
func Multiply(a, b, result *Matrix) error {
	if a.cols != b.rows {
		return fmt.Errorf("%w: (%v, %v) * (%v, %v)", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	rows, cols, inner := a.rows, b.cols, a.cols

	//a or b may be the same matrix as result
	av, bv := a.values, b.values
	if result == a || result == b {
		av, bv = slices.Clone(av), slices.Clone(bv)
	}

	if result.rows != rows || result.cols != cols {
		*result = Matrix{rows: rows, cols: cols, values: make([]Value, rows*cols)}
	}

	for r := 0; r < rows; r++ {
		offset := r * cols
		for c := 0; c < cols; c++ {
			var sum Value
			for i := 0; i < inner; i++ {
				sum += av[r*inner+i] * bv[i*cols+c]
			}
			result.values[offset+c] = sum
		}
	}
	return nil
}

// Mod reduces every element modulo n in place. n must be > 0.
func (m *Matrix) Mod(n Value) {
	for i := range m.values {
		m.values[i] %= n
	}
}

// Print writes the matrix one row per line with every element followed by a tab.
func (m *Matrix) Print(w io.Writer) error {
	for r := 0; r < m.rows; r++ {
		buf := strings.Builder{}
		for _, v := range m.values[r*m.cols : (r+1)*m.cols] {
			buf.WriteString(fmt.Sprintf("%v\t", v))
		}
		buf.WriteString("\n")
		if _, err := io.WriteString(w, buf.String()); err != nil {
			return err
		}
	}
	return nil
}

func (m *Matrix) String() string {
	buf := strings.Builder{}
	m.Print(&buf)
	return buf.String()
}

// For JSON marshalling
type matrix struct {
	Rows   int
	Cols   int
	Values []Value
}

func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(matrix{
		Rows:   m.rows,
		Cols:   m.cols,
		Values: m.values,
	})
}

func (m *Matrix) UnmarshalJSON(bytes []byte) error {
	var tmp matrix
	err := json.Unmarshal(bytes, &tmp)
	if err != nil {
		return err
	}
	if tmp.Rows < 0 || tmp.Cols < 0 || len(tmp.Values) != tmp.Rows*tmp.Cols {
		return fmt.Errorf("matrix of shape (%v, %v) requires %v values but found %v", tmp.Rows, tmp.Cols, tmp.Rows*tmp.Cols, len(tmp.Values))
	}
	m.rows = tmp.Rows
	m.cols = tmp.Cols
	m.values = tmp.Values
	if m.values == nil {
		m.values = []Value{}
	}
	return nil
}
