package matrix

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	mat "github.com/nathanhack/sparsemat"
	mat2 "gonum.org/v1/gonum/mat"
)

func randomMatrix(rows, cols int, max Value) *Matrix {
	m := New(rows, cols)
	for i := range m.values {
		m.values[i] = Value(rand.Intn(int(max)))
	}
	return m
}

func TestZeroValue(t *testing.T) {
	var m Matrix
	rows, cols := m.Dims()
	if rows != 0 || cols != 0 || len(m.Elements()) != 0 {
		t.Fatalf("expected empty 0x0 matrix but found (%v, %v) %v", rows, cols, m.Elements())
	}
}

func TestMultiply(t *testing.T) {
	tests := []struct {
		a, b     *Matrix
		expected *Matrix
	}{
		{
			New(2, 2, 0, 1, 2, 3),
			Identity(2),
			New(2, 2, 0, 1, 2, 3),
		},
		{
			New(2, 3, 1, 2, 3, 4, 5, 6),
			New(3, 1, 1, 1, 1),
			Vec(6, 15),
		},
		{
			New(1, 3, 1, 1, 1),
			New(3, 2, 1, 0, 1, 1, 1, 1),
			New(1, 2, 3, 2),
		},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			var actual Matrix
			err := Multiply(test.a, test.b, &actual)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if !test.expected.Equals(&actual) {
				t.Fatalf("expected \n%v\n but found \n%v\n", test.expected, &actual)
			}
		})
	}
}

func TestMultiplyDimensionMismatch(t *testing.T) {
	a := Identity(2)
	b := Identity(3)
	result := New(1, 1, 7)

	err := Multiply(a, b, result)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch but found %v", err)
	}
	if !result.Equals(New(1, 1, 7)) {
		t.Fatalf("expected result to be untouched but found \n%v\n", result)
	}
}

func TestMultiplyReusesShape(t *testing.T) {
	a := New(2, 2, 1, 2, 3, 4)
	result := New(2, 2, 9, 9, 9, 9)
	backing := &result.values[0]

	if err := Multiply(a, Identity(2), result); err != nil {
		t.Fatal(err)
	}
	if backing != &result.values[0] {
		t.Fatalf("expected correctly shaped result to be reused")
	}
	if !result.Equals(a) {
		t.Fatalf("expected \n%v\n but found \n%v\n", a, result)
	}
}

func TestMultiplyInPlace(t *testing.T) {
	a := New(2, 2, 1, 1, 0, 1)
	if err := Multiply(a, a, a); err != nil {
		t.Fatal(err)
	}
	expected := New(2, 2, 1, 2, 0, 1)
	if !expected.Equals(a) {
		t.Fatalf("expected \n%v\n but found \n%v\n", expected, a)
	}
}

func TestMultiplyMatchesGonum(t *testing.T) {
	for i := 0; i < 20; i++ {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			r, k, c := rand.Intn(6)+1, rand.Intn(6)+1, rand.Intn(6)+1
			a := randomMatrix(r, k, 10)
			b := randomMatrix(k, c, 10)

			var actual Matrix
			if err := Multiply(a, b, &actual); err != nil {
				t.Fatal(err)
			}

			expected := mat2.NewDense(r, c, nil)
			expected.Mul(toDense(a), toDense(b))
			for row := 0; row < r; row++ {
				for col := 0; col < c; col++ {
					if float64(actual.At(row, col)) != expected.At(row, col) {
						t.Fatalf("expected %v at (%v, %v) but found %v", expected.At(row, col), row, col, actual.At(row, col))
					}
				}
			}
		})
	}
}

func toDense(m *Matrix) *mat2.Dense {
	data := make([]float64, len(m.values))
	for i, v := range m.values {
		data[i] = float64(v)
	}
	return mat2.NewDense(m.rows, m.cols, data)
}

func TestMultiplyAssociativeModulo(t *testing.T) {
	q := Value(5)
	for i := 0; i < 20; i++ {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			a := randomMatrix(3, 4, q)
			b := randomMatrix(4, 2, q)
			c := randomMatrix(2, 3, q)

			var ab, abc, bc, aBC Matrix
			Multiply(a, b, &ab)
			Multiply(&ab, c, &abc)
			Multiply(b, c, &bc)
			Multiply(a, &bc, &aBC)
			abc.Mod(q)
			aBC.Mod(q)

			if !abc.Equals(&aBC) {
				t.Fatalf("expected (ab)c == a(bc) but found \n%v\n and \n%v\n", &abc, &aBC)
			}
		})
	}
}

func TestMod(t *testing.T) {
	m := New(2, 3, 0, 1, 2, 3, 4, 5)
	m.Mod(3)
	expected := New(2, 3, 0, 1, 2, 0, 1, 2)
	if !expected.Equals(m) {
		t.Fatalf("expected \n%v\n but found \n%v\n", expected, m)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	m := New(2, 2, 1, 2, 3, 4)
	c := m.Copy()
	m.Set(0, 0, 9)
	if c.At(0, 0) != 1 {
		t.Fatalf("expected copy to be unaffected but found %v", c.At(0, 0))
	}

	elements := c.Elements()
	elements[1] = 9
	if c.At(0, 1) != 2 {
		t.Fatalf("expected Elements to return a copy")
	}
}

func TestEqualsHash(t *testing.T) {
	tests := []struct {
		a, b  *Matrix
		equal bool
	}{
		{Vec(1, 0, 1), Vec(1, 0, 1), true},
		{Vec(1, 0, 1), Vec(1, 1, 1), false},
		{Vec(1, 0, 1), New(1, 3, 1, 0, 1), false},
		{New(0, 0), &Matrix{}, true},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if test.a.Equals(test.b) != test.equal {
				t.Fatalf("expected Equals == %v", test.equal)
			}
			if test.equal && test.a.Hash() != test.b.Hash() {
				t.Fatalf("expected equal matrices to hash equal")
			}
		})
	}
}

func TestPrint(t *testing.T) {
	buf := bytes.Buffer{}
	err := New(2, 2, 0, 1, 2, 3).Print(&buf)
	if err != nil {
		t.Fatal(err)
	}
	expected := "0\t1\t\n2\t3\t\n"
	if buf.String() != expected {
		t.Fatalf("expected %q but found %q", expected, buf.String())
	}
}

func TestJSON(t *testing.T) {
	m := New(2, 3, 1, 0, 1, 0, 1, 1)
	bs, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}

	var actual Matrix
	if err = json.Unmarshal(bs, &actual); err != nil {
		t.Fatal(err)
	}
	if !m.Equals(&actual) {
		t.Fatalf("expected \n%v\n but found \n%v\n", m, &actual)
	}

	err = json.Unmarshal([]byte(`{"Rows":2,"Cols":2,"Values":[1,2,3]}`), &actual)
	if err == nil {
		t.Fatalf("expected error for inconsistent values length")
	}
}

func TestFromSparse(t *testing.T) {
	s := mat.CSRMat(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1)
	expected := New(3, 7, 1, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 1)

	actual := FromSparse(s)
	if !expected.Equals(actual) {
		t.Fatalf("expected \n%v\n but found \n%v\n", expected, actual)
	}
}

func TestNewPanicsOnBadLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(2, 2, 1, 2, 3)
}
