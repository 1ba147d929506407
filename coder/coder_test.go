package coder

import (
	"bytes"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/nathanhack/qhamming/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binary (15,11) hamming code
func hamming15() *Coder {
	generator := matrix.New(15, 11,
		1, 1, 0, 1, 1, 0, 1, 0, 1, 0, 1,
		1, 0, 1, 1, 0, 1, 1, 0, 0, 1, 1,
		1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 1, 1, 1, 0, 0, 0, 1, 1, 1, 1,
		0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1,
		0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
	)
	checker := matrix.New(4, 15,
		1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1,
		0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1,
		0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 1,
		0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1,
	)
	receiver := matrix.New(11, 15,
		0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
	)
	return New(2, generator, checker, receiver)
}

// ternary (4,2) hamming code
func hamming4Ternary() *Coder {
	generator := matrix.New(4, 2,
		1, 0,
		0, 1,
		2, 2,
		2, 1,
	)
	checker := matrix.New(2, 4,
		1, 1, 1, 0,
		1, 2, 0, 1,
	)
	receiver := matrix.New(2, 4,
		1, 0, 0, 0,
		0, 1, 0, 0,
	)
	return New(3, generator, checker, receiver)
}

func messageFromInt(x, length int, q matrix.Value) *matrix.Matrix {
	m := matrix.New(length, 1)
	for i := 0; i < length; i++ {
		m.Set(i, 0, matrix.Value(x)%q)
		x /= int(q)
	}
	return m
}

func TestEncode(t *testing.T) {
	c := hamming15()
	message := matrix.Vec(1, 0, 0, 1, 0, 0, 1, 0, 1, 1, 0)

	codeword, err := c.Encode(message)
	require.NoError(t, err)

	expected := matrix.Vec(0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0)
	assert.True(t, expected.Equals(codeword), "expected \n%v\n but found \n%v\n", expected, codeword)
}

func TestDecode(t *testing.T) {
	c := hamming15()
	message := matrix.Vec(1, 0, 0, 1, 0, 0, 1, 0, 1, 1, 0)

	codeword, err := c.Encode(message)
	require.NoError(t, err)

	decoded, err := c.Decode(codeword)
	require.NoError(t, err)
	assert.True(t, message.Equals(decoded), "expected \n%v\n but found \n%v\n", message, decoded)
}

func TestDecodeOneErrorData(t *testing.T) {
	c := hamming15()
	message := matrix.Vec(1, 0, 0, 1, 0, 0, 1, 0, 1, 1, 0)

	codeword, err := c.Encode(message)
	require.NoError(t, err)

	received := codeword.Copy()
	received.Set(0, 0, 1)

	corrected, err := c.Correct(received)
	require.NoError(t, err)
	assert.True(t, codeword.Equals(corrected), "expected \n%v\n but found \n%v\n", codeword, corrected)

	decoded, err := c.Decode(corrected)
	require.NoError(t, err)
	assert.True(t, message.Equals(decoded))
}

func TestSingleErrorCorrection(t *testing.T) {
	tests := []struct {
		coder    *Coder
		messages int
	}{
		{hamming15(), 1 << 11},
		{hamming4Ternary(), 9},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			c := test.coder
			q := c.AlphabetSize()
			for x := 0; x < test.messages; x++ {
				message := messageFromInt(x, c.MessageLength(), q)
				codeword, err := c.Encode(message)
				require.NoError(t, err)

				corrected, err := c.Correct(codeword)
				require.NoError(t, err)
				require.True(t, codeword.Equals(corrected), "clean codeword changed by Correct")

				for p := 0; p < c.CodewordLength(); p++ {
					for v := matrix.Value(1); v < q; v++ {
						received := codeword.Copy()
						received.Set(p, 0, (received.At(p, 0)+v)%q)

						detected, err := c.Detect(received)
						require.NoError(t, err)
						require.True(t, detected)

						corrected, err := c.Correct(received)
						require.NoError(t, err)
						require.True(t, codeword.Equals(corrected), "message %v error %v at %v", x, v, p)

						decoded, err := c.Decode(corrected)
						require.NoError(t, err)
						require.True(t, message.Equals(decoded))
					}
				}
			}
		})
	}
}

func TestTableSize(t *testing.T) {
	assert.Equal(t, 15, hamming15().TableSize())
	assert.Equal(t, 8, hamming4Ternary().TableSize())
}

func TestTableDeterministic(t *testing.T) {
	a := hamming4Ternary()
	b := hamming4Ternary()
	assert.Equal(t, a.table, b.table)
}

func TestCollisionFirstWins(t *testing.T) {
	// columns 0 and 1 of the checker are equal
	generator := matrix.New(3, 1)
	checker := matrix.New(2, 3,
		1, 1, 0,
		0, 0, 1,
	)
	receiver := matrix.New(1, 3)
	c := New(2, generator, checker, receiver)

	assert.Equal(t, 2, c.TableSize())

	e, has := c.table.lookup(matrix.Vec(1, 0))
	require.True(t, has)
	assert.Equal(t, Error{Position: 0, Value: 1}, e)

	corrected, err := c.Correct(matrix.Vec(0, 1, 0))
	require.NoError(t, err)
	assert.True(t, matrix.Vec(1, 1, 0).Equals(corrected))
}

func TestCorrectUncorrectable(t *testing.T) {
	generator := matrix.New(2, 1)
	checker := matrix.Identity(2)
	receiver := matrix.New(1, 2)
	c := New(2, generator, checker, receiver)

	// (1,1) is outside the table, the checker only knows weight one syndromes
	received := matrix.Vec(1, 1)

	_, err := c.CorrectChecked(received)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUncorrectable))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*UncorrectableError)
		assert.True(t, ok, "expected *UncorrectableError but found %T", r)
	}()
	c.Correct(received)
}

func TestDimensionMismatch(t *testing.T) {
	c := hamming15()
	wrong := matrix.Vec(1, 0, 1)

	_, err := c.Encode(wrong)
	assert.True(t, errors.Is(err, matrix.ErrDimensionMismatch))
	_, err = c.Correct(wrong)
	assert.True(t, errors.Is(err, matrix.ErrDimensionMismatch))
	_, err = c.Decode(wrong)
	assert.True(t, errors.Is(err, matrix.ErrDimensionMismatch))
}

func TestNewCopiesMatrices(t *testing.T) {
	generator := matrix.New(4, 2, 1, 0, 0, 1, 2, 2, 2, 1)
	checker := matrix.New(2, 4, 1, 1, 1, 0, 1, 2, 0, 1)
	receiver := matrix.New(2, 4, 1, 0, 0, 0, 0, 1, 0, 0)
	c := New(3, generator, checker, receiver)

	generator.Set(0, 0, 0)
	checker.Set(0, 0, 0)
	receiver.Set(0, 0, 0)

	codeword, err := c.Encode(matrix.Vec(1, 1))
	require.NoError(t, err)
	assert.True(t, matrix.Vec(1, 1, 1, 0).Equals(codeword))
}

func TestDiagnostics(t *testing.T) {
	buf := bytes.Buffer{}
	receiver := matrix.New(2, 4, 1, 0, 0, 0, 0, 1, 0, 0)
	c := New(3,
		matrix.New(4, 2, 1, 0, 0, 1, 2, 2, 2, 1),
		matrix.New(2, 4, 1, 1, 1, 0, 1, 2, 0, 1),
		receiver,
		WithDiagnostics(&buf),
	)

	_, err := c.Decode(matrix.Vec(1, 2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, receiver.String(), buf.String())
}

func TestConcurrentCorrect(t *testing.T) {
	c := hamming15()
	wg := sync.WaitGroup{}
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for x := g; x < 1<<11; x += 8 {
				message := messageFromInt(x, 11, 2)
				codeword, err := c.Encode(message)
				if err != nil {
					t.Error(err)
					return
				}
				received := codeword.Copy()
				p := x % 15
				received.Set(p, 0, 1-received.At(p, 0))
				corrected, err := c.Correct(received)
				if err != nil || !corrected.Equals(codeword) {
					t.Errorf("unable to correct message %v", x)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
