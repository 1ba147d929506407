package coder

import (
	"errors"
	"fmt"
	"io"

	"github.com/nathanhack/qhamming/matrix"
	"github.com/sirupsen/logrus"
)

var ErrUncorrectable = errors.New("coder: syndrome has no single symbol correction")

// UncorrectableError is raised (as a panic by Correct) when a non-zero syndrome is
// not in the error table. Either more than one symbol is in error or the
// generator/checker pair is not a single error correcting code.
type UncorrectableError struct {
	Syndrome *matrix.Matrix
}

func (e *UncorrectableError) Error() string {
	return fmt.Sprintf("%v: %v", ErrUncorrectable, e.Syndrome.Elements())
}

func (e *UncorrectableError) Unwrap() error {
	return ErrUncorrectable
}

type Option func(c *Coder)

// WithDiagnostics makes Decode print the receiver matrix to w before decoding.
func WithDiagnostics(w io.Writer) Option {
	return func(c *Coder) {
		c.diagnostics = w
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Coder) {
		c.logger = logger
	}
}

// Coder encodes, corrects and decodes codewords of a single error correcting linear
// block code over Z/qZ. After New returns it is safe for concurrent use.
type Coder struct {
	alphabetSize matrix.Value
	generator    *matrix.Matrix // codeword length x message length
	checker      *matrix.Matrix // parity symbols x codeword length
	receiver     *matrix.Matrix // message length x codeword length
	table        *errorTable

	diagnostics io.Writer
	logger      logrus.FieldLogger
}

// New copies the three matrices and builds the syndrome table. The shapes of the
// matrices are not checked; see linearblock.LinearBlock.Validate.
func New(alphabetSize matrix.Value, generator, checker, receiver *matrix.Matrix, opts ...Option) *Coder {
	if alphabetSize < 2 {
		panic(fmt.Sprintf("alphabet size >= 2 is required but found %v", alphabetSize))
	}
	c := &Coder{
		alphabetSize: alphabetSize,
		generator:    generator.Copy(),
		checker:      checker.Copy(),
		receiver:     receiver.Copy(),
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.table = c.buildErrorTable()
	return c
}

// buildErrorTable records, for every position p and non-zero value v, the syndrome
// of a word that is v at p and zero elsewhere. The stored correction is q-v so
// that adding it cancels the error.
func (c *Coder) buildErrorTable() *errorTable {
	wordLength := c.generator.Rows()
	table := newErrorTable(wordLength * int(c.alphabetSize-1))

	word := matrix.New(wordLength, 1)
	syndrome := &matrix.Matrix{}
	for p := 0; p < wordLength; p++ {
		for v := matrix.Value(1); v < c.alphabetSize; v++ {
			word.Set(p, 0, v)
			if err := matrix.Multiply(c.checker, word, syndrome); err != nil {
				panic(fmt.Sprintf("checker and generator matrices are inconsistent: %v", err))
			}
			syndrome.Mod(c.alphabetSize)

			e := Error{Position: p, Value: c.alphabetSize - v}
			if existing, inserted := table.insertIfAbsent(syndrome, e); !inserted {
				c.logger.Debugf("syndrome %v for error at %v is already used by position %v", syndrome.Elements(), p, existing.Position)
			}
		}
		word.Set(p, 0, 0)
	}

	c.logger.Debugf("Error table built with %v entries", table.len())
	return table
}

func (c *Coder) AlphabetSize() matrix.Value {
	return c.alphabetSize
}

func (c *Coder) MessageLength() int {
	return c.generator.Cols()
}

func (c *Coder) CodewordLength() int {
	return c.generator.Rows()
}

func (c *Coder) ParitySymbols() int {
	return c.checker.Rows()
}

// TableSize is the number of distinct syndromes in the error table.
func (c *Coder) TableSize() int {
	return c.table.len()
}

// Encode returns generator*message mod q
func (c *Coder) Encode(message *matrix.Matrix) (*matrix.Matrix, error) {
	codeword := &matrix.Matrix{}
	if err := matrix.Multiply(c.generator, message, codeword); err != nil {
		return nil, err
	}
	codeword.Mod(c.alphabetSize)
	return codeword, nil
}

// Syndrome returns checker*received mod q
func (c *Coder) Syndrome(received *matrix.Matrix) (*matrix.Matrix, error) {
	syndrome := &matrix.Matrix{}
	if err := matrix.Multiply(c.checker, received, syndrome); err != nil {
		return nil, err
	}
	syndrome.Mod(c.alphabetSize)
	return syndrome, nil
}

// Detect is true when received has a non-zero syndrome
func (c *Coder) Detect(received *matrix.Matrix) (bool, error) {
	syndrome, err := c.Syndrome(received)
	if err != nil {
		return false, err
	}
	return !syndrome.IsZero(), nil
}

// Correct returns a copy of received with at most one symbol corrected.
// A non-zero syndrome that is not in the error table panics with an
// *UncorrectableError; use CorrectChecked to get it as an error instead.
func (c *Coder) Correct(received *matrix.Matrix) (*matrix.Matrix, error) {
	corrected, err := c.CorrectChecked(received)
	var uncorrectable *UncorrectableError
	if errors.As(err, &uncorrectable) {
		panic(uncorrectable)
	}
	return corrected, err
}

// CorrectChecked is Correct but returns an *UncorrectableError in place of panicking.
func (c *Coder) CorrectChecked(received *matrix.Matrix) (*matrix.Matrix, error) {
	syndrome, err := c.Syndrome(received)
	if err != nil {
		return nil, err
	}

	corrected := received.Copy()
	if syndrome.IsZero() {
		return corrected, nil
	}

	e, has := c.table.lookup(syndrome)
	if !has {
		return nil, &UncorrectableError{Syndrome: syndrome}
	}

	v := corrected.At(e.Position, 0) + e.Value
	if v >= c.alphabetSize {
		v -= c.alphabetSize
	}
	corrected.Set(e.Position, 0, v)
	return corrected, nil
}

// Decode returns receiver*codeword. No reduction is applied.
func (c *Coder) Decode(codeword *matrix.Matrix) (*matrix.Matrix, error) {
	if c.diagnostics != nil {
		if err := c.receiver.Print(c.diagnostics); err != nil {
			c.logger.Warnf("unable to write receiver matrix: %v", err)
		}
	}

	message := &matrix.Matrix{}
	if err := matrix.Multiply(c.receiver, codeword, message); err != nil {
		return nil, err
	}
	return message, nil
}
