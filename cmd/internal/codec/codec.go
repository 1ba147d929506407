package codec

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nathanhack/qhamming/cmd/internal/tools"
	"github.com/nathanhack/qhamming/coder"
	"github.com/nathanhack/qhamming/matrix"
	"github.com/spf13/cobra"
)

var (
	// Diagnostics prints the receiver matrix before decoding
	Diagnostics bool
)

// ParseSymbols parses a comma or space separated list of symbols in [0,q)
func ParseSymbols(s string, q matrix.Value) (*matrix.Matrix, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	values := make([]matrix.Value, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("symbol %v: %w", i, err)
		}
		if matrix.Value(v) >= q {
			return nil, fmt.Errorf("symbol %v: %v is not in [0,%v)", i, v, q)
		}
		values[i] = matrix.Value(v)
	}
	return matrix.Vec(values...), nil
}

func FormatSymbols(m *matrix.Matrix) string {
	values := m.Elements()
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(strs, ",")
}

func loadCoder(filepath string, w io.Writer) (*coder.Coder, error) {
	ecc, err := tools.LoadLinearBlockECC(filepath)
	if err != nil {
		return nil, err
	}

	var opts []coder.Option
	if Diagnostics {
		opts = append(opts, coder.WithDiagnostics(w))
	}
	return ecc.Coder(opts...), nil
}

func run(cmd *cobra.Command, args []string, length func(c *coder.Coder) int, op func(c *coder.Coder, input *matrix.Matrix) (*matrix.Matrix, error)) error {
	out := cmd.OutOrStdout()

	c, err := loadCoder(args[0], out)
	if err != nil {
		return err
	}

	input, err := ParseSymbols(args[1], c.AlphabetSize())
	if err != nil {
		return err
	}
	if input.Rows() != length(c) {
		return fmt.Errorf("expected %v symbols but found %v", length(c), input.Rows())
	}

	output, err := op(c, input)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, FormatSymbols(output))
	return err
}

var EncodeRun = func(cmd *cobra.Command, args []string) error {
	return run(cmd, args, (*coder.Coder).MessageLength, (*coder.Coder).Encode)
}

var CorrectRun = func(cmd *cobra.Command, args []string) error {
	return run(cmd, args, (*coder.Coder).CodewordLength, (*coder.Coder).CorrectChecked)
}

var DecodeRun = func(cmd *cobra.Command, args []string) error {
	return run(cmd, args, (*coder.Coder).CodewordLength, (*coder.Coder).Decode)
}
