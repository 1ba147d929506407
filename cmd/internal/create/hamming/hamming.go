package hamming

import (
	"fmt"

	"github.com/nathanhack/qhamming/cmd/internal/tools"
	"github.com/nathanhack/qhamming/linearblock"
	"github.com/nathanhack/qhamming/linearblock/hamming"
	"github.com/nathanhack/qhamming/matrix"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	AlphabetSize  uint
	ParitySymbols uint
	Threads       uint
)

var HammingRun = func(cmd *cobra.Command, args []string) error {
	if ParitySymbols < 2 {
		return fmt.Errorf("parity must be >=2 but found %v", ParitySymbols)
	}

	ctx, cancel := tools.SignalContext()
	defer cancel()

	var h *linearblock.LinearBlock
	var err error
	if AlphabetSize == 2 {
		h, err = hamming.NewBinary(ctx, int(ParitySymbols), int(Threads))
	} else {
		h, err = hamming.New(ctx, matrix.Value(AlphabetSize), int(ParitySymbols), int(Threads))
	}
	if err != nil {
		return fmt.Errorf("unable to create hamming code: %w", err)
	}
	logrus.Infof("created (%v, %v) hamming code over Z/%vZ", h.CodewordLength(), h.MessageLength(), h.AlphabetSize)

	return tools.SaveLinearBlockECC(args[0], h)
}
