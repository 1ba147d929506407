package bpsk

import (
	"context"
	"fmt"

	"github.com/nathanhack/qhamming/benchmarking"
	"github.com/nathanhack/qhamming/cmd/internal/tools"
	"github.com/nathanhack/qhamming/linearblock"
	"github.com/nathanhack/qhamming/matrix"
	"github.com/spf13/cobra"
	mat2 "gonum.org/v1/gonum/mat"
)

const typeInfo = "BPSK:harddecision/syndrome"

var (
	Trials  uint
	EbN0    []float64
	Threads uint
)

var BPSKRun = func(cmd *cobra.Command, args []string) error {
	ecc, err := tools.LoadLinearBlockECC(args[0])
	if err != nil {
		return err
	}
	if ecc.AlphabetSize != 2 {
		return fmt.Errorf("BPSK requires a binary code but found q=%v", ecc.AlphabetSize)
	}

	data, err := tools.PrepareResults(args[1], typeInfo, ecc)
	if err != nil {
		return err
	}

	ctx, cancel := tools.SignalContext()
	defer cancel()

	tools.RunSimulation(ctx, data, args[1], int(Trials), int(Threads), EbN0,
		func(ctx context.Context, p float64, trials, threads int, previousStats benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats {
			return RunBPSK(ctx, ecc, p, trials, threads, previousStats, checkpoints, false)
		})

	return tools.SaveResults(args[1], data)
}

// RunBPSK runs trials over an AWGN channel at E_b/N_0 of ebn0, with a hard decision
// at zero followed by syndrome correction.
func RunBPSK(ctx context.Context,
	l *linearblock.LinearBlock,
	ebn0 float64, trials, threads int,
	previousStats benchmarking.Stats,
	checkpoints benchmarking.Checkpoints,
	showProgress bool) benchmarking.Stats {
	c := l.Coder()
	correct := benchmarking.SyndromeCorrection(c)

	createMessage := func(trial int) *matrix.Matrix {
		return benchmarking.RandomMessage(2, l.MessageLength())
	}

	encode := func(message *matrix.Matrix) mat2.Vector {
		codeword, _ := c.Encode(message)
		return benchmarking.BitsToBPSK(codeword)
	}

	channel := func(codeword mat2.Vector) mat2.Vector {
		return benchmarking.RandomNoiseBPSK(codeword, ebn0)
	}

	repair := func(originalCodeword, channelInducedCodeword mat2.Vector) mat2.Vector {
		hard := benchmarking.BPSKToBits(channelInducedCodeword, 0)
		return benchmarking.BitsToBPSK(correct(nil, hard))
	}

	symbolMetrics := benchmarking.SymbolMetrics(c)
	metrics := func(message *matrix.Matrix, originalCodeword, fixedChannelInducedCodeword mat2.Vector) (float64, float64, float64) {
		return symbolMetrics(message, benchmarking.BPSKToBits(originalCodeword, 0), benchmarking.BPSKToBits(fixedChannelInducedCodeword, 0))
	}

	return benchmarking.BenchmarkBPSKContinueStats(ctx, trials, threads, createMessage, encode, channel, repair, metrics, checkpoints, previousStats, showProgress)
}
