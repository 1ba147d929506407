package qsc

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/nathanhack/qhamming/benchmarking"
	"github.com/nathanhack/qhamming/cmd/internal/tools"
	"github.com/nathanhack/qhamming/linearblock"
	"github.com/nathanhack/qhamming/matrix"
	"github.com/spf13/cobra"
)

const historyLimit = 1 << 16

var (
	Trials           uint
	ErrorProbability []float64
	Threads          uint
)

var QSCRun = func(cmd *cobra.Command, args []string) error {
	//first get the ECC to use
	ecc, err := tools.LoadLinearBlockECC(args[0])
	if err != nil {
		return err
	}

	//next we see if the RESULT_JSON exists if so we load it and validate we're running it against the right thing
	data, err := tools.PrepareResults(args[1], TypeInfo(ecc.AlphabetSize), ecc)
	if err != nil {
		return err
	}

	ctx, cancel := tools.SignalContext()
	defer cancel()

	c := ecc.Coder()
	repair := benchmarking.SyndromeCorrection(c)
	tools.RunSimulation(ctx, data, args[1], int(Trials), int(Threads), ErrorProbability,
		func(ctx context.Context, p float64, trials, threads int, previousStats benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats {
			return RunQSC(ctx, ecc, p, trials, threads, repair, previousStats, checkpoints, false)
		})

	return tools.SaveResults(args[1], data)
}

func TypeInfo(q matrix.Value) string {
	return fmt.Sprintf("QSC(q=%v):syndrome", q)
}

// RunQSC runs trials against the q-ary symmetric channel with symbol crossover
// probability p. Messages are not repeated until the message space (or the
// history limit) is used up.
func RunQSC(ctx context.Context,
	l *linearblock.LinearBlock,
	crossoverProbability float64, trials, threads int,
	correctionAlg benchmarking.QSCCorrection,
	previousStats benchmarking.Stats,
	checkpoints benchmarking.Checkpoints,
	showProgress bool) benchmarking.Stats {
	c := l.Coder()
	q := l.AlphabetSize

	messageHistory := make(map[string]bool)
	messageHistoryMux := sync.Mutex{}
	messageHistoryMax := math.Min(math.Pow(float64(q), float64(l.MessageLength())), historyLimit)

	createMessage := func(trial int) *matrix.Matrix {
		messageHistoryMux.Lock()
		defer messageHistoryMux.Unlock()

		if float64(len(messageHistory)) >= messageHistoryMax {
			messageHistory = make(map[string]bool)
		}

		message := benchmarking.RandomMessage(q, l.MessageLength())
		for messageHistory[message.String()] {
			message = benchmarking.RandomMessage(q, l.MessageLength())
		}
		messageHistory[message.String()] = true
		return message
	}

	encode := func(message *matrix.Matrix) (codeword *matrix.Matrix) {
		codeword, _ = c.Encode(message)
		return
	}

	channel := func(originalCodeword *matrix.Matrix) (erroredCodeword *matrix.Matrix) {
		return benchmarking.RandomSymmetricChannel(originalCodeword, q, crossoverProbability)
	}

	return benchmarking.BenchmarkQSCContinueStats(ctx, trials, threads, createMessage, encode, channel, correctionAlg, benchmarking.SymbolMetrics(c), checkpoints, previousStats, showProgress)
}
