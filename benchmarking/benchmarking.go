package benchmarking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/qhamming/coder"
	"github.com/nathanhack/qhamming/matrix"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
	mat2 "gonum.org/v1/gonum/mat"
)

type Stats struct {
	ChannelCodewordError avgstd.AvgStd // probability of a symbol error after channel errors are fixed
	ChannelMessageError  avgstd.AvgStd // probability of a message symbol error after channel errors are fixed
	ChannelParityError   avgstd.AvgStd // probability of a parity symbol error after channel errors are fixed
}

func (s Stats) String() string {
	return fmt.Sprintf("{Codeword:%0.02f(+/-%0.02f), Message:%0.02f(+/-%0.02f), Parity:%0.02f(+/-%0.02f)}",
		s.ChannelCodewordError.Mean, math.Sqrt(s.ChannelCodewordError.SampledVariance()),
		s.ChannelMessageError.Mean, math.Sqrt(s.ChannelMessageError.SampledVariance()),
		s.ChannelParityError.Mean, math.Sqrt(s.ChannelParityError.SampledVariance()),
	)
}

type Checkpoints func(updatedStats Stats)

type MessageConstructor func(trial int) (message *matrix.Matrix)

// specific to the q-ary symmetric channel
type QSCEncoder func(message *matrix.Matrix) (codeword *matrix.Matrix)
type QSC func(codeword *matrix.Matrix) (channelInducedCodeword *matrix.Matrix)
type QSCCorrection func(originalCodeword, channelInducedCodeword *matrix.Matrix) (fixedChannelInducedCodeword *matrix.Matrix)
type QSCMetrics func(originalMessage, originalCodeword, fixedChannelInducedCodeword *matrix.Matrix) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64)

// specific to BPSK
type BPSKChannelEncoder func(message *matrix.Matrix) (codeword mat2.Vector)
type BPSKChannel func(codeword mat2.Vector) (channelInducedCodeword mat2.Vector)
type BPSKChannelCorrection func(originalCodeword, channelInducedCodeword mat2.Vector) (fixedChannelInducedCodeword mat2.Vector)
type BPSKChannelMetrics func(originalMessage *matrix.Matrix, originalCodeword, fixedChannelInducedCodeword mat2.Vector) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64)

// trialFunc runs a single trial and returns its metrics
type trialFunc func(trial int) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64)

func BenchmarkQSC(ctx context.Context,
	trials int, threads int,
	createMessage MessageConstructor,
	encode QSCEncoder,
	channel QSC,
	codewordRepair QSCCorrection,
	metrics QSCMetrics,
	checkpoints Checkpoints,
	showProgress bool) Stats {
	return BenchmarkQSCContinueStats(ctx, trials, threads, createMessage, encode, channel, codewordRepair, metrics, checkpoints, Stats{}, showProgress)
}

// BenchmarkQSCContinueStats runs trials-previousStats.ChannelCodewordError.Count trials
// and folds their metrics into previousStats.
func BenchmarkQSCContinueStats(ctx context.Context,
	trials int, threads int,
	createMessage MessageConstructor,
	encode QSCEncoder,
	channel QSC,
	codewordRepair QSCCorrection,
	metrics QSCMetrics,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	return run(ctx, trials, threads, checkpoints, previousStats, showProgress, func(i int) (float64, float64, float64) {
		//we create a random message
		message := createMessage(i)

		// encode to get our codeword
		codeword := encode(message)

		// send through the channel to get channel induced errors
		channelInducedCodeword := channel(codeword)

		// repair the codeword (if possible)
		repaired := codewordRepair(codeword, channelInducedCodeword)

		return metrics(message, codeword, repaired)
	})
}

func BenchmarkBPSK(ctx context.Context,
	trials int, threads int,
	createMessage MessageConstructor,
	encode BPSKChannelEncoder,
	channel BPSKChannel,
	codewordRepair BPSKChannelCorrection,
	metrics BPSKChannelMetrics,
	checkpoints Checkpoints, showProgress bool) Stats {
	return BenchmarkBPSKContinueStats(ctx, trials, threads, createMessage, encode, channel, codewordRepair, metrics, checkpoints, Stats{}, showProgress)
}

func BenchmarkBPSKContinueStats(ctx context.Context,
	trials int, threads int,
	createMessage MessageConstructor,
	encode BPSKChannelEncoder,
	channel BPSKChannel,
	codewordRepair BPSKChannelCorrection,
	metrics BPSKChannelMetrics,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	return run(ctx, trials, threads, checkpoints, previousStats, showProgress, func(i int) (float64, float64, float64) {
		message := createMessage(i)
		codeword := encode(message)
		channelInducedCodeword := channel(codeword)
		repaired := codewordRepair(codeword, channelInducedCodeword)
		return metrics(message, codeword, repaired)
	})
}

func run(ctx context.Context, trials, threads int, checkpoints Checkpoints, previousStats Stats, showProgress bool, trial trialFunc) Stats {
	trialsToRun := trials - previousStats.ChannelCodewordError.Count
	if trialsToRun <= 0 {
		return previousStats
	}

	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.StartNew(trialsToRun)
	}

	pool := threadpool.NewFixedSize(ctx, threads, trialsToRun)
	statsMux := sync.Mutex{}

	for i := previousStats.ChannelCodewordError.Count; i < trials; i++ {
		tmp := i
		pool.Add(func() {
			if showProgress {
				bar.Increment()
			}
			percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors := trial(tmp)

			statsMux.Lock()
			previousStats.ChannelCodewordError.Update(percentFixedCodewordErrors)
			previousStats.ChannelMessageError.Update(percentFixedMessageErrors)
			previousStats.ChannelParityError.Update(percentFixedParityErrors)
			if checkpoints != nil {
				checkpoints(previousStats) //give them the updated checkpoint
			}
			statsMux.Unlock()
		})
	}
	pool.Wait()
	if showProgress {
		bar.Finish()
	}
	return previousStats
}

// SyndromeCorrection repairs with the coder's error table. Codewords outside the
// correction radius are returned as received.
func SyndromeCorrection(c *coder.Coder) QSCCorrection {
	return func(originalCodeword, channelInducedCodeword *matrix.Matrix) *matrix.Matrix {
		fixed, err := c.CorrectChecked(channelInducedCodeword)
		if err != nil {
			if !errors.Is(err, coder.ErrUncorrectable) {
				logrus.Errorf("unable to correct codeword: %v", err)
			}
			return channelInducedCodeword
		}
		return fixed
	}
}

// SymbolMetrics reports the fraction of codeword, message and parity symbols that
// differ from the original after repair.
func SymbolMetrics(c *coder.Coder) QSCMetrics {
	return func(originalMessage, originalCodeword, fixedChannelInducedCodeword *matrix.Matrix) (percentFixedCodewordErrors, percentFixedMessageErrors, percentFixedParityErrors float64) {
		codewordErrors := SymbolDistance(originalCodeword, fixedChannelInducedCodeword)
		message, err := c.Decode(fixedChannelInducedCodeword)
		if err != nil {
			logrus.Errorf("unable to decode codeword: %v", err)
			return 1, 1, 1
		}
		message.Mod(c.AlphabetSize())
		messageErrors := SymbolDistance(message, originalMessage)
		parityErrors := codewordErrors - messageErrors

		percentFixedCodewordErrors = float64(codewordErrors) / float64(c.CodewordLength())
		percentFixedMessageErrors = float64(messageErrors) / float64(c.MessageLength())
		percentFixedParityErrors = float64(parityErrors) / float64(c.ParitySymbols())
		return
	}
}

// SymbolDistance calculates number of symbols different.
// If a and b are different sizes it assumes they are
// both aligned with the zero index (the difference is at the end)
func SymbolDistance(a, b *matrix.Matrix) int {
	x, y := a.Elements(), b.Elements()
	min, max := len(x), len(y)
	if min > max {
		min, max = max, min
	}

	count := 0
	for i := 0; i < min; i++ {
		if x[i] != y[i] {
			count++
		}
	}
	return max - min + count
}

// BitsToBPSK converts a [0,1] column vector to a [-1,1] vector
func BitsToBPSK(a *matrix.Matrix) mat2.Vector {
	values := a.Elements()
	output := mat2.NewVecDense(len(values), nil)

	for i, v := range values {
		if v > 0 {
			output.SetVec(i, 1)
		} else {
			output.SetVec(i, -1)
		}
	}

	return output
}

// BPSKToBits converts a BPSK vector [-1,1] to a column vector [0,1].
// Values >= boundary will be considered a 1, otherwise a 0.
func BPSKToBits(a mat2.Vector, boundary float64) *matrix.Matrix {
	result := matrix.New(a.Len(), 1)

	for i := 0; i < a.Len(); i++ {
		if a.AtVec(i) >= boundary {
			result.Set(i, 0, 1)
		}
	}
	return result
}

// HammingDistanceBPSK calculates number of bits different.
// Assumes >=0 is 1 and <0 is 0
// If a and b are different sizes it assumes they are
// both aligned with the zero index (the difference is at the end)
func HammingDistanceBPSK(a, b mat2.Vector) int {
	min := a.Len()
	max := b.Len()
	if min > max {
		min = b.Len()
		max = a.Len()
	}

	count := 0
	for i := 0; i < min; i++ {
		aOne := a.AtVec(i) >= 0
		bOne := b.AtVec(i) >= 0
		if aOne != bOne {
			count++
		}
	}
	return max - min + count
}
