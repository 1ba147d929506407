package tools

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/qhamming/benchmarking"
	"github.com/nathanhack/qhamming/linearblock"
	"github.com/nathanhack/qhamming/matrix"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type SimulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[float64]benchmarking.Stats
}
type simulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[string]benchmarking.Stats
}

func (s *SimulationStats) MarshalJSON() ([]byte, error) {
	ss := simulationStats{
		TypeInfo: s.TypeInfo,
		ECCInfo:  s.ECCInfo,
		Stats:    map[string]benchmarking.Stats{},
	}

	for f, stat := range s.Stats {
		ss.Stats[strconv.FormatFloat(f, 'g', -1, 64)] = stat
	}

	return json.Marshal(ss)
}

func (s *SimulationStats) UnmarshalJSON(bytes []byte) error {
	var ss simulationStats

	err := json.Unmarshal(bytes, &ss)
	if err != nil {
		return err
	}

	s.TypeInfo = ss.TypeInfo
	s.ECCInfo = ss.ECCInfo
	s.Stats = map[float64]benchmarking.Stats{}

	for fs, stat := range ss.Stats {
		f, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return err
		}
		s.Stats[f] = stat
	}
	return nil
}

// Md5Sum identifies a code by its reduced checker and alphabet size
func Md5Sum(q matrix.Value, checker *matrix.Matrix) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprintf("%v\n%v", q, checker.String()))))
}

func LoadLinearBlockECC(filepath string) (*linearblock.LinearBlock, error) {
	bs, err := os.ReadFile(filepath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("the ECC_JSON_FILE must exist")
	}
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var ecc linearblock.LinearBlock
	err = json.Unmarshal(bs, &ecc)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	if err = ecc.Validate(); err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}
	return &ecc, nil
}

func SaveLinearBlockECC(filepath string, ecc *linearblock.LinearBlock) error {
	bs, err := json.Marshal(ecc)
	if err != nil {
		return fmt.Errorf("unable to serialize the ECC: %w", err)
	}

	if err = os.WriteFile(filepath, bs, 0644); err != nil {
		return fmt.Errorf("unable to write file %v: %w", filepath, err)
	}
	return nil
}

// LoadResults returns nil, nil when filepath does not exist
func LoadResults(filepath string) (*SimulationStats, error) {
	bs, err := os.ReadFile(filepath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var stat SimulationStats
	err = json.Unmarshal(bs, &stat)
	if err != nil {
		return nil, fmt.Errorf("error while unmarshalling file %v: %w", filepath, err)
	}
	return &stat, nil
}

func SaveResults(filepath string, data *SimulationStats) error {
	bs, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error serializing results: %w", err)
	}

	err = os.WriteFile(filepath, bs, 0644)
	if err != nil {
		return fmt.Errorf("error while saving results to %v: %w", filepath, err)
	}
	return nil
}

// SignalContext is cancelled on SIGINT or SIGTERM
func SignalContext() (context.Context, context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case sig := <-sigs:
			logrus.Warnf("received %v, stopping", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}

// SimulationStep runs up to trials trials for a single channel parameter p
type SimulationStep func(ctx context.Context, p float64, trials, threads int, previousStats benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats

// RunSimulation interleaves the parameters so partial results cover all of them,
// saving data to outputFilename as it goes.
func RunSimulation(ctx context.Context, data *SimulationStats, outputFilename string, trials, threads int, parameters []float64, step SimulationStep) {
	checkpointMux := sync.Mutex{}
	checkpointCount := 0

	numberOfThread := threads
	if numberOfThread == 0 {
		numberOfThread = runtime.NumCPU()
	}

	trialsPerIter := numberOfThread * 10
	bar := pb.StartNew(trials * len(parameters))
trialLoops:
	for t := trialsPerIter; t < trials+trialsPerIter; t += trialsPerIter {
		select {
		case <-ctx.Done():
			break trialLoops
		default:
		}

		for _, p := range parameters {
			checkpoint := func(stats benchmarking.Stats) {
				//we want to save the checkpoint
				checkpointMux.Lock()
				defer checkpointMux.Unlock()

				data.Stats[p] = stats

				if checkpointCount%trialsPerIter == 0 {
					err := SaveResults(outputFilename, data)
					if err != nil {
						logrus.Error(err)
					}
				}
				checkpointCount++
			}
			before := data.Stats[p].ChannelCodewordError.Count
			after := step(ctx, p, min(t, trials), numberOfThread, data.Stats[p], checkpoint)
			checkpointMux.Lock()
			data.Stats[p] = after
			checkpointMux.Unlock()
			bar.Add(after.ChannelCodewordError.Count - before)
		}
	}
	bar.Finish()
}

// PrepareResults loads outputFilename, or creates empty results, and checks they
// belong to the same simulation type and code.
func PrepareResults(outputFilename, typeInfo string, ecc *linearblock.LinearBlock) (*SimulationStats, error) {
	data, err := LoadResults(outputFilename)
	if err != nil {
		return nil, err
	}

	eccInfo := Md5Sum(ecc.AlphabetSize, ecc.Checker)
	if data == nil {
		data = &SimulationStats{
			TypeInfo: typeInfo,
			ECCInfo:  eccInfo,
			Stats:    make(map[float64]benchmarking.Stats),
		}
	}

	if data.TypeInfo != typeInfo {
		return nil, fmt.Errorf("results loaded do not match the same type expected %v but found %v", typeInfo, data.TypeInfo)
	}
	if data.ECCInfo != eccInfo {
		return nil, fmt.Errorf("results loaded do not match the ECC")
	}
	return data, nil
}

// LoadAllResults loads every results file and returns the sorted union of their parameters
func LoadAllResults(filepaths []string) ([]*SimulationStats, []float64, error) {
	stats := make([]*SimulationStats, len(filepaths))
	parameters := make(map[float64]bool)
	for i, resultFile := range filepaths {
		s, err := LoadResults(resultFile)
		if err != nil {
			return nil, nil, err
		}
		if s == nil {
			return nil, nil, fmt.Errorf("results file %v does not exist", resultFile)
		}
		stats[i] = s
		for p := range s.Stats {
			parameters[p] = true
		}
	}

	sorted := maps.Keys(parameters)
	slices.Sort(sorted)
	return stats, sorted, nil
}

// SelectError picks the message, parity or (by default) codeword error rate
func SelectError(s benchmarking.Stats, message, parity bool) avgstd.AvgStd {
	switch {
	case message:
		return s.ChannelMessageError
	case parity:
		return s.ChannelParityError
	default:
		return s.ChannelCodewordError
	}
}
