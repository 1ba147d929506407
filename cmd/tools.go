package cmd

import (
	"github.com/nathanhack/qhamming/cmd/internal/tools/bpsk"
	"github.com/nathanhack/qhamming/cmd/internal/tools/chart"
	"github.com/nathanhack/qhamming/cmd/internal/tools/csv"
	"github.com/nathanhack/qhamming/cmd/internal/tools/qsc"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for ECCs",
	Long:    `Tools for ECCs`,
}

// toolsChansimCmd represents the chansim command
var toolsChansimCmd = &cobra.Command{
	Use:     "chansim",
	Aliases: []string{"cs", "c"},
	Short:   "Channel simulators",
	Long:    `Channel simulators for linearblock ECCs`,
}

// toolsQSCCmd represents the qsc command
var toolsQSCCmd = &cobra.Command{
	Use:   "qsc ECC_JSON_FILE RESULT_JSON",
	Short: "A q-ary symmetric channel simulator",
	Long:  `A q-ary symmetric channel simulator for linearblock ECCs using syndrome correction`,
	Args:  cobra.ExactArgs(2),
	RunE:  qsc.QSCRun,
}

// toolsBPSKCmd represents the bpsk command
var toolsBPSKCmd = &cobra.Command{
	Use:   "bpsk ECC_JSON_FILE RESULT_JSON",
	Short: "A BPSK over AWGN channel simulator",
	Long:  `A BPSK over AWGN channel simulator for binary linearblock ECCs using hard decisions and syndrome correction`,
	Args:  cobra.ExactArgs(2),
	RunE:  bpsk.BPSKRun,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:     "chart RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"ch"},
	Short:   "Export to an html bar chart",
	Long:    `Export to an html bar chart`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    chart.ChartRun,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsChansimCmd)
	toolsCmd.AddCommand(toolsResultsCmd)

	toolsChansimCmd.AddCommand(toolsQSCCmd)
	toolsQSCCmd.Flags().UintVarP(&qsc.Trials, "trials", "t", 1_000_000, "the number of trials per step")
	toolsQSCCmd.Flags().Float64SliceVarP(&qsc.ErrorProbability, "probability", "p", []float64{0.01, 0.05, 0.10, 0.15, 0.20, 0.25, 0.30}, "probability of a symbol error to test [0, 1]")
	toolsQSCCmd.Flags().UintVar(&qsc.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")

	toolsChansimCmd.AddCommand(toolsBPSKCmd)
	toolsBPSKCmd.Flags().UintVarP(&bpsk.Trials, "trials", "t", 1_000_000, "the number of trials per step")
	toolsBPSKCmd.Flags().Float64SliceVarP(&bpsk.EbN0, "ebn0", "e", []float64{0.5, 1, 2, 3, 4, 5, 6}, "E_b/N_0 ratios to test (>0)")
	toolsBPSKCmd.Flags().UintVar(&bpsk.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")
	toolsCSVCmd.Flags().BoolVarP(&csv.MessageError, "message", "m", false, "outputs the MessageError instead of CodewordError or ParityError")
	toolsCSVCmd.Flags().BoolVarP(&csv.ParityError, "parity", "p", false, "outputs the ParityError instead of CodewordError or MessageError")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
	toolsChartCmd.Flags().StringVarP(&chart.XAxisName, "xaxis", "x", "Error Probability", "name of the x axis")
	toolsChartCmd.Flags().BoolVarP(&chart.MessageError, "message", "m", false, "charts the MessageError instead of CodewordError or ParityError")
	toolsChartCmd.Flags().BoolVarP(&chart.ParityError, "parity", "p", false, "charts the ParityError instead of CodewordError or MessageError")
}
