package chart

import (
	"fmt"
	"os"

	"github.com/nathanhack/qhamming/cmd/internal/tools"
	"github.com/spf13/cobra"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var (
	OutputFile   string
	XAxisName    string
	MessageError bool
	ParityError  bool
)

var ChartRun = func(cmd *cobra.Command, args []string) error {
	// loop through all the results files and collect data needed for displaying
	stats, xvalues, err := tools.LoadAllResults(args)
	if err != nil {
		return err
	}

	xnames := make([]string, len(xvalues))
	for i, n := range xvalues {
		xnames[i] = fmt.Sprint(n)
	}

	f, err := os.Create(OutputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	// create a new bar instance
	bar := charts.NewBar()
	// set some global options like Title/Legend/ToolTip or anything else
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Results",
			Subtitle: subtitle(),
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true,
			Orient: "vertical",
			// Orient: "horizontal",
			Right: "0",
			Top:   "top",
			Type:  "scroll",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      XAxisName,
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Remaining Error",
			SplitLine: &opts.SplitLine{Show: true},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)

	bar.SetXAxis(xnames)

	// Put data into instance
	for i, s := range stats {
		bar.AddSeries(args[i], series(s, xvalues))
	}

	return bar.Render(f)
}

func subtitle() string {
	switch {
	case MessageError:
		return "Message Symbol Error Rates"
	case ParityError:
		return "Parity Symbol Error Rates"
	default:
		return "Codeword Symbol Error Rates"
	}
}

func series(stat *tools.SimulationStats, values []float64) []opts.BarData {
	results := make([]opts.BarData, len(values))
	null := opts.BarData{Value: nil}
	for i, v := range values {
		x, has := stat.Stats[v]
		if !has {
			results[i] = null
			continue
		}

		results[i] = opts.BarData{
			Value: tools.SelectError(x, MessageError, ParityError).Mean,
		}
	}
	return results
}
