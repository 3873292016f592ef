package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/theapemachine/qsearch"
)

const (
	targetColor = "#d94e5d"
	otherColor  = "#5470c6"
)

func sizeAxis(records qsearch.Records) []string {
	axis := make([]string, len(records))
	for i, n := range records.Sizes() {
		axis[i] = strconv.Itoa(n)
	}
	return axis
}

func lineSeries[T int | float64](records qsearch.Records, value func(qsearch.BenchmarkRecord) T) []opts.LineData {
	data := make([]opts.LineData, len(records))
	for i, r := range records {
		data[i] = opts.LineData{Value: value(r)}
	}
	return data
}

func newLine(title, subtitle, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	return line
}

/*
WriteCharts renders the sweep as an HTML page: search cost against N,
speedup against N and theoretical against empirical success. A non-empty
curve adds the success probability for every round count 0..len(curve)-1 of
the largest record, showing the oscillation past the optimum.
*/
func WriteCharts(w io.Writer, records qsearch.Records, curve []float64) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to chart")
	}

	axis := sizeAxis(records)

	steps := newLine("Search cost", "comparisons or oracle calls", "N", "steps")
	steps.SetXAxis(axis).
		AddSeries("Linear", lineSeries(records, func(r qsearch.BenchmarkRecord) int { return r.ClassicalSteps })).
		AddSeries("Binary", lineSeries(records, func(r qsearch.BenchmarkRecord) int { return r.BinarySteps })).
		AddSeries("Grover", lineSeries(records, func(r qsearch.BenchmarkRecord) int { return r.QuantumIterations }))

	speedup := newLine("Speedup", "linear steps per Grover iteration", "N", "x")
	speedup.SetXAxis(axis).
		AddSeries("Speedup", lineSeries(records, qsearch.BenchmarkRecord.Speedup))

	success := newLine("Success probability", "theory against sampled rate", "N", "P")
	success.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Name: "P", Min: 0, Max: 1}))
	success.SetXAxis(axis).
		AddSeries("Theory", lineSeries(records, func(r qsearch.BenchmarkRecord) float64 { return r.TheoreticalProbability })).
		AddSeries("Empirical", lineSeries(records, func(r qsearch.BenchmarkRecord) float64 { return r.EmpiricalSuccessRate }))

	page := components.NewPage().SetPageTitle("qsearch benchmark")
	page.AddCharts(steps, speedup, success)

	if len(curve) > 0 {
		last := records[len(records)-1]
		rounds := make([]string, len(curve))
		data := make([]opts.LineData, len(curve))
		for k, p := range curve {
			rounds[k] = strconv.Itoa(k)
			data[k] = opts.LineData{Value: p}
		}

		oscillation := newLine("Amplification", fmt.Sprintf("N=%d, optimum k=%d", last.N, last.QuantumIterations), "k", "P")
		oscillation.SetXAxis(rounds).AddSeries("P(k)", data)
		page.AddCharts(oscillation)
	}

	return page.Render(w)
}

// WriteDistribution renders the measured outcome histogram, target in red.
func WriteDistribution(w io.Writer, m qsearch.Measurement) error {
	if len(m.Counts) == 0 {
		return fmt.Errorf("measurement has no counts")
	}

	states := make([]int, 0, len(m.Counts))
	for state := range m.Counts {
		states = append(states, state)
	}
	slices.Sort(states)

	axis := make([]string, len(states))
	data := make([]opts.BarData, len(states))
	for i, state := range states {
		color := otherColor
		if state == m.Circuit.Target {
			color = targetColor
		}

		axis[i] = m.Bitstring(state)
		data[i] = opts.BarData{
			Value:     m.Counts[state],
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Measurement outcomes",
			Subtitle: fmt.Sprintf(
				"%d qubits, target |%s⟩, k=%d, %d shots, success %.2f%%",
				m.Circuit.Qubits, m.Bitstring(m.Circuit.Target), m.Circuit.Iterations,
				m.Circuit.Shots, m.SuccessRate()*100,
			),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "state"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)
	bar.SetXAxis(axis).AddSeries("counts", data)

	page := components.NewPage().SetPageTitle("qsearch measurement")
	page.AddCharts(bar)

	return page.Render(w)
}
