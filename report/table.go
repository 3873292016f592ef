package report

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/theapemachine/qsearch"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = cellStyle.Copy().Foreground(lipgloss.Color("203"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var headers = []string{
	"Qubits", "N", "Linear", "Binary", "Grover k", "Speedup", "Theory %", "Empirical %", "Deviation",
}

const deviationCol = 8

/*
Table renders records as a bordered terminal table. Rows whose empirical
rate falls outside tolerance standard errors of theory have their deviation
highlighted; a tolerance <= 0 disables the highlight.
*/
func Table(records qsearch.Records, tolerance float64) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			strconv.Itoa(r.Qubits),
			strconv.Itoa(r.N),
			strconv.Itoa(r.ClassicalSteps),
			strconv.Itoa(r.BinarySteps),
			strconv.Itoa(r.QuantumIterations),
			fmt.Sprintf("%.2fx", r.Speedup()),
			fmt.Sprintf("%.2f", r.TheoreticalProbability*100),
			fmt.Sprintf("%.2f", r.EmpiricalSuccessRate*100),
			fmt.Sprintf("%+.4f", r.Deviation()),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}

			if col == deviationCol && tolerance > 0 && !records[row-1].Consistent(tolerance) {
				return warnStyle
			}

			return cellStyle
		})

	return t.String()
}

/*
SizingTable lists, for each register width in [minQubits, maxQubits], the
classical worst and average cost beside the optimal round count and its
success probability.
*/
func SizingTable(model qsearch.SearchModel, minQubits, maxQubits int) (string, error) {
	var rows [][]string

	for q := minQubits; q <= maxQubits; q++ {
		n, err := qsearch.SizeForQubits(q)
		if err != nil {
			return "", err
		}

		worst, err := model.ClassicalWorstCase(n)
		if err != nil {
			return "", err
		}

		avg, err := model.ClassicalAverageCase(n)
		if err != nil {
			return "", err
		}

		k, err := model.OptimalIterations(n)
		if err != nil {
			return "", err
		}

		p, err := model.SuccessProbability(n, k)
		if err != nil {
			return "", err
		}

		rows = append(rows, []string{
			strconv.Itoa(q),
			strconv.Itoa(n),
			strconv.Itoa(worst),
			strconv.FormatFloat(avg, 'f', 1, 64),
			strconv.Itoa(k),
			fmt.Sprintf("%.4f", p),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Qubits", "N", "Worst", "Average", "k", "P(k)").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		String(), nil
}
