package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theapemachine/qsearch"
	"github.com/theapemachine/qsearch/report"
)

func groverCmd() *cobra.Command {
	var (
		qubits    int
		target    int
		chartPath string
	)

	cmd := &cobra.Command{
		Use:   "grover",
		Short: "Run a single search circuit and compare it with classical search",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, "target")
			if err != nil {
				return err
			}

			backend, err := qsearch.NewConfiguredBackend(cfg)
			if err != nil {
				return err
			}

			record, m, err := qsearch.NewBenchmark(cfg, nil, backend).RunSingle(cmd.Context(), qubits, target)
			if err != nil {
				return err
			}

			records, err := qsearch.NewRecords(record)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Table(records, cfg.Tolerance))
			fmt.Fprintf(out, "most frequent outcome |%s⟩ (target |%s⟩)\n",
				m.Bitstring(m.Mode()), m.Bitstring(record.Target))

			if chartPath != "" {
				f, err := createFile(chartPath)
				if err != nil {
					return err
				}
				defer f.Close()

				if err := report.WriteDistribution(f, m); err != nil {
					return err
				}
				fmt.Fprintf(out, "distribution written to %s\n", chartPath)
			}

			return nil
		},
	}

	addConfigFlags(cmd.Flags(), "target", "min-qubits", "max-qubits")
	cmd.Flags().IntVar(&qubits, "qubits", 4, "Register width")
	cmd.Flags().IntVar(&target, "target", -1, "Marked index; negative applies the configured target policy")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write the outcome histogram to this HTML path")

	return cmd
}
