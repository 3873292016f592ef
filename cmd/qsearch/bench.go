package main

import (
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/theapemachine/errnie"

	"github.com/theapemachine/qsearch"
	"github.com/theapemachine/qsearch/report"
)

func benchCmd() *cobra.Command {
	var (
		chartPath  string
		dbPath     string
		exportPath string
		dump       bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Sweep register sizes comparing linear, binary and Grover search",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			backend, err := qsearch.NewConfiguredBackend(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			records, err := qsearch.NewBenchmark(cfg, qsearch.NewAnalytic(), backend).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Table(records, cfg.Tolerance))
			fmt.Fprintf(out, "%d sizes in %s\n", len(records), since(start))

			for _, r := range records.Inconsistent(cfg.Tolerance) {
				errnie.Info(
					"N=%d empirical %.4f outside %.1f standard errors of %.4f",
					r.N, r.EmpiricalSuccessRate, cfg.Tolerance, r.TheoreticalProbability,
				)
			}

			if dump {
				spew.Fdump(out, records)
			}

			if chartPath != "" {
				if err := writeSweepChart(chartPath, records); err != nil {
					return err
				}
				fmt.Fprintf(out, "charts written to %s\n", chartPath)
			}

			if exportPath != "" {
				f, err := createFile(exportPath)
				if err != nil {
					return err
				}
				defer f.Close()

				if err := report.WriteRecords(f, records); err != nil {
					return err
				}
			}

			if dbPath != "" {
				store, err := report.OpenStore(dbPath)
				if err != nil {
					return err
				}
				defer store.Close()

				if err := store.Migrate(); err != nil {
					return err
				}

				id, err := store.SaveRun(cmd.Context(), cfg, records)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "saved run %s\n", id)
			}

			return nil
		},
	}

	addConfigFlags(cmd.Flags())
	cmd.Flags().StringVar(&chartPath, "chart", "", "Write an HTML chart page to this path")
	cmd.Flags().StringVar(&dbPath, "db", "", "Append the run to this SQLite history")
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the records as MessagePack to this path")
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the raw records")

	return cmd
}

func writeSweepChart(path string, records qsearch.Records) error {
	last := records[len(records)-1]

	curve, err := qsearch.ProbabilityCurve(last.N, 2*last.QuantumIterations+1)
	if err != nil {
		return err
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return report.WriteCharts(f, records, curve)
}
