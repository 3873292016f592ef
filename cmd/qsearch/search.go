package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theapemachine/qsearch"
	"github.com/theapemachine/qsearch/dataset"
)

func searchCmd() *cobra.Command {
	var (
		file    string
		needle  string
		algo    string
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a dataset file classically and estimate the Grover cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.Load(file, maxRows)
			if err != nil {
				return err
			}

			match, err := ds.Find(needle)
			if err != nil {
				return err
			}

			var result qsearch.SearchResult
			switch strings.ToLower(algo) {
			case "linear":
				result = qsearch.LinearSearch(ds.Encoded, match.Encoded)
			case "binary":
				result = qsearch.SortedBinarySearch(ds.Encoded, match.Encoded)
			default:
				return fmt.Errorf("unknown algorithm %q, want linear or binary", algo)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "record %d of %d: %s\n", match.Index, ds.Len(), match.Raw)
			fmt.Fprintf(out, "%s search: %d steps in %s (sort %s)\n", algo, result.Steps, result.SearchTime, result.SortTime)

			if q, err := dataset.QubitWindow(ds); err == nil {
				n, _ := qsearch.SizeForQubits(q)
				k, _ := qsearch.OptimalIterations(n)
				p, _ := qsearch.SuccessProbability(n, k)
				fmt.Fprintf(out, "grover over a %d-record window (%d qubits): %d iterations, P=%.4f\n", n, q, k, p)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Dataset file (.txt, .log, .csv, .json, optionally .gz)")
	cmd.Flags().StringVar(&needle, "needle", "", "Text the target record contains")
	cmd.Flags().StringVar(&algo, "algo", "linear", "Classical algorithm: linear or binary")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Read at most this many rows; 0 reads all")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("needle")

	return cmd
}
