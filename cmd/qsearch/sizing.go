package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theapemachine/qsearch"
	"github.com/theapemachine/qsearch/report"
)

func iterationsCmd() *cobra.Command {
	var minQubits, maxQubits int

	cmd := &cobra.Command{
		Use:   "iterations",
		Short: "Print optimal Grover iterations and classical cost per problem size",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := report.SizingTable(qsearch.NewAnalytic(), minQubits, maxQubits)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&minQubits, "min-qubits", 1, "Smallest register width")
	cmd.Flags().IntVar(&maxQubits, "max-qubits", 16, "Largest register width")

	return cmd
}

func probabilityCmd() *cobra.Command {
	var (
		qubits, k int
		curve     bool
	)

	cmd := &cobra.Command{
		Use:   "probability",
		Short: "Print the success probability after k amplification rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := qsearch.SizeForQubits(qubits)
			if err != nil {
				return err
			}

			if k < 0 {
				if k, err = qsearch.OptimalIterations(n); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()

			if !curve {
				p, err := qsearch.SuccessProbability(n, k)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "N=%d k=%d P=%.6f\n", n, k, p)
				return nil
			}

			probs, err := qsearch.ProbabilityCurve(n, k)
			if err != nil {
				return err
			}

			peak, _ := qsearch.PeakIteration(n)
			for i, p := range probs {
				marker := ""
				if i == peak {
					marker = " <- optimum"
				}
				fmt.Fprintf(out, "k=%-4d P=%.6f %s%s\n", i, p, strings.Repeat("#", int(p*40)), marker)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&qubits, "qubits", 4, "Register width")
	cmd.Flags().IntVar(&k, "k", -1, "Amplification rounds; negative uses the optimum")
	cmd.Flags().BoolVar(&curve, "curve", false, "Print P for every round count 0..k")

	return cmd
}
