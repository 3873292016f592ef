package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/theapemachine/qsearch/report"
)

func historyCmd() *cobra.Command {
	var (
		dbPath    string
		runID     string
		tolerance float64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored benchmark runs or print one of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := report.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if runID != "" {
				records, err := store.Records(cmd.Context(), runID)
				if err != nil {
					return err
				}

				fmt.Fprintln(out, report.Table(records, tolerance))
				return nil
			}

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(out, runTree(dbPath, runs).String())
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "qsearch.db", "SQLite history file")
	cmd.Flags().StringVar(&runID, "run", "", "Print the records of this run")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 4, "Standard errors an empirical rate may deviate from theory")

	return cmd
}

func runTree(root string, runs []report.Run) treeprint.Tree {
	tree := treeprint.NewWithRoot(root)

	for _, run := range runs {
		branch := tree.AddMetaBranch(run.CreatedAt.Format(time.DateTime), run.ID)
		branch.AddMetaNode("backend", run.Backend)
		branch.AddMetaNode("qubits", fmt.Sprintf("%d..%d", run.MinQubits, run.MaxQubits))
		branch.AddMetaNode("shots", fmt.Sprintf("%d x %d", run.Shots, run.Repeats))
		branch.AddMetaNode("seed", run.Seed)
		branch.AddMetaNode("records", run.Records)
	}

	return tree
}
