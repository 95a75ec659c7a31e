package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent imports and task actions from the local journal",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries per section")
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListImportRuns(historyLimit)
	if err != nil {
		return err
	}
	actions, err := s.ListActions(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Imports ===")
	if len(runs) == 0 {
		fmt.Fprintln(out, "No imports recorded")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tFORMAT\tATTEMPTED\tCREATED\tREJECTED\tSKIPPED\tPATH")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				r.StartedAt.Local().Format(time.DateTime), r.Format, r.Attempted, r.Succeeded, r.Failed, r.Dropped, r.Path)
		}
		w.Flush()
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Actions ===")
	if len(actions) == 0 {
		fmt.Fprintln(out, "No actions recorded")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tTASK\tOUTCOME\tDETAILS")
	for _, a := range actions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.Timestamp.Local().Format(time.DateTime), a.Action, a.TaskID, a.Outcome, truncate(a.Details, 60))
	}
	return w.Flush()
}
