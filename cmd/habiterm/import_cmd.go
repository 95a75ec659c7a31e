package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/habiterm/internal/audit"
	"github.com/fentz26/habiterm/internal/importer"
	"github.com/fentz26/habiterm/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import tasks from a CSV, YAML or Markdown checklist file",
	Long: `Import creates one task per record in the file.

  .csv         header row; columns "Task Name" (or "text") and "Type" (or "type")
  .yaml/.yml   a list of {text, type} mappings
  .md          every unchecked "- [ ] text" line becomes a todo

A file that fails to parse imports nothing. Records without text are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importDryRun bool

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and show the tasks without creating them")
}

func runImport(cmd *cobra.Command, args []string) error {
	l := logger.FromContext(cmd.Context())
	path := args[0]
	out := cmd.OutOrStdout()

	if importDryRun {
		reqs, dropped, err := importer.Plan(path)
		if err != nil {
			return err
		}
		if len(reqs) > 0 {
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tTEXT")
			for _, r := range reqs {
				fmt.Fprintf(w, "%s\t%s\n", r.Type, truncate(r.Text, 60))
			}
			w.Flush()
		}
		fmt.Fprintf(out, "%d tasks would be created, %d skipped without text\n", len(reqs), dropped)
		return nil
	}

	opts := []importer.Option{importer.WithLogger(l)}
	s := openJournal(l)
	if s != nil {
		defer s.Close()
		opts = append(opts, importer.WithJournal(s))
	}

	im := importer.New(newAPIClient(l), opts...)
	summary, err := im.ImportFrom(cmd.Context(), path)
	recordAction(l, s, audit.ActionImport, "", map[string]string{"path": path}, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d tasks from %s (%d created, %d rejected, %d skipped without text)\n",
		summary.Attempted, path, summary.Succeeded, summary.Failed, summary.Dropped)
	return nil
}
