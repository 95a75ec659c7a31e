package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/habiterm/internal/audit"
	"github.com/fentz26/habiterm/internal/logger"
	"github.com/fentz26/habiterm/internal/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new task",
	Args:  cobra.NoArgs,
	RunE:  runTaskAdd,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task's text, notes or priority",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

var taskScoreCmd = &cobra.Command{
	Use:   "score [task-id] [up|down]",
	Short: "Score a task up (default) or down",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runTaskScore,
}

var (
	listType     string
	taskType     string
	taskText     string
	taskNotes    string
	taskPriority float64
)

func init() {
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskEditCmd, taskDeleteCmd, taskScoreCmd)

	taskListCmd.Flags().StringVar(&listType, "type", "", "Filter by category (habits, dailys, todos, rewards)")

	taskAddCmd.Flags().StringVar(&taskText, "text", "", "Task text (required)")
	taskAddCmd.Flags().StringVar(&taskType, "type", string(models.DefaultType), "Task type (habit, daily, todo, reward)")
	taskAddCmd.Flags().StringVar(&taskNotes, "notes", "", "Task notes")
	taskAddCmd.Flags().Float64Var(&taskPriority, "priority", models.DefaultPriority, "Priority (0.1, 1, 1.5, 2)")
	taskAddCmd.MarkFlagRequired("text")

	taskEditCmd.Flags().StringVar(&taskText, "text", "", "New text")
	taskEditCmd.Flags().StringVar(&taskNotes, "notes", "", "New notes")
	taskEditCmd.Flags().Float64Var(&taskPriority, "priority", models.DefaultPriority, "New priority")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	l := logger.FromContext(cmd.Context())
	var category models.Category
	if listType != "" {
		c, err := models.ParseCategory(listType)
		if err != nil {
			return err
		}
		category = c
	}

	tasks, err := newAPIClient(l).ListTasks(cmd.Context(), category)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tVALUE\tPRIORITY\tTEXT")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", t.ID, t.Type, t.Value, formatPriority(t.Priority), truncate(t.Text, 50))
	}
	return w.Flush()
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	l := logger.FromContext(cmd.Context())
	s := openJournal(l)
	if s != nil {
		defer s.Close()
	}

	task, err := newAPIClient(l).CreateTask(cmd.Context(), taskText, models.TaskType(taskType), taskNotes, taskPriority)
	taskID := ""
	if task != nil {
		taskID = task.ID
	}
	recordAction(l, s, audit.ActionCreate, taskID, models.NormalizedTaskRequest{Text: taskText, Type: models.TaskType(taskType)}, err)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task: %s\n", task.ID)
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	l := logger.FromContext(cmd.Context())
	var update models.TaskUpdate
	flags := cmd.Flags()
	if flags.Changed("text") {
		update.Text = &taskText
	}
	if flags.Changed("notes") {
		update.Notes = &taskNotes
	}
	if flags.Changed("priority") {
		update.Priority = &taskPriority
	}
	if update.IsEmpty() {
		return errors.New("nothing to update: pass --text, --notes or --priority")
	}

	s := openJournal(l)
	if s != nil {
		defer s.Close()
	}

	task, err := newAPIClient(l).UpdateTask(cmd.Context(), args[0], update)
	recordAction(l, s, audit.ActionEdit, args[0], update, err)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", task.ID, task.Text)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	l := logger.FromContext(cmd.Context())
	s := openJournal(l)
	if s != nil {
		defer s.Close()
	}

	err := newAPIClient(l).DeleteTask(cmd.Context(), args[0])
	recordAction(l, s, audit.ActionDelete, args[0], map[string]string{"id": args[0]}, err)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
	return nil
}

func runTaskScore(cmd *cobra.Command, args []string) error {
	l := logger.FromContext(cmd.Context())
	dir := models.DirectionUp
	if len(args) == 2 {
		d, err := models.ParseDirection(args[1])
		if err != nil {
			return err
		}
		dir = d
	}

	s := openJournal(l)
	if s != nil {
		defer s.Close()
	}

	result, err := newAPIClient(l).ScoreTask(cmd.Context(), args[0], dir)
	action := audit.ActionScoreUp
	if dir == models.DirectionDown {
		action = audit.ActionScoreDown
	}
	recordAction(l, s, action, args[0], map[string]string{"id": args[0], "direction": string(dir)}, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scored %s: %s (delta %+.2f)\n", dir, args[0], result.Delta)
	fmt.Fprintf(cmd.OutOrStdout(), "HP %.1f  MP %.1f  EXP %.1f  GP %.2f  LVL %d\n", result.HP, result.MP, result.Exp, result.GP, result.Lvl)
	return nil
}

// --- Helpers ---

func formatPriority(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
