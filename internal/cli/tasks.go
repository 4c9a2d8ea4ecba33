package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/models"
	"github.com/TWRT/mstodo/internal/resources"
	"github.com/TWRT/mstodo/internal/service"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dueLayout = "2006-01-02"

func validateImportance(v string) error {
	if v == "" || lo.Contains(models.Importances, models.Importance(v)) {
		return nil
	}
	return fmt.Errorf("importance must be one of %s", strings.Join(lo.Map(models.Importances, func(i models.Importance, _ int) string { return string(i) }), ", "))
}

type TasksOptions struct {
	GlobalOptions

	All        bool
	Importance string
	Output     string
}

func NewCmdTasks(factory ServiceFactory) *cobra.Command {
	o := &TasksOptions{GlobalOptions: DefaultGlobalOptions(factory)}
	cmd := &cobra.Command{
		Use:          "tasks LIST",
		Short:        "Display the tasks of a list, given by id or name.",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *TasksOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.BoolVarP(&o.All, "all", "a", o.All, "Include completed tasks.")
	fs.StringVar(&o.Importance, "importance", o.Importance, "Only show tasks of this importance (low, normal, high).")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *TasksOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if err := validateImportance(o.Importance); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *TasksOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	tasks, err := o.Service().Tasks(ctx, args[0], service.TaskQuery{
		All:        o.All,
		Importance: models.Importance(o.Importance),
	})
	if err != nil {
		return err
	}
	if o.Output != tableFormat {
		return printStructured(cmd.OutOrStdout(), o.Output, lo.Map(tasks, func(t *resources.Task, _ int) convert.Convertible { return t }))
	}
	return printTasksTable(cmd.OutOrStdout(), tasks)
}

type AddOptions struct {
	GlobalOptions

	Importance string
	Due        string
	Note       string
	Subtasks   []string

	due time.Time
}

func NewCmdAdd(factory ServiceFactory) *cobra.Command {
	o := &AddOptions{GlobalOptions: DefaultGlobalOptions(factory)}
	cmd := &cobra.Command{
		Use:          "add LIST TITLE",
		Short:        "Add a task to a list.",
		Args:         cobra.ExactArgs(2),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *AddOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Importance, "importance", o.Importance, "Importance of the task (low, normal, high).")
	fs.StringVar(&o.Due, "due", o.Due, "Due date as YYYY-MM-DD.")
	fs.StringVar(&o.Note, "note", o.Note, "Plain text body of the task.")
	fs.StringArrayVar(&o.Subtasks, "step", o.Subtasks, "Checklist item to add; repeat for several.")
}

func (o *AddOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if strings.TrimSpace(args[1]) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if err := validateImportance(o.Importance); err != nil {
		return err
	}
	if o.Due != "" {
		due, err := time.ParseInLocation(dueLayout, o.Due, time.UTC)
		if err != nil {
			return fmt.Errorf("due must be YYYY-MM-DD: %w", err)
		}
		o.due = due
	}
	return nil
}

func (o *AddOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	t, err := o.Service().AddTask(ctx, args[0], service.NewTask{
		Title:      args[1],
		Importance: models.Importance(o.Importance),
		Due:        o.due,
		Body:       o.Note,
		Subtasks:   o.Subtasks,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "task %q created with id %s\n", t.Title(), t.ID())
	return err
}

type CompleteOptions struct {
	GlobalOptions
}

func NewCmdComplete(factory ServiceFactory) *cobra.Command {
	o := &CompleteOptions{GlobalOptions: DefaultGlobalOptions(factory)}
	cmd := &cobra.Command{
		Use:          "complete LIST TASK_ID",
		Short:        "Mark a task as completed.",
		Args:         cobra.ExactArgs(2),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *CompleteOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	t, err := o.Service().CompleteTask(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "task %q completed\n", t.Title())
	return err
}

type DeleteOptions struct {
	GlobalOptions
}

func NewCmdDelete(factory ServiceFactory) *cobra.Command {
	o := &DeleteOptions{GlobalOptions: DefaultGlobalOptions(factory)}
	cmd := &cobra.Command{
		Use:          "delete LIST TASK_ID",
		Short:        "Delete a task.",
		Args:         cobra.ExactArgs(2),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *DeleteOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := o.Service().DeleteTask(ctx, args[0], args[1]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "task %s deleted\n", args[1])
	return err
}
