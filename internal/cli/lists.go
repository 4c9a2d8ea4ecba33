package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/TWRT/mstodo/internal/convert"
	"github.com/TWRT/mstodo/internal/resources"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ListsOptions struct {
	GlobalOptions

	Output string
}

func NewCmdLists(factory ServiceFactory) *cobra.Command {
	o := &ListsOptions{GlobalOptions: DefaultGlobalOptions(factory)}
	cmd := &cobra.Command{
		Use:          "lists",
		Short:        "Display the task lists of the signed-in user.",
		Args:         cobra.NoArgs,
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ListsOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *ListsOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *ListsOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	lists, err := o.Service().Lists(ctx)
	if err != nil {
		return err
	}
	if o.Output != tableFormat {
		return printStructured(cmd.OutOrStdout(), o.Output, lo.Map(lists, func(l *resources.TaskList, _ int) convert.Convertible { return l }))
	}
	return printListsTable(cmd.OutOrStdout(), lists)
}

type NewListOptions struct {
	GlobalOptions
}

func NewCmdNewList(factory ServiceFactory) *cobra.Command {
	o := &NewListOptions{GlobalOptions: DefaultGlobalOptions(factory)}
	cmd := &cobra.Command{
		Use:          "new-list NAME",
		Short:        "Create a task list.",
		Args:         cobra.ExactArgs(1),
		RunE:         runE(o),
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *NewListOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	l, err := o.Service().CreateList(ctx, args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "list %q created with id %s\n", l.Name(), l.ID())
	return err
}
