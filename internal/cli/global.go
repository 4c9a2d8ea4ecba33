package cli

import (
	"context"
	"fmt"

	"github.com/TWRT/mstodo/internal/client"
	"github.com/TWRT/mstodo/internal/client/graph"
	"github.com/TWRT/mstodo/internal/config"
	"github.com/TWRT/mstodo/internal/log"
	"github.com/TWRT/mstodo/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const appName = "mstodo"

// ServiceFactory builds the service a command runs against.
type ServiceFactory func(cfg *config.Config, log logrus.FieldLogger) *service.TodoService

// GraphService talks to the Graph API with the configured access token.
func GraphService(cfg *config.Config, log logrus.FieldLogger) *service.TodoService {
	provider := graph.NewGraphClient(cfg.AccessToken,
		graph.WithTimeout(cfg.HTTPTimeout),
		graph.WithLogger(log),
	)
	c := client.New(provider, cfg.APIURL, cfg.APIPrefix, client.WithLogger(log))
	return service.NewTodoService(c, log)
}

type GlobalOptions struct {
	EnvFile string

	newService ServiceFactory
	service    *service.TodoService
	log        *logrus.Logger
}

func DefaultGlobalOptions(factory ServiceFactory) GlobalOptions {
	return GlobalOptions{
		EnvFile:    ".env",
		newService: factory,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Read settings from this dotenv file before the environment.")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.log = log.InitLogs(cfg.Level())
	o.log.SetOutput(cmd.ErrOrStderr())
	o.service = o.newService(cfg, o.log)
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

func (o *GlobalOptions) Service() *service.TodoService {
	return o.service
}

// runner is what every subcommand implements on top of GlobalOptions.
type runner interface {
	Complete(cmd *cobra.Command, args []string) error
	Validate(args []string) error
	Run(ctx context.Context, cmd *cobra.Command, args []string) error
}

func runE(o runner) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := o.Complete(cmd, args); err != nil {
			return err
		}
		if err := o.Validate(args); err != nil {
			return err
		}
		return o.Run(cmd.Context(), cmd, args)
	}
}

// NewRootCmd wires every subcommand to services built by factory.
func NewRootCmd(factory ServiceFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: appName + " manages Microsoft To Do lists and tasks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	cmd.AddCommand(NewCmdLists(factory))
	cmd.AddCommand(NewCmdNewList(factory))
	cmd.AddCommand(NewCmdTasks(factory))
	cmd.AddCommand(NewCmdAdd(factory))
	cmd.AddCommand(NewCmdComplete(factory))
	cmd.AddCommand(NewCmdDelete(factory))
	return cmd
}
