// Package cli defines the beanlab command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/sijoonlee/beanlab/examples/beanvscomponent"
	"github.com/sijoonlee/beanlab/examples/singleton"
	"github.com/sijoonlee/beanlab/examples/validatordemo"
	"github.com/sijoonlee/beanlab/internal/config"
	"github.com/sijoonlee/beanlab/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI is the root command configuration with subcommands.
type CLI struct {
	Config    string           `kong:"short='c',help='YAML config file',type='path'"`
	LogLevel  string           `kong:"short='l',help='Log level (overrides config)',enum=',debug,info,warn,error',default=''"`
	Singleton SingletonCmd     `kong:"cmd,help='Show that two services share one singleton dao'"`
	Beans     BeansCmd         `kong:"cmd,help='Run the bean versus component demonstration'"`
	Serve     ServeCmd         `kong:"cmd,help='Serve the employee REST API'"`
	Version   kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`
}

// Env is what every command receives.
type Env struct {
	Cfg config.Config
	Log *zap.Logger
	Out io.Writer
}

// SingletonCmd runs the client service demonstration.
type SingletonCmd struct {
	Direct bool `kong:"help='Call the configuration methods directly instead of through a context'"`
}

func (c *SingletonCmd) Run(ctx context.Context, env *Env) error {
	var (
		res singleton.Result
		err error
	)
	if c.Direct {
		res, err = singleton.RunDirect(env.Out, env.Log)
	} else {
		res, err = singleton.RunContainer(ctx, env.Out, env.Log)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Out, "shared dao: %t\n", res.SharedDao())
	return err
}

// BeansCmd runs the bean versus component demonstration.
type BeansCmd struct{}

func (c *BeansCmd) Run(ctx context.Context, env *Env) error {
	return beanvscomponent.Run(ctx, env.Out, env.Log)
}

// ServeCmd serves the employee API until interrupted.
type ServeCmd struct {
	Addr string `kong:"help='Listen address (overrides config)'"`
}

func (c *ServeCmd) Run(ctx context.Context, env *Env) error {
	cfg := env.Cfg
	if c.Addr != "" {
		cfg.ListenAddr = c.Addr
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return validatordemo.Run(ctx, cfg, env.Log)
}

// Run parses args, builds the shared environment and runs the selected command.
func Run(ctx context.Context, args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("beanlab"),
		kong.Description("Dependency injection demonstrations: singleton scope, bean methods, components and events"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s) released on %s", version, commit, date),
		},
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(&Env{Cfg: cfg, Log: log, Out: out})
}
