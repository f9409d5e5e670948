// Package cli is the devconsole command tree. Without a subcommand it opens
// the interactive console; the subcommands run single actions for scripts.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"devconsole/internal/config"
	"devconsole/internal/httpclient"
	"devconsole/internal/logging"
	"devconsole/internal/store"
	"devconsole/internal/ui"
)

var version = "0.1.0"

// errReported means the failure was already written to the output.
var errReported = errors.New("failed")

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	// color reports whether out is a terminal that understands ANSI colors.
	color func() bool
}

type options struct {
	streams

	configPath string
	storePath  string
	endpoint   string
	timeout    time.Duration
	debug      bool
	ephemeral  bool
}

// env is what every command works with once flags and config are resolved.
type env struct {
	cfg    config.Config
	store  *store.Store
	client *httpclient.Client
	log    zerolog.Logger
	closer io.Closer
}

func (e *env) Close() error { return e.closer.Close() }

// Execute runs the command tree against the process streams.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := streams{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		color: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
	}
	err := newRootCmd(s).ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func newRootCmd(s streams) *cobra.Command {
	o := &options{streams: s}

	root := &cobra.Command{
		Use:   "devconsole",
		Short: "Device management admin console",
		Long: `devconsole drives a device-management REST API.

Run without arguments to open the interactive console. Use the subcommands
to log in, list the available actions or run one of them from a script.

Examples:
  devconsole                                        # Open the console
  devconsole login --endpoint https://api.example.com --token T
  devconsole run unfreeze --serial ABC123
  devconsole run freeze --serial ABC123 -i message=Hi -i duration=4 -i date=2024-01-01
  devconsole run getTags --query 'length(@)'`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()
			return runConsole(e)
		},
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", config.DefaultPath(), "Config file")
	pf.StringVar(&o.storePath, "store", "", "Credentials file (default ~/.devconsole/credentials.yaml)")
	pf.StringVar(&o.endpoint, "endpoint", "", "API endpoint")
	pf.DurationVar(&o.timeout, "timeout", config.DefaultTimeout, "Request timeout, 0 waits forever")
	pf.BoolVar(&o.debug, "debug", false, "Write a debug log")
	pf.BoolVar(&o.ephemeral, "ephemeral", false, "Keep credentials in memory only")

	root.AddCommand(
		newLoginCmd(o),
		newActionsCmd(o),
		newRunCmd(o),
		newOpenAPICmd(o),
		newCheckCmd(o),
	)
	return root
}

// setup resolves the configuration. Flags set on the command line win over
// the environment and the config file.
func (o *options) setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.StorePath = o.storePath
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = o.endpoint
		cfg.Endpoints = cfg.WithEndpoint(o.endpoint)
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}

	log, closer, err := logging.New(cfg.Debug, cfg.LogPath)
	if err != nil {
		return nil, err
	}

	var kv store.KV
	if o.ephemeral {
		kv = store.NewMemKV()
	} else {
		kv = store.NewFileKV(cfg.StorePath)
	}

	log.Debug().
		Str("command", cmd.Name()).
		Str("store", cfg.StorePath).
		Bool("ephemeral", o.ephemeral).
		Dur("timeout", cfg.Timeout).
		Msg("starting")

	return &env{
		cfg:    cfg,
		store:  store.New(kv),
		client: httpclient.New(cfg.Timeout),
		log:    log,
		closer: closer,
	}, nil
}

func runConsole(e *env) error {
	endpoints := e.cfg.Endpoints
	if saved, ok := e.store.SavedEndpoint(); ok {
		endpoints = e.cfg.WithEndpoint(saved)
	}
	app := ui.NewApp(ui.Options{
		Store:     e.store,
		Client:    e.client,
		Logger:    e.log,
		Endpoints: endpoints,
		Selected:  e.cfg.Endpoint,
	})
	return app.Run()
}
