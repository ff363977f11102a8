package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/tracker/internal/adapters/repository"
	app "github.com/okian/tracker/internal/app"
	"github.com/okian/tracker/internal/config"
	"github.com/okian/tracker/internal/domain/model"
	"github.com/okian/tracker/internal/domain/verify"
	"github.com/okian/tracker/pkg/logger"
	"github.com/okian/tracker/pkg/metrics"
)

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	username   string
	password   string

	cfg *config.Config
	svc *app.Service
	log logger.Logger
}

// execute runs one command line and returns the process exit code.
func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	c := &cli{in: in, out: out, errOut: errOut}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	c.shutdown(ctx)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	return 0
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Track student performance records per account",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.start(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (default $TRACKER_CONFIG)")
	root.PersistentFlags().StringVarP(&c.username, "user", "u", "", "account username")
	root.PersistentFlags().StringVarP(&c.password, "password", "p", "", "account password")

	root.AddCommand(
		c.signupCommand(),
		c.listCommand(),
		c.addCommand(),
		c.editCommand(),
		c.rankCommand(),
		c.exportCommand(),
		c.importCommand(),
		c.seedCommand(),
	)
	return root
}

// start loads configuration, opens the store and starts the service.
func (c *cli) start(ctx context.Context) error {
	// Log to stderr so command output on stdout stays clean.
	if err := logger.Init(logger.WithWriter(c.errOut)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	c.log = logger.Get()

	cfg, err := config.Load(ctx, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		c.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	path := cfg.AccountsPath
	if cfg.StoreBackend == config.BackendSQLite {
		path = cfg.SQLitePath
	}
	store, err := repository.Open(ctx, cfg.StoreBackend, path, repository.WithLogger(c.log.Named("store")))
	if err != nil {
		return err
	}

	c.svc = app.New(store,
		app.WithLogger(c.log),
		app.WithVerifier(verify.NewCodeChallenge(newLinePrompter(c.in, c.out))),
		app.WithAuthor(cfg.AuthorUsername, cfg.AuthorPassword),
		app.WithReportDir(cfg.ReportDir),
		app.WithLinesPerPage(cfg.LinesPerPage),
		app.WithHighlightCount(cfg.HighlightCount),
	)
	return c.svc.Start(ctx)
}

func (c *cli) shutdown(ctx context.Context) {
	if c.svc != nil {
		c.svc.Stop()
	}
	if c.cfg == nil || c.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(c.cfg.MetricsFile); err != nil {
		c.log.Warn(ctx, "metrics not written", logger.String("path", c.cfg.MetricsFile), logger.Error(err))
	}
}

// login authenticates the --user/--password pair.
func (c *cli) login(ctx context.Context) (model.Session, error) {
	if c.username == "" || c.password == "" {
		return model.Session{}, errors.New("--user and --password are required")
	}
	return c.svc.Login(ctx, c.username, c.password)
}

// report logs a command failure at a level matching its kind and passes it
// on.
func (c *cli) report(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if app.IsRejected(err) {
		c.log.Info(ctx, op+" rejected", logger.Error(err))
	} else {
		c.log.Error(ctx, op+" failed", logger.Error(err))
	}
	return err
}
