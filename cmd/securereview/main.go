// Command securereview runs a security review session against the
// analysis service from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/threatflux/secureReviewGo/internal/config"
	"github.com/threatflux/secureReviewGo/internal/render"
	"github.com/threatflux/secureReviewGo/internal/workflow"
	"github.com/threatflux/secureReviewGo/pkg/client"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// errUnavailable is returned after a view rendered its not-available state
var errUnavailable = errors.New("view not available")

// cli holds the state shared by all subcommands of one invocation
type cli struct {
	loader     *config.Loader
	configFile string
	noBanner   bool
	noColor    bool

	cfg    *config.Config
	logger *logrus.Logger
	svc    workflow.Service
	app    *workflow.App

	// newService builds the analysis service client; replaced in tests
	newService func(cfg *config.Config) (workflow.Service, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUnavailable) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{newService: newClient}
	return c.command()
}

func (c *cli) command() *cobra.Command {
	c.loader = config.NewLoader(nil)

	root := &cobra.Command{
		Use:           "securereview",
		Short:         "Security review workflow: scan, fix, simulate, comply",
		Version:       fmt.Sprintf("%s (%s) built on %s", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configFile, "config", "c", "", "config file (default: securereview.yaml in ., ./config or $HOME/.securereview)")
	flags.BoolVar(&c.noBanner, "no-banner", false, "do not print the banner")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.String("service-url", "", "analysis service base URL")
	flags.Duration("timeout", 0, "analysis service request timeout")
	flags.String("log-level", "", "log level")
	flags.Duration("reveal-interval", 0, "delay between attack stage reveals")

	v := c.loader.Viper()
	_ = v.BindPFlag("service.base_url", flags.Lookup("service-url"))
	_ = v.BindPFlag("service.timeout", flags.Lookup("timeout"))
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("workflow.reveal_interval", flags.Lookup("reveal-interval"))

	root.AddCommand(
		c.scanCommand(),
		c.reportCommand(),
		c.issueCommand(),
		c.fixCommand(),
		c.simulateCommand(),
		c.complianceCommand(),
		c.samplesCommand(),
		c.lessonsCommand(),
		c.infoCommand(),
	)
	return root
}

// setup loads the configuration and opens the review session
func (c *cli) setup(logOut io.Writer) error {
	if c.noColor {
		color.NoColor = true
	}

	cfg, err := c.loader.Load(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = cfg.NewLogger(logOut)

	svc, err := c.newService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create analysis service client: %w", err)
	}
	c.svc = svc

	c.app = workflow.NewApp(svc, cfg.WorkflowConfig(), workflow.WithLogger(c.logger))

	c.logger.WithFields(logrus.Fields{
		"service": cfg.Service.BaseURL,
		"version": Version,
	}).Debug("Review session started")
	return nil
}

func newClient(cfg *config.Config) (workflow.Service, error) {
	return client.NewClient(cfg.ClientOptions()...)
}

// banner prints the banner unless disabled
func (c *cli) banner(w io.Writer) {
	if !c.noBanner {
		render.Banner(w)
	}
}
