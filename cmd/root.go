package main

import (
	"errors"
	"os"

	"github.com/okian/surfcast/internal/config"
	"github.com/okian/surfcast/pkg/logger"
	"github.com/spf13/cobra"
)

// errReported marks errors a command already wrote to stderr itself.
var errReported = errors.New("reported")

// cli holds state shared by every subcommand.
type cli struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "surfcast",
		Short: "Surf spot suitability ranking",
		Long: `surfcast scores every registered surf spot against the current forecast
and a surfer's skill level and preferences, and returns the spots best first.

Configuration is layered: defaults, .env, the YAML file given by --config or
SURFCAST_CONFIG, then SURFCAST_* environment variables.

Examples:
  surfcast serve
  surfcast rank --skill Beginner --board Longboard
  surfcast probe --url http://localhost:9080`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "YAML config file (overrides SURFCAST_CONFIG)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(newServeCmd(c), newRankCmd(c), newProbeCmd(c))
	return root
}

// setup loads configuration and initializes logging. Logs go to stderr so
// command output on stdout stays machine readable.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.configFile != "" {
		if err := os.Setenv("SURFCAST_CONFIG", c.configFile); err != nil {
			return err
		}
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	c.cfg = cfg
	c.log = logger.Get()
	return nil
}
