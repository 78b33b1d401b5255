package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/platform/filestore"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
	"github.com/phrazzld/storeboost-api/internal/platform/provider"
	"github.com/spf13/cobra"
)

// deps are the collaborators commands build on. Tests replace them.
type deps struct {
	newGenerator func(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error)
	loadConfig   func(path string) (*config.Config, error)
	stderr       io.Writer
}

func defaultDeps() deps {
	return deps{
		newGenerator: provider.New,
		loadConfig:   config.LoadFile,
		stderr:       os.Stderr,
	}
}

// cli holds the global flags and resolved dependencies of one invocation.
type cli struct {
	deps

	cfgFile   string
	storePath string
	debug     bool
	jsonOut   bool

	logger *slog.Logger
}

func newRootCommand(d deps) *cobra.Command {
	c := &cli{deps: d}

	root := &cobra.Command{
		Use:           "storeboost",
		Short:         "Generate product copy from a product URL",
		Long:          "storeboost turns a product page URL into a headline, description, bullet points, SEO metadata and a call to action.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if c.debug {
				level = "debug"
			}
			l, err := logger.New(c.stderr, level)
			if err != nil {
				return err
			}
			c.logger = l
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml when present)")
	flags.StringVar(&c.storePath, "file", defaultStorePath(), "session and history file")
	flags.BoolVar(&c.debug, "debug", false, "log at debug level to stderr")
	flags.BoolVar(&c.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		c.signupCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.balanceCommand(),
		c.generateCommand(),
		c.historyCommand(),
		c.optionsCommand(),
		c.plansCommand(),
	)
	return root
}

func defaultStorePath() string {
	if p := os.Getenv(config.EnvPrefix + "_STORE_FILE_PATH"); p != "" {
		return p
	}
	return "storeboost.json"
}

func (c *cli) openStore() (*filestore.Store, error) {
	s, err := filestore.Open(c.storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.storePath, err)
	}
	return s, nil
}
